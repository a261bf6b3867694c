package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var errInvalidState = errors.New("invalid state provided")

// State is an exported diagram: the serialized shape list and the diagram it
// came from.
type State struct {
	Diagram string
	Shapes  string
}

// StateManager signs exported diagrams so an import can trust that the shape
// list was produced by this service and not edited in transit.
type StateManager struct {
	secret []byte
}

func NewStateManager(secret []byte) *StateManager {
	return &StateManager{
		secret: secret,
	}
}

func (r *StateManager) Deserialize(state string) (*State, error) {
	token, err := jwt.Parse(state, func(jwtToken *jwt.Token) (interface{}, error) {
		if _, ok := jwtToken.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected method: %s", jwtToken.Header["alg"])
		}

		return r.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidState, err)
	}

	if !token.Valid {
		return nil, errInvalidState
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidState
	}
	diagramId, _ := claims["diagram"].(string)
	shapes, ok := claims["shapes"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing shapes", errInvalidState)
	}

	return &State{Diagram: diagramId, Shapes: shapes}, nil
}

func (r *StateManager) Serialize(state State) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"diagram": state.Diagram,
		"shapes":  state.Shapes,
		"nbf":     time.Now().Unix(),
	})

	return token.SignedString(r.secret)
}
