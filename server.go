package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/ksuid"

	"github.com/james226/workflow-api/diagram"
)

type ClientMessage struct {
	Message diagram.Message
	Reply   chan []*diagram.Message
}

type exportResponse struct {
	Token  string          `json:"token"`
	Shapes json.RawMessage `json:"shapes"`
}

type importRequest struct {
	Token string `json:"token"`
}

type importResponse struct {
	Shapes int `json:"shapes"`
}

// Server maps diagram ids to their brokers and exposes them over HTTP.
type Server struct {
	mu      sync.Mutex
	brokers map[string]*Broker

	rdb       *redis.Client
	publisher Publisher
	states    *StateManager
	origin    string
	idle      time.Duration
}

// NewServer builds a server. A nil rdb disables cross-instance fanout and the
// /subscribe endpoint.
func NewServer(cfg Config, rdb *redis.Client) *Server {
	s := &Server{
		brokers: make(map[string]*Broker),
		rdb:     rdb,
		states:  NewStateManager([]byte(cfg.Secret)),
		origin:  cfg.Origin,
		idle:    cfg.IdleTimeout,
	}
	if rdb != nil {
		s.publisher = NewRedisFanout(rdb)
	}
	return s
}

// broker returns the running broker for id, starting one if needed.
func (s *Server) broker(id string) *Broker {
	s.mu.Lock()
	defer s.mu.Unlock()

	broker, ok := s.brokers[id]
	if !ok {
		log.Printf("Creating broker: %s", id)
		broker = NewBroker(id, s.publisher, s.idle, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.brokers[id] == broker {
				delete(s.brokers, id)
			}
		})
		s.brokers[id] = broker
	}
	return broker
}

func (s *Server) lookup(id string) (*Broker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	broker, ok := s.brokers[id]
	return broker, ok
}

func (s *Server) diagramCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.brokers)
}

func (s *Server) setCors(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			return
		}

		h.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.Handle("/health", healthController{diagrams: s.diagramCount})
	router.Handle("/metrics", promhttp.Handler())

	router.HandleFunc("/events/{id:[\\w\\d]+}", func(response http.ResponseWriter, request *http.Request) {
		s.broker(mux.Vars(request)["id"]).ServeHTTP(response, request)
	})

	router.HandleFunc("/ws/{id:[\\w\\d]+}", func(response http.ResponseWriter, request *http.Request) {
		NewWebsocket(s.broker(mux.Vars(request)["id"])).ServeHTTP(response, request)
	})

	router.HandleFunc("/subscribe/{id:[\\w\\d]+}", func(response http.ResponseWriter, request *http.Request) {
		if s.rdb == nil {
			http.Error(response, "Fanout disabled", http.StatusNotFound)
			return
		}
		NewClient(ksuid.New().String(), mux.Vars(request)["id"]).ServeHTTP(response, request, s.rdb)
	})

	router.HandleFunc("/update/{id:[\\w\\d]+}", s.update).Methods(http.MethodPost)
	router.HandleFunc("/export/{id:[\\w\\d]+}", s.export).Methods(http.MethodGet)
	router.HandleFunc("/import/{id:[\\w\\d]+}", s.importState).Methods(http.MethodPost)

	return s.setCors(router)
}

func (s *Server) update(response http.ResponseWriter, request *http.Request) {
	broker := s.broker(mux.Vars(request)["id"])

	var msg diagram.Message
	if err := json.NewDecoder(request.Body).Decode(&msg); err != nil {
		http.Error(response, err.Error(), http.StatusBadRequest)
		return
	}

	if err := broker.Notify(msg); err != nil {
		http.Error(response, err.Error(), http.StatusServiceUnavailable)
	}
}

func (s *Server) export(response http.ResponseWriter, request *http.Request) {
	id := mux.Vars(request)["id"]
	broker, ok := s.lookup(id)
	if !ok {
		http.Error(response, "Unknown diagram", http.StatusNotFound)
		return
	}

	messages, err := broker.Request(request.Context(), diagram.Message{Type: diagram.TypeExport, ClientId: "http-" + ksuid.New().String()})
	if err != nil {
		http.Error(response, err.Error(), http.StatusServiceUnavailable)
		return
	}

	data, err := replyData(messages, diagram.TypeShapesExported)
	if err != nil {
		http.Error(response, err.Error(), http.StatusInternalServerError)
		return
	}

	token, err := s.states.Serialize(State{Diagram: id, Shapes: data})
	if err != nil {
		http.Error(response, err.Error(), http.StatusInternalServerError)
		return
	}

	response.Header().Set("Content-Type", "application/json")
	json.NewEncoder(response).Encode(exportResponse{Token: token, Shapes: json.RawMessage(data)})
}

func (s *Server) importState(response http.ResponseWriter, request *http.Request) {
	var body importRequest
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		http.Error(response, err.Error(), http.StatusBadRequest)
		return
	}

	state, err := s.states.Deserialize(body.Token)
	if err != nil {
		http.Error(response, err.Error(), http.StatusBadRequest)
		return
	}

	broker := s.broker(mux.Vars(request)["id"])
	messages, err := broker.Request(request.Context(), diagram.Message{
		Type:     diagram.TypeImport,
		ClientId: "http-" + ksuid.New().String(),
		Data:     state.Shapes,
	})
	if err != nil {
		http.Error(response, err.Error(), http.StatusServiceUnavailable)
		return
	}

	for _, m := range messages {
		switch m.Type {
		case diagram.TypeError:
			http.Error(response, m.Error, http.StatusBadRequest)
			return
		case diagram.TypeShapesImported:
			response.Header().Set("Content-Type", "application/json")
			json.NewEncoder(response).Encode(importResponse{Shapes: len(m.Shapes)})
			return
		}
	}
	http.Error(response, "Import produced no result", http.StatusInternalServerError)
}

func replyData(messages []*diagram.Message, kind string) (string, error) {
	for _, m := range messages {
		switch m.Type {
		case kind:
			return m.Data, nil
		case diagram.TypeError:
			return "", errors.New(m.Error)
		}
	}
	return "", errors.New("no " + kind + " reply")
}
