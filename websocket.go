package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/segmentio/ksuid"

	"github.com/james226/workflow-api/diagram"
)

const writeWait = 10 * time.Second

// Websocket carries one editing client's pointer events into a diagram's
// broker and the broker's broadcasts back out.
type Websocket struct {
	Id     ksuid.KSUID
	broker *Broker
}

func NewWebsocket(broker *Broker) *Websocket {
	return &Websocket{
		Id:     ksuid.New(),
		broker: broker,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (c *Websocket) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	ws, err := upgrader.Upgrade(rw, req, nil)
	if err != nil {
		log.Println(err)
		return
	}
	defer ws.Close()

	messageChan, err := c.broker.Subscribe(c.Id)
	if err != nil {
		ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()),
			time.Now().Add(writeWait))
		return
	}
	defer c.broker.Unsubscribe(messageChan)

	closed := make(chan struct{})

	go func() {
		defer close(closed)
		for {
			_, p, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Println("Websocket read error", err)
				}
				return
			}

			var message diagram.Message
			if err := json.Unmarshal(p, &message); err != nil {
				log.Printf("Websocket %s sent malformed message: %v", c.Id, err)
				continue
			}

			message.ClientId = c.Id.String()

			if err := c.broker.Notify(message); err != nil {
				return
			}
		}
	}()

	c.MessageLoop(ws, messageChan, closed)

	log.Printf("Closing client %s", c.Id)
}

func (c *Websocket) MessageLoop(ws *websocket.Conn, messageChan chan []byte, closed <-chan struct{}) {
	for {
		select {
		case m := <-messageChan:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			err := ws.WriteMessage(websocket.TextMessage, m)
			if err != nil {
				log.Println("Websocket write error", err)
				return
			}

		case <-closed:
			return
		}
	}
}
