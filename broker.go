package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/james226/workflow-api/diagram"
	"github.com/segmentio/ksuid"
)

const clientBuffer = 64

var errBrokerClosed = errors.New("broker closed")

type subscription struct {
	id       ksuid.KSUID
	messages chan []byte
}

// Broker owns one diagram's editor. All editor access happens on the listen
// goroutine; clients and HTTP handlers talk to it through channels.
type Broker struct {
	Notifier chan ClientMessage

	newClients     chan subscription
	closingClients chan chan []byte
	clients        map[chan []byte]ksuid.KSUID
	done           chan struct{}

	editor    *diagram.Editor
	publisher Publisher

	// idleTimeout closes a broker that has had no clients for that long. Zero
	// keeps it open until its last client leaves.
	idleTimeout time.Duration
	onClose     func()
}

func NewBroker(id string, publisher Publisher, idleTimeout time.Duration, onClose func()) (broker *Broker) {
	broker = &Broker{
		Notifier:       make(chan ClientMessage, 1),
		newClients:     make(chan subscription),
		closingClients: make(chan chan []byte),
		clients:        make(map[chan []byte]ksuid.KSUID),
		done:           make(chan struct{}),
		editor:         diagram.NewEditor(id, diagram.EditorConfig{}),
		publisher:      publisher,
		idleTimeout:    idleTimeout,
		onClose:        onClose,
	}

	go broker.listen()

	return
}

// Subscribe registers a client and returns the channel its messages arrive on.
func (broker *Broker) Subscribe(id ksuid.KSUID) (chan []byte, error) {
	messages := make(chan []byte, clientBuffer)
	select {
	case broker.newClients <- subscription{id: id, messages: messages}:
		return messages, nil
	case <-broker.done:
		return nil, errBrokerClosed
	}
}

func (broker *Broker) Unsubscribe(messages chan []byte) {
	select {
	case broker.closingClients <- messages:
	case <-broker.done:
	}
}

// Notify queues a client message for the editor.
func (broker *Broker) Notify(msg diagram.Message) error {
	select {
	case broker.Notifier <- ClientMessage{Message: msg}:
		return nil
	case <-broker.done:
		return errBrokerClosed
	}
}

// Request processes msg and returns the editor's output to the caller as well
// as broadcasting it.
func (broker *Broker) Request(ctx context.Context, msg diagram.Message) ([]*diagram.Message, error) {
	reply := make(chan []*diagram.Message, 1)
	select {
	case broker.Notifier <- ClientMessage{Message: msg, Reply: reply}:
	case <-broker.done:
		return nil, errBrokerClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case messages := <-reply:
		return messages, nil
	case <-broker.done:
		select {
		case messages := <-reply:
			return messages, nil
		default:
		}
		return nil, errBrokerClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (broker *Broker) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	flusher, ok := rw.(http.Flusher)

	if !ok {
		http.Error(rw, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}

	messageChan, err := broker.Subscribe(ksuid.New())
	if err != nil {
		http.Error(rw, err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer broker.Unsubscribe(messageChan)

	rw.Header().Set("Content-Type", "text/event-stream")
	rw.Header().Set("Cache-Control", "no-cache")
	rw.Header().Set("Connection", "keep-alive")

	notify := req.Context().Done()

	for {
		select {
		case m := <-messageChan:
			fmt.Fprintf(rw, "data: %s\n\n", m)
			flusher.Flush()
		case <-notify:
			return
		}
	}
}

func (broker *Broker) listen() {
	ActiveDiagrams.Inc()
	defer ActiveDiagrams.Dec()

	var idle <-chan time.Time
	var timer *time.Timer
	if broker.idleTimeout > 0 {
		timer = time.NewTimer(broker.idleTimeout)
		defer timer.Stop()
		idle = timer.C
	}

	for {
		if timer != nil && len(broker.clients) == 0 {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(broker.idleTimeout)
		}

		select {
		case <-idle:
			if len(broker.clients) > 0 {
				continue
			}
			log.Printf("Broker %s idle for %s", broker.editor.Id, broker.idleTimeout)
			broker.close()
			return

		case s := <-broker.newClients:
			clients := make([]string, 0, len(broker.clients))
			for _, id := range broker.clients {
				clients = append(clients, id.String())
			}

			broker.broadcast(diagram.InitialMessage{Type: "client-connected", ClientId: s.id.String()})

			broker.clients[s.messages] = s.id
			broker.send(s.messages, diagram.InitialMessage{Type: "connected", Clients: clients, ClientId: s.id.String()})
			broker.send(s.messages, broker.editor.Snapshot())
			ConnectedClients.WithLabelValues(broker.editor.Id).Set(float64(len(broker.clients)))
			log.Printf("Client added. %d registered clients", len(broker.clients))

		case s := <-broker.closingClients:
			clientId, ok := broker.clients[s]
			if !ok {
				continue
			}
			delete(broker.clients, s)
			ConnectedClients.WithLabelValues(broker.editor.Id).Set(float64(len(broker.clients)))
			log.Printf("Removed client. %d registered clients", len(broker.clients))

			ended := broker.editor.Disconnect(clientId.String())

			if len(broker.clients) == 0 {
				broker.close()
				return
			}

			broker.deliver(ended)
			broker.broadcast(diagram.InitialMessage{Type: "client-disconnected", ClientId: clientId.String()})

		case event := <-broker.Notifier:
			label := typeLabel(event.Message.Type)
			MessagesTotal.WithLabelValues(label).Inc()

			if diagram.IsSignal(event.Message.Type) {
				broker.relay(&event.Message)
				continue
			}

			messages := broker.editor.Process(&event.Message)
			for _, m := range messages {
				if m.Type == diagram.TypeError {
					MessageErrorsTotal.WithLabelValues(label).Inc()
				}
			}

			if event.Reply != nil {
				event.Reply <- messages
			}
			broker.deliver(messages)
		}
	}
}

func (broker *Broker) close() {
	log.Printf("Closing broker: %s", broker.editor.Id)
	ConnectedClients.DeleteLabelValues(broker.editor.Id)
	broker.onClose()
	close(broker.done)
}

// deliver routes addressed messages to their recipient and broadcasts the rest.
func (broker *Broker) deliver(messages []*diagram.Message) {
	for _, message := range messages {
		if message.For != "" {
			broker.relay(message)
			continue
		}
		broker.broadcast(message)
	}
}

func (broker *Broker) relay(message *diagram.Message) {
	for client, id := range broker.clients {
		if id.String() == message.For {
			broker.send(client, message)
		}
	}
}

func (broker *Broker) broadcast(message interface{}) {
	bytes, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to encode broadcast: %v", err)
		return
	}
	for client := range broker.clients {
		broker.push(client, bytes)
	}
	if broker.publisher != nil {
		if err := broker.publisher.Publish(context.Background(), channelFor(broker.editor.Id), bytes); err != nil {
			log.Printf("Failed to publish to %s: %v", channelFor(broker.editor.Id), err)
		}
	}
}

func (broker *Broker) send(client chan []byte, message interface{}) {
	bytes, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to encode message: %v", err)
		return
	}
	broker.push(client, bytes)
}

// push never blocks the listen loop; a client that falls behind loses messages.
func (broker *Broker) push(client chan []byte, bytes []byte) {
	select {
	case client <- bytes:
	default:
		DroppedMessagesTotal.Inc()
	}
}
