package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-redis/redis/v8"
)

// Client streams a diagram's redis channel to an observer as server-sent
// events. Observers see broadcasts from every instance but cannot edit.
type Client struct {
	Id          string
	DiagramId   string
	messageChan chan []byte
	notify      <-chan struct{}
}

func NewClient(id string, diagramId string) *Client {
	return &Client{
		Id:        id,
		DiagramId: diagramId,
	}
}

func (c *Client) ServeHTTP(rw http.ResponseWriter, req *http.Request, rdb *redis.Client) {
	flusher, ok := rw.(http.Flusher)

	if !ok {
		http.Error(rw, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()

	c.notify = ctx.Done()
	c.messageChan = make(chan []byte)

	updates := rdb.Subscribe(ctx, channelFor(c.DiagramId))
	defer updates.Close()

	if _, err := updates.Receive(ctx); err != nil {
		log.Printf("Subscribe to %s failed: %v", channelFor(c.DiagramId), err)
		http.Error(rw, "Subscription failed", http.StatusBadGateway)
		return
	}

	go func() {
		ch := updates.Channel()

		for msg := range ch {
			select {
			case c.messageChan <- []byte(msg.Payload):
			case <-c.notify:
				return
			}
		}
	}()

	rw.Header().Set("Content-Type", "text/event-stream")
	rw.Header().Set("Cache-Control", "no-cache")
	rw.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(rw, "data: {\"type\":\"connected\",\"clientId\":\"%s\"}\n\n", c.Id)
	flusher.Flush()

	c.MessageLoop(rw, flusher)

	log.Printf("Closing client %s", c.Id)
}

func (c *Client) MessageLoop(rw http.ResponseWriter, flusher http.Flusher) {
	for {
		select {
		case m := <-c.messageChan:
			fmt.Fprintf(rw, "data: %s\n\n", m)
			flusher.Flush()

		case <-c.notify:
			return
		}
	}
}
