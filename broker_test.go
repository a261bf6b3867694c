package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/james226/workflow-api/diagram"
	"github.com/james226/workflow-api/shape"
)

func receive(t *testing.T, messages chan []byte) diagram.Message {
	t.Helper()
	select {
	case b := <-messages:
		var m diagram.Message
		require.NoError(t, json.Unmarshal(b, &m))
		return m
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return diagram.Message{}
}

func TestBrokerSubscribeAndBroadcast(t *testing.T) {
	closed := make(chan struct{})
	broker := NewBroker("abc", nil, 0, func() { close(closed) })

	alice := ksuid.New()
	aliceChan, err := broker.Subscribe(alice)
	require.NoError(t, err)
	assert.Equal(t, "connected", receive(t, aliceChan).Type)
	assert.Equal(t, diagram.TypeSnapshot, receive(t, aliceChan).Type)

	bob := ksuid.New()
	bobChan, err := broker.Subscribe(bob)
	require.NoError(t, err)
	joined := receive(t, aliceChan)
	assert.Equal(t, "client-connected", joined.Type)
	assert.Equal(t, bob.String(), joined.ClientId)
	receive(t, bobChan)
	receive(t, bobChan)

	require.NoError(t, broker.Notify(diagram.Message{
		ClientId:  alice.String(),
		Type:      diagram.TypeAddShape,
		ShapeType: shape.Process,
		Position:  &shape.Position{X: 10, Y: 20},
	}))
	for _, ch := range []chan []byte{aliceChan, bobChan} {
		m := receive(t, ch)
		assert.Equal(t, diagram.TypeShapeAdded, m.Type)
		assert.Equal(t, alice.String(), m.ClientId)
	}

	// Errors only reach the client that caused them.
	require.NoError(t, broker.Notify(diagram.Message{ClientId: bob.String(), Type: diagram.TypeRemoveShape, ShapeId: "shape-9"}))
	assert.Equal(t, diagram.TypeError, receive(t, bobChan).Type)

	broker.Unsubscribe(bobChan)
	left := receive(t, aliceChan)
	assert.Equal(t, "client-disconnected", left.Type)
	assert.Equal(t, bob.String(), left.ClientId)

	broker.Unsubscribe(aliceChan)
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("broker did not close")
	}

	_, err = broker.Subscribe(ksuid.New())
	assert.ErrorIs(t, err, errBrokerClosed)
}

func TestBrokerRelaysSignals(t *testing.T) {
	broker := NewBroker("signals", nil, 0, func() {})

	alice, bob := ksuid.New(), ksuid.New()
	aliceChan, err := broker.Subscribe(alice)
	require.NoError(t, err)
	receive(t, aliceChan)
	receive(t, aliceChan)
	bobChan, err := broker.Subscribe(bob)
	require.NoError(t, err)
	receive(t, aliceChan)
	receive(t, bobChan)
	receive(t, bobChan)

	require.NoError(t, broker.Notify(diagram.Message{ClientId: alice.String(), Type: "offer", For: bob.String(), Payload: json.RawMessage(`{"sdp":"x"}`)}))
	m := receive(t, bobChan)
	assert.Equal(t, "offer", m.Type)
	assert.JSONEq(t, `{"sdp":"x"}`, string(m.Payload))

	// Alice's next message is the export reply, so the offer was not echoed.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = broker.Request(ctx, diagram.Message{ClientId: alice.String(), Type: diagram.TypeExport})
	require.NoError(t, err)
	assert.Equal(t, diagram.TypeShapesExported, receive(t, aliceChan).Type)
}

func TestBrokerRequestReplies(t *testing.T) {
	broker := NewBroker("request", nil, 0, func() {})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := broker.Request(ctx, diagram.Message{ClientId: "http", Type: diagram.TypeAddShapes, Count: 2, ShapeType: shape.Data})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Len(t, messages[0].Shapes, 2)
}

func TestBrokerCountsUnknownTypesUnderOneLabel(t *testing.T) {
	broker := NewBroker("labels", nil, 0, func() {})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, typ := range []string{"random-a", "random-b"} {
		messages, err := broker.Request(ctx, diagram.Message{ClientId: "c1", Type: typ})
		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, diagram.TypeError, messages[0].Type)
	}

	for _, typ := range []string{"random-a", "random-b"} {
		assert.False(t, MessagesTotal.DeleteLabelValues(typ), typ)
		assert.False(t, MessageErrorsTotal.DeleteLabelValues(typ), typ)
	}
	assert.True(t, MessageErrorsTotal.DeleteLabelValues("unknown"))
}
