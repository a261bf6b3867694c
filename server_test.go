package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/james226/workflow-api/diagram"
	"github.com/james226/workflow-api/shape"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(Config{Origin: "http://example.test", Secret: "secret"}, nil)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return s, srv
}

func TestHealth(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://example.test", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestExportUnknownDiagram(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/export/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubscribeWithoutRedis(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/subscribe/abc")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func TestImportExport(t *testing.T) {
	s, srv := newTestServer(t)

	token, err := s.states.Serialize(State{Diagram: "other", Shapes: `[{"id":"shape-3","type":"Data"}]`})
	require.NoError(t, err)

	resp := postJSON(t, srv.URL+"/import/abc", importRequest{Token: token})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var imported importResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&imported))
	assert.Equal(t, 1, imported.Shapes)

	update := postJSON(t, srv.URL+"/update/abc", diagram.Message{ClientId: "c1", Type: diagram.TypeAddShape, ShapeType: shape.Process})
	update.Body.Close()
	assert.Equal(t, http.StatusOK, update.StatusCode)

	resp, err = http.Get(srv.URL + "/export/abc")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var exported exportResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&exported))

	var shapes []diagram.ShapeRecord
	require.NoError(t, json.Unmarshal(exported.Shapes, &shapes))
	require.Len(t, shapes, 2)
	assert.Equal(t, "shape-3", shapes[0].ID)
	assert.Equal(t, "shape-4", shapes[1].ID)

	state, err := s.states.Deserialize(exported.Token)
	require.NoError(t, err)
	assert.Equal(t, "abc", state.Diagram)
}

func TestImportRejectsBadToken(t *testing.T) {
	_, srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/import/abc", importRequest{Token: "forged"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestImportRejectsMalformedShapes(t *testing.T) {
	s, srv := newTestServer(t)

	token, err := s.states.Serialize(State{Shapes: `{"id":"shape-1"}`})
	require.NoError(t, err)

	resp := postJSON(t, srv.URL+"/import/abc", importRequest{Token: token})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func readMessage(t *testing.T, ws *websocket.Conn) diagram.Message {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	var m diagram.Message
	require.NoError(t, ws.ReadJSON(&m))
	return m
}

func TestWebsocketEditing(t *testing.T) {
	_, srv := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/live"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	connected := readMessage(t, ws)
	assert.Equal(t, "connected", connected.Type)
	assert.Equal(t, diagram.TypeSnapshot, readMessage(t, ws).Type)

	require.NoError(t, ws.WriteJSON(diagram.Message{Type: diagram.TypeAddShape, ShapeType: shape.Process, Position: &shape.Position{X: 10, Y: 20}}))
	added := readMessage(t, ws)
	assert.Equal(t, diagram.TypeShapeAdded, added.Type)
	assert.Equal(t, connected.ClientId, added.ClientId)

	require.NoError(t, ws.WriteJSON(diagram.Message{Type: diagram.TypePointerDown, ShapeId: added.ShapeId, Pointer: shape.Mouse(110, 120)}))
	assert.Equal(t, diagram.TypeDragStart, readMessage(t, ws).Type)

	require.NoError(t, ws.WriteJSON(diagram.Message{Type: diagram.TypePointerMove, Pointer: shape.Mouse(160, 170)}))
	moved := readMessage(t, ws)
	assert.Equal(t, diagram.TypeDragMove, moved.Type)
	assert.Equal(t, shape.Position{X: 60, Y: 70}, *moved.Position)
}

func TestIdleDiagramsClose(t *testing.T) {
	s := NewServer(Config{Origin: "*", Secret: "secret", IdleTimeout: 100 * time.Millisecond}, nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	for _, id := range []string{"d0", "d1", "d2"} {
		resp := postJSON(t, srv.URL+"/update/"+id, diagram.Message{ClientId: "c1", Type: diagram.TypeAddShape})
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	require.Eventually(t, func() bool { return s.diagramCount() == 0 }, 5*time.Second, 10*time.Millisecond)

	resp, err := http.Get(srv.URL + "/export/d0")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubscribedDiagramOutlivesIdleTimeout(t *testing.T) {
	s := NewServer(Config{Origin: "*", Secret: "secret", IdleTimeout: 200 * time.Millisecond}, nil)

	messages, err := s.broker("kept").Subscribe(ksuid.New())
	require.NoError(t, err)

	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, 1, s.diagramCount())

	s.broker("kept").Unsubscribe(messages)
	require.Eventually(t, func() bool { return s.diagramCount() == 0 }, 5*time.Second, 10*time.Millisecond)
}
