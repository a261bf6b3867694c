package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/james226/workflow-api/shape"
)

func newTestGraph() *ConnectionGraph {
	return NewConnectionGraph(CounterGenerator("conn_"), nil)
}

func TestCompleteConnection(t *testing.T) {
	g := newTestGraph()

	g.StartConnection("shape-1", AnchorRight, shape.Position{X: 1, Y: 2})
	assert.True(t, g.IsConnecting())

	conn, err := g.CompleteConnection("shape-2", AnchorLeft)
	require.NoError(t, err)
	assert.Equal(t, Connection{
		ID:            "conn_1",
		SourceShapeID: "shape-1",
		SourceAnchor:  AnchorRight,
		TargetShapeID: "shape-2",
		TargetAnchor:  AnchorLeft,
	}, *conn)
	assert.False(t, g.IsConnecting())
	assert.Equal(t, []Connection{*conn}, g.Connections())
}

func TestCompleteWithoutPending(t *testing.T) {
	g := newTestGraph()

	conn, err := g.CompleteConnection("shape-2", AnchorLeft)
	assert.Nil(t, conn)
	assert.ErrorIs(t, err, ErrNoPendingConnection)
	assert.Empty(t, g.Connections())
}

func TestSelfConnectionRejected(t *testing.T) {
	g := newTestGraph()

	g.StartConnection("shape-1", AnchorTop, shape.Position{})
	conn, err := g.CompleteConnection("shape-1", AnchorBottom)

	assert.Nil(t, conn)
	assert.ErrorIs(t, err, ErrSelfConnection)
	assert.False(t, g.IsConnecting())
	_, ok := g.Pending()
	assert.False(t, ok)
	assert.Empty(t, g.Connections())
}

func TestStartConnectionOverwritesDraft(t *testing.T) {
	g := newTestGraph()

	g.StartConnection("shape-1", AnchorTop, shape.Position{})
	g.StartConnection("shape-3", AnchorLeft, shape.Position{X: 5})

	pending, ok := g.Pending()
	require.True(t, ok)
	assert.Equal(t, PendingConnection{ShapeID: "shape-3", Anchor: AnchorLeft, Position: shape.Position{X: 5}}, pending)

	conn, err := g.CompleteConnection("shape-1", AnchorRight)
	require.NoError(t, err)
	assert.Equal(t, "shape-3", conn.SourceShapeID)
}

func TestCancelConnection(t *testing.T) {
	g := newTestGraph()
	g.StartConnection("shape-1", AnchorTop, shape.Position{})
	g.CancelConnection()
	g.CancelConnection()

	_, err := g.CompleteConnection("shape-2", AnchorTop)
	assert.ErrorIs(t, err, ErrNoPendingConnection)
}

func connect(t *testing.T, g *ConnectionGraph, from, to string) Connection {
	t.Helper()
	g.StartConnection(from, AnchorRight, shape.Position{})
	conn, err := g.CompleteConnection(to, AnchorLeft)
	require.NoError(t, err)
	return *conn
}

func TestConnectionsForShapeAndRemove(t *testing.T) {
	g := newTestGraph()
	a := connect(t, g, "shape-1", "shape-2")
	b := connect(t, g, "shape-2", "shape-3")
	c := connect(t, g, "shape-3", "shape-1")

	assert.Equal(t, []Connection{a, b}, g.ConnectionsForShape("shape-2"))
	assert.Empty(t, g.ConnectionsForShape("shape-9"))

	assert.True(t, g.RemoveConnection(b.ID))
	assert.False(t, g.RemoveConnection(b.ID))
	assert.Equal(t, []Connection{a, c}, g.Connections())
}

func TestConnectionIdsUnique(t *testing.T) {
	g := NewConnectionGraph(nil, nil)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		conn := connect(t, g, "a", "b")
		assert.False(t, seen[conn.ID], conn.ID)
		seen[conn.ID] = true
	}
}

func TestRemoveConnectionsForShape(t *testing.T) {
	g := newTestGraph()
	a := connect(t, g, "shape-1", "shape-2")
	b := connect(t, g, "shape-2", "shape-3")
	c := connect(t, g, "shape-3", "shape-4")
	g.StartConnection("shape-2", AnchorTop, shape.Position{})

	removed := g.RemoveConnectionsForShape("shape-2")
	assert.Equal(t, []Connection{a, b}, removed)
	assert.Equal(t, []Connection{c}, g.Connections())
	assert.False(t, g.IsConnecting())
}

func TestRetainShapes(t *testing.T) {
	g := newTestGraph()
	a := connect(t, g, "shape-1", "shape-2")
	b := connect(t, g, "shape-2", "shape-3")

	exists := func(id string) bool { return id != "shape-3" }
	assert.Equal(t, []Connection{b}, g.RetainShapes(exists))
	assert.Equal(t, []Connection{a}, g.Connections())
}

func TestClearAllConnections(t *testing.T) {
	g := newTestGraph()
	connect(t, g, "shape-1", "shape-2")
	g.StartConnection("shape-1", AnchorTop, shape.Position{})

	g.ClearAllConnections()
	assert.Empty(t, g.Connections())
	assert.False(t, g.IsConnecting())
}

func TestAnchorPosition(t *testing.T) {
	rec := ShapeRecord{Position: shape.Position{X: 10, Y: 20}, Style: shape.Style{Width: 100, Height: 40}}

	tests := map[Anchor]shape.Position{
		AnchorTop:    {X: 60, Y: 20},
		AnchorRight:  {X: 110, Y: 40},
		AnchorBottom: {X: 60, Y: 60},
		AnchorLeft:   {X: 10, Y: 40},
	}
	for anchor, want := range tests {
		got, ok := AnchorPosition(rec, anchor)
		require.True(t, ok)
		assert.Equal(t, want, got, anchor)
	}

	_, ok := AnchorPosition(rec, "middle")
	assert.False(t, ok)
}
