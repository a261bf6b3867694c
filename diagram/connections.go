package diagram

import (
	"log/slog"

	"github.com/james226/workflow-api/shape"
)

// Anchor is a named attachment point on a shape's perimeter.
type Anchor string

const (
	AnchorTop    Anchor = "top"
	AnchorRight  Anchor = "right"
	AnchorBottom Anchor = "bottom"
	AnchorLeft   Anchor = "left"
)

// AnchorPosition returns the canvas position of anchor a on r: the midpoint
// of the matching side.
func AnchorPosition(r ShapeRecord, a Anchor) (shape.Position, bool) {
	p, s := r.Position, r.Size()
	switch a {
	case AnchorTop:
		return p.Add(s.Width/2, 0), true
	case AnchorRight:
		return p.Add(s.Width, s.Height/2), true
	case AnchorBottom:
		return p.Add(s.Width/2, s.Height), true
	case AnchorLeft:
		return p.Add(0, s.Height/2), true
	}
	return shape.Position{}, false
}

// Connection is an edge between anchors on two distinct shapes. Shapes are
// referenced by id only.
type Connection struct {
	ID            string `json:"id"`
	SourceShapeID string `json:"sourceShapeId"`
	SourceAnchor  Anchor `json:"sourceAnchor"`
	TargetShapeID string `json:"targetShapeId"`
	TargetAnchor  Anchor `json:"targetAnchor"`
}

// Touches reports whether the connection has shapeID at either end.
func (c Connection) Touches(shapeID string) bool {
	return c.SourceShapeID == shapeID || c.TargetShapeID == shapeID
}

// PendingConnection is the draft of a connection waiting for its target.
type PendingConnection struct {
	ShapeID  string         `json:"shapeId"`
	Anchor   Anchor         `json:"anchor"`
	Position shape.Position `json:"position"`
}

// ConnectionGraph holds completed connections and at most one draft.
type ConnectionGraph struct {
	connections []Connection
	pending     *PendingConnection
	newID       IDGenerator
	logger      *slog.Logger
}

// NewConnectionGraph returns an empty graph. A nil newID uses KSUID-based
// ids; a nil logger uses slog.Default.
func NewConnectionGraph(newID IDGenerator, logger *slog.Logger) *ConnectionGraph {
	if newID == nil {
		newID = KSUIDGenerator("conn_")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ConnectionGraph{newID: newID, logger: logger}
}

// StartConnection opens a draft from the given anchor, replacing any draft
// already in progress.
func (g *ConnectionGraph) StartConnection(shapeID string, anchor Anchor, position shape.Position) {
	if g.pending != nil {
		g.logger.Debug("abandoning pending connection", "shape", g.pending.ShapeID, "anchor", g.pending.Anchor)
	}
	g.pending = &PendingConnection{ShapeID: shapeID, Anchor: anchor, Position: position}
	g.logger.Debug("starting connection", "shape", shapeID, "anchor", anchor, "x", position.X, "y", position.Y)
}

// CompleteConnection commits the draft to targetShapeID. It fails with
// ErrNoPendingConnection when there is no draft and with ErrSelfConnection
// when the target is the draft's own shape; the draft is cleared either way.
func (g *ConnectionGraph) CompleteConnection(targetShapeID string, targetAnchor Anchor) (*Connection, error) {
	if g.pending == nil {
		g.logger.Warn("no pending connection to complete", "target", targetShapeID)
		return nil, ErrNoPendingConnection
	}

	source := *g.pending
	g.CancelConnection()

	if source.ShapeID == targetShapeID {
		g.logger.Warn("cannot connect shape to itself", "shape", targetShapeID)
		return nil, ErrSelfConnection
	}

	conn := Connection{
		ID:            g.newID(),
		SourceShapeID: source.ShapeID,
		SourceAnchor:  source.Anchor,
		TargetShapeID: targetShapeID,
		TargetAnchor:  targetAnchor,
	}
	g.connections = append(g.connections, conn)
	g.logger.Info("connection created", "id", conn.ID, "source", conn.SourceShapeID, "target", conn.TargetShapeID)
	return &conn, nil
}

// CancelConnection discards the draft, if any.
func (g *ConnectionGraph) CancelConnection() {
	g.pending = nil
}

// RemoveConnection deletes the connection with id and reports whether it existed.
func (g *ConnectionGraph) RemoveConnection(id string) bool {
	for i := range g.connections {
		if g.connections[i].ID == id {
			g.connections = append(g.connections[:i], g.connections[i+1:]...)
			g.logger.Info("connection removed", "id", id)
			return true
		}
	}
	return false
}

// ConnectionsForShape returns every connection with shapeID at either end.
func (g *ConnectionGraph) ConnectionsForShape(shapeID string) []Connection {
	var out []Connection
	for _, c := range g.connections {
		if c.Touches(shapeID) {
			out = append(out, c)
		}
	}
	return out
}

// RemoveConnectionsForShape deletes the connections touching shapeID and
// returns them. A draft starting at shapeID is discarded as well.
func (g *ConnectionGraph) RemoveConnectionsForShape(shapeID string) []Connection {
	if g.pending != nil && g.pending.ShapeID == shapeID {
		g.CancelConnection()
	}
	return g.retain(func(c Connection) bool { return !c.Touches(shapeID) })
}

// RetainShapes deletes the connections with an end for which exists reports
// false and returns them.
func (g *ConnectionGraph) RetainShapes(exists func(shapeID string) bool) []Connection {
	if g.pending != nil && !exists(g.pending.ShapeID) {
		g.CancelConnection()
	}
	return g.retain(func(c Connection) bool {
		return exists(c.SourceShapeID) && exists(c.TargetShapeID)
	})
}

func (g *ConnectionGraph) retain(keep func(Connection) bool) []Connection {
	var removed []Connection
	kept := g.connections[:0]
	for _, c := range g.connections {
		if keep(c) {
			kept = append(kept, c)
		} else {
			removed = append(removed, c)
		}
	}
	g.connections = kept
	return removed
}

// ClearAllConnections removes every connection and the draft.
func (g *ConnectionGraph) ClearAllConnections() {
	g.connections = nil
	g.CancelConnection()
}

// Connections returns a copy of the connection list.
func (g *ConnectionGraph) Connections() []Connection {
	out := make([]Connection, len(g.connections))
	copy(out, g.connections)
	return out
}

// Pending returns the current draft.
func (g *ConnectionGraph) Pending() (PendingConnection, bool) {
	if g.pending == nil {
		return PendingConnection{}, false
	}
	return *g.pending, true
}

func (g *ConnectionGraph) IsConnecting() bool {
	return g.pending != nil
}
