package diagram

import (
	"encoding/json"

	"github.com/james226/workflow-api/shape"
)

type InitialMessage struct {
	Type     string   `json:"type"`
	Clients  []string `json:"clients"`
	ClientId string   `json:"clientId"`
}

// Inbound message types.
const (
	TypeAddShape           = "add-shape"
	TypeAddShapes          = "add-shapes"
	TypeRemoveShape        = "remove-shape"
	TypeClearShapes        = "clear-shapes"
	TypeUpdatePosition     = "update-position"
	TypePointerDown        = "pointer-down"
	TypeHandleDown         = "handle-down"
	TypePointerMove        = "pointer-move"
	TypePointerUp          = "pointer-up"
	TypeStartConnection    = "start-connection"
	TypeCompleteConnection = "complete-connection"
	TypeCancelConnection   = "cancel-connection"
	TypeRemoveConnection   = "remove-connection"
	TypeExport             = "export"
	TypeImport             = "import"
	TypeCursor             = "move"
)

// Outbound message types.
const (
	TypeShapeAdded          = "shape-added"
	TypeShapesAdded         = "shapes-added"
	TypeShapeRemoved        = "shape-removed"
	TypeShapesCleared       = "shapes-cleared"
	TypeShapeMoved          = "shape-moved"
	TypeDragStart           = "drag-start"
	TypeDragMove            = "drag-move"
	TypeDragEnd             = "drag-end"
	TypeResizeStart         = "resize-start"
	TypeResizeMove          = "resize-move"
	TypeResizeEnd           = "resize-end"
	TypeClick               = "click"
	TypeAnchorMode          = "anchor-mode"
	TypeConnectionPending   = "connection-pending"
	TypeConnectionCreated   = "connection-created"
	TypeConnectionCancelled = "connection-cancelled"
	TypeConnectionRemoved   = "connection-removed"
	TypeShapesExported      = "shapes-exported"
	TypeShapesImported      = "shapes-imported"
	TypeSnapshot            = "snapshot"
	TypeError               = "error"
)

var inboundTypes = map[string]bool{
	TypeAddShape:           true,
	TypeAddShapes:          true,
	TypeRemoveShape:        true,
	TypeClearShapes:        true,
	TypeUpdatePosition:     true,
	TypePointerDown:        true,
	TypeHandleDown:         true,
	TypePointerMove:        true,
	TypePointerUp:          true,
	TypeStartConnection:    true,
	TypeCompleteConnection: true,
	TypeCancelConnection:   true,
	TypeRemoveConnection:   true,
	TypeExport:             true,
	TypeImport:             true,
	TypeCursor:             true,
}

// IsInbound reports whether clients may send messages of type t.
func IsInbound(t string) bool {
	return inboundTypes[t] || IsSignal(t)
}

// IsSignal reports whether t is a peer signalling message that is relayed to
// its recipient without touching the diagram.
func IsSignal(t string) bool {
	return t == "offer" || t == "answer" || t == "ice"
}

type Message struct {
	ClientId      string              `json:"clientId,omitempty"`
	Type          string              `json:"type"`
	For           string              `json:"for,omitempty"`
	ShapeId       string              `json:"shapeId,omitempty"`
	ShapeType     shape.Type          `json:"shapeType,omitempty"`
	Handle        shape.ResizeHandle  `json:"handle,omitempty"`
	Anchor        Anchor              `json:"anchor,omitempty"`
	TargetShapeId string              `json:"targetShapeId,omitempty"`
	TargetAnchor  Anchor              `json:"targetAnchor,omitempty"`
	ConnectionId  string              `json:"connectionId,omitempty"`
	Position      *shape.Position     `json:"position,omitempty"`
	Size          *shape.Size         `json:"size,omitempty"`
	Pointer       *shape.PointerEvent `json:"pointer,omitempty"`
	Constraints   *shape.Constraints  `json:"constraints,omitempty"`
	Count         int                 `json:"count,omitempty"`
	AnchorMode    *bool               `json:"anchorMode,omitempty"`
	Shape         *ShapeRecord        `json:"shape,omitempty"`
	Shapes        []ShapeRecord       `json:"shapes,omitempty"`
	Connection    *Connection         `json:"connection,omitempty"`
	Connections   []Connection        `json:"connections,omitempty"`
	Style         map[string]string   `json:"style,omitempty"`
	Data          string              `json:"data,omitempty"`
	Error         string              `json:"error,omitempty"`
	Payload       json.RawMessage     `json:"payload,omitempty"`
}
