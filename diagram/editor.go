package diagram

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/james226/workflow-api/shape"
)

// MaxBatchShapes caps the count of a single add-shapes message.
const MaxBatchShapes = 100

type EditorConfig struct {
	Catalog       Catalog
	ConnectionIDs IDGenerator
	Logger        *slog.Logger
	Constraints   *shape.Constraints
}

// Editor applies client messages to one diagram and returns the messages to
// broadcast. It is not safe for concurrent use; the owning broker calls it
// from a single goroutine.
type Editor struct {
	Id string

	workflow    *Workflow
	graph       *ConnectionGraph
	controls    map[string]*shape.Controller
	gestures    map[string]string
	logger      *slog.Logger
	constraints *shape.Constraints

	outbox []*Message
}

func NewEditor(id string, cfg EditorConfig) *Editor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("diagram", id)
	return &Editor{
		Id:          id,
		workflow:    NewWorkflow(cfg.Catalog),
		graph:       NewConnectionGraph(cfg.ConnectionIDs, logger),
		controls:    make(map[string]*shape.Controller),
		gestures:    make(map[string]string),
		logger:      logger,
		constraints: cfg.Constraints,
	}
}

func (editor *Editor) init() {
	if editor.workflow != nil {
		return
	}
	*editor = *NewEditor(editor.Id, EditorConfig{})
}

func (editor *Editor) Workflow() *Workflow {
	editor.init()
	return editor.workflow
}

func (editor *Editor) Connections() *ConnectionGraph {
	editor.init()
	return editor.graph
}

func (editor *Editor) Process(msg *Message) []*Message {
	editor.init()

	var err error
	switch msg.Type {
	case TypeCursor:
		editor.emit(msg)
	case TypeAddShape:
		if err = editor.checkType(msg.ShapeType); err != nil {
			break
		}
		rec := editor.workflow.AddShape(msg.ShapeType, msg.Position)
		editor.emit(&Message{Type: TypeShapeAdded, ShapeId: rec.ID, Shape: &rec})
	case TypeAddShapes:
		if msg.Count < 1 || msg.Count > MaxBatchShapes {
			err = fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidCount, msg.Count, MaxBatchShapes)
			break
		}
		if err = editor.checkType(msg.ShapeType); err != nil {
			break
		}
		added := editor.workflow.AddMultipleShapes(msg.Count, msg.ShapeType)
		editor.emit(&Message{Type: TypeShapesAdded, Shapes: added})
	case TypeRemoveShape:
		err = editor.removeShape(msg.ShapeId)
	case TypeClearShapes:
		editor.clearShapes()
	case TypeUpdatePosition:
		err = editor.updatePosition(msg)
	case TypePointerDown:
		err = editor.pointerDown(msg)
	case TypeHandleDown:
		err = editor.handleDown(msg)
	case TypePointerMove:
		editor.pointerMove(msg)
	case TypePointerUp:
		editor.pointerUp(msg)
	case TypeStartConnection:
		err = editor.startConnection(msg)
	case TypeCompleteConnection:
		err = editor.completeConnection(msg)
	case TypeCancelConnection:
		editor.graph.CancelConnection()
		editor.emit(&Message{Type: TypeConnectionCancelled})
	case TypeRemoveConnection:
		if !editor.graph.RemoveConnection(msg.ConnectionId) {
			err = fmt.Errorf("%w: %s", ErrConnectionNotFound, msg.ConnectionId)
			break
		}
		editor.emit(&Message{Type: TypeConnectionRemoved, ConnectionId: msg.ConnectionId})
	case TypeExport:
		err = editor.export(msg)
	case TypeImport:
		err = editor.importShapes(msg.Data)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}

	if err != nil {
		editor.logger.Warn("message rejected", "type", msg.Type, "client", msg.ClientId, "err", err)
		editor.emit(&Message{Type: TypeError, For: msg.ClientId, ShapeId: msg.ShapeId, Error: err.Error()})
	}
	return editor.flush(msg.ClientId)
}

// Snapshot describes the whole diagram for a newly connected client.
func (editor *Editor) Snapshot() *Message {
	editor.init()
	return &Message{
		Type:        TypeSnapshot,
		Shapes:      editor.workflow.Shapes(),
		Connections: editor.graph.Connections(),
	}
}

// Disconnect ends any gesture the client left in progress.
func (editor *Editor) Disconnect(clientId string) []*Message {
	editor.init()
	if id, ok := editor.gestures[clientId]; ok {
		delete(editor.gestures, clientId)
		if c, ok := editor.controls[id]; ok {
			c.Cleanup()
		}
	}
	return editor.flush(clientId)
}

// checkType accepts the empty type, which picks one at random.
func (editor *Editor) checkType(t shape.Type) error {
	if t != "" && !editor.workflow.KnownType(t) {
		return fmt.Errorf("%w: %q", ErrUnknownShapeType, t)
	}
	return nil
}

func (editor *Editor) emit(m *Message) {
	editor.outbox = append(editor.outbox, m)
}

func (editor *Editor) flush(clientId string) []*Message {
	out := editor.outbox
	editor.outbox = nil
	for _, m := range out {
		if m.ClientId == "" {
			m.ClientId = clientId
		}
	}
	return out
}

// control returns the gesture controller for a shape, synchronised with the
// stored record unless a gesture is in progress.
func (editor *Editor) control(id string) (*shape.Controller, error) {
	rec, ok := editor.workflow.Shape(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrShapeNotFound, id)
	}
	c, ok := editor.controls[id]
	if !ok {
		events := shape.LoggingHandler{Next: editor.shapeEvents(id), Logger: editor.logger, Shape: id}
		c = shape.NewController(rec.Position, rec.Size(), events, shape.Options{
			Resizable:   true,
			Constraints: editor.constraints,
		})
		editor.controls[id] = c
	}
	if !c.Active() {
		c.SetPosition(rec.Position)
		c.SetSize(rec.Size())
	}
	return c, nil
}

// shapeEvents writes gesture results for shape id into the workflow and
// queues the matching broadcasts.
func (editor *Editor) shapeEvents(id string) shape.EventHandler {
	style := func() map[string]string {
		rec, _ := editor.workflow.Shape(id)
		return editor.controls[id].CSS(rec.Style)
	}
	resized := func(kind string, s shape.Size) {
		p := editor.controls[id].Position()
		editor.workflow.UpdateShapeSize(id, s)
		editor.workflow.UpdateShapePosition(id, p)
		editor.emit(&Message{Type: kind, ShapeId: id, Size: &s, Position: &p})
	}

	return shape.Callbacks{
		DragStart: func(p shape.Position) {
			editor.emit(&Message{Type: TypeDragStart, ShapeId: id, Position: &p, Style: style()})
		},
		DragMove: func(p shape.Position) {
			editor.workflow.UpdateShapePosition(id, p)
			editor.emit(&Message{Type: TypeDragMove, ShapeId: id, Position: &p})
		},
		DragEnd: func(p shape.Position) {
			editor.workflow.UpdateShapePosition(id, p)
			editor.emit(&Message{Type: TypeDragEnd, ShapeId: id, Position: &p, Style: style()})
		},
		ResizeStart: func(s shape.Size) {
			editor.emit(&Message{Type: TypeResizeStart, ShapeId: id, Size: &s})
		},
		ResizeMove: func(s shape.Size) { resized(TypeResizeMove, s) },
		ResizeEnd:  func(s shape.Size) { resized(TypeResizeEnd, s) },
		Click: func(p shape.Position) {
			editor.emit(&Message{Type: TypeClick, ShapeId: id, Position: &p})
		},
		AnchorModeToggle: func(enabled bool) {
			editor.emit(&Message{Type: TypeAnchorMode, ShapeId: id, AnchorMode: &enabled})
		},
	}
}

func (editor *Editor) pointerDown(msg *Message) error {
	if msg.Pointer == nil {
		return fmt.Errorf("%s: missing pointer", msg.Type)
	}
	c, err := editor.control(msg.ShapeId)
	if err != nil {
		return err
	}
	editor.endGesture(msg.ClientId)
	if c.PointerDown(msg.Pointer) {
		editor.gestures[msg.ClientId] = msg.ShapeId
	}
	return nil
}

func (editor *Editor) handleDown(msg *Message) error {
	if msg.Pointer == nil {
		return fmt.Errorf("%s: missing pointer", msg.Type)
	}
	if !msg.Handle.Valid() {
		return fmt.Errorf("%s: unknown handle %q", msg.Type, msg.Handle)
	}
	c, err := editor.control(msg.ShapeId)
	if err != nil {
		return err
	}
	editor.endGesture(msg.ClientId)
	if msg.Constraints != nil {
		c.SetConstraints(msg.Constraints)
	}
	if c.HandleDown(msg.Pointer, msg.Handle) {
		editor.gestures[msg.ClientId] = msg.ShapeId
	}
	return nil
}

// pointerMove ignores moves from clients without a gesture; those are hover
// samples.
func (editor *Editor) pointerMove(msg *Message) {
	id, ok := editor.gestures[msg.ClientId]
	if !ok || msg.Pointer == nil {
		return
	}
	editor.controls[id].PointerMove(msg.Pointer)
}

func (editor *Editor) pointerUp(msg *Message) {
	id, ok := editor.gestures[msg.ClientId]
	if !ok {
		return
	}
	delete(editor.gestures, msg.ClientId)
	editor.controls[id].PointerUp(msg.Pointer)
}

func (editor *Editor) endGesture(clientId string) {
	if id, ok := editor.gestures[clientId]; ok {
		delete(editor.gestures, clientId)
		editor.controls[id].Cleanup()
	}
}

// dropControl ends gestures on shape id and forgets its controller.
func (editor *Editor) dropControl(id string) {
	for client, shapeID := range editor.gestures {
		if shapeID == id {
			delete(editor.gestures, client)
		}
	}
	if c, ok := editor.controls[id]; ok {
		c.Cleanup()
		delete(editor.controls, id)
	}
}

func (editor *Editor) dropAllControls() {
	for id := range editor.controls {
		editor.dropControl(id)
	}
}

func (editor *Editor) removeShape(id string) error {
	if !editor.workflow.HasShape(id) {
		return fmt.Errorf("%w: %s", ErrShapeNotFound, id)
	}
	editor.dropControl(id)
	editor.workflow.RemoveShape(id)
	editor.emit(&Message{Type: TypeShapeRemoved, ShapeId: id})
	editor.emitRemoved(editor.graph.RemoveConnectionsForShape(id))
	return nil
}

func (editor *Editor) clearShapes() {
	editor.dropAllControls()
	editor.workflow.ClearShapes()
	editor.graph.ClearAllConnections()
	editor.emit(&Message{Type: TypeShapesCleared})
}

func (editor *Editor) emitRemoved(conns []Connection) {
	for _, c := range conns {
		editor.emit(&Message{Type: TypeConnectionRemoved, ConnectionId: c.ID})
	}
}

func (editor *Editor) updatePosition(msg *Message) error {
	if msg.Position == nil {
		return fmt.Errorf("%s: missing position", msg.Type)
	}
	if !editor.workflow.UpdateShapePosition(msg.ShapeId, *msg.Position) {
		return fmt.Errorf("%w: %s", ErrShapeNotFound, msg.ShapeId)
	}
	if c, ok := editor.controls[msg.ShapeId]; ok && !c.Active() {
		c.SetPosition(*msg.Position)
	}
	p := *msg.Position
	editor.emit(&Message{Type: TypeShapeMoved, ShapeId: msg.ShapeId, Position: &p})
	return nil
}

func (editor *Editor) startConnection(msg *Message) error {
	rec, ok := editor.workflow.Shape(msg.ShapeId)
	if !ok {
		return fmt.Errorf("%w: %s", ErrShapeNotFound, msg.ShapeId)
	}

	var p shape.Position
	if msg.Position != nil {
		p = *msg.Position
	} else if p, ok = AnchorPosition(rec, msg.Anchor); !ok {
		return fmt.Errorf("%s: unknown anchor %q", msg.Type, msg.Anchor)
	}

	editor.graph.StartConnection(msg.ShapeId, msg.Anchor, p)
	editor.emit(&Message{Type: TypeConnectionPending, ShapeId: msg.ShapeId, Anchor: msg.Anchor, Position: &p})
	return nil
}

func (editor *Editor) completeConnection(msg *Message) error {
	if editor.graph.IsConnecting() && !editor.workflow.HasShape(msg.TargetShapeId) {
		editor.graph.CancelConnection()
		editor.emit(&Message{Type: TypeConnectionCancelled})
		return fmt.Errorf("%w: %s", ErrShapeNotFound, msg.TargetShapeId)
	}

	conn, err := editor.graph.CompleteConnection(msg.TargetShapeId, msg.TargetAnchor)
	if errors.Is(err, ErrSelfConnection) {
		editor.emit(&Message{Type: TypeConnectionCancelled})
	}
	if err != nil {
		return err
	}
	editor.emit(&Message{Type: TypeConnectionCreated, ConnectionId: conn.ID, Connection: conn})
	return nil
}

func (editor *Editor) export(msg *Message) error {
	data, err := editor.workflow.ExportShapes()
	if err != nil {
		return err
	}
	editor.emit(&Message{Type: TypeShapesExported, For: msg.ClientId, Data: data})
	return nil
}

func (editor *Editor) importShapes(data string) error {
	shapes, err := ParseShapes(data)
	if err != nil {
		return err
	}
	editor.dropAllControls()
	editor.workflow.replaceShapes(shapes)
	editor.emit(&Message{Type: TypeShapesImported, Shapes: editor.workflow.Shapes()})
	editor.emitRemoved(editor.graph.RetainShapes(editor.workflow.HasShape))
	return nil
}
