package diagram

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/james226/workflow-api/shape"
)

const (
	cascadeOrigin = 50
	cascadeStep   = 30

	fallbackWidth  = 140
	fallbackHeight = 80
	borderRadius   = 8

	// maxShapeID bounds imported id suffixes so the counter cannot overflow.
	maxShapeID = math.MaxInt32
)

// ShapeRecord is a shape as stored in a Workflow and exported to clients.
type ShapeRecord struct {
	ID       string         `json:"id"`
	Position shape.Position `json:"position"`
	Label    string         `json:"label"`
	Type     shape.Type     `json:"type"`
	Style    shape.Style    `json:"style"`
}

// Size returns the record's width and height.
func (r ShapeRecord) Size() shape.Size {
	return r.Style.Size()
}

// Catalog supplies shape type metadata at creation time.
type Catalog interface {
	Lookup(t shape.Type) (shape.Config, bool)
	RandomType() shape.Type
}

// Workflow is the ordered collection of shapes in one diagram. Ids are
// assigned from a counter that only moves forward until the workflow is
// cleared or imported, so a removed id is never handed out again.
type Workflow struct {
	shapes  []ShapeRecord
	counter int
	catalog Catalog
}

// NewWorkflow returns an empty workflow. A nil catalog uses the built-in one.
func NewWorkflow(catalog Catalog) *Workflow {
	if catalog == nil {
		catalog = shape.NewCatalog()
	}
	return &Workflow{counter: 1, catalog: catalog}
}

// AddShape appends a shape of type t at position. An empty type is picked at
// random and a nil position cascades diagonally from the top-left corner.
func (w *Workflow) AddShape(t shape.Type, position *shape.Position) ShapeRecord {
	if t == "" {
		t = w.catalog.RandomType()
	}
	cfg, _ := w.catalog.Lookup(t)

	offset := float64(cascadeOrigin + (w.counter-1)*cascadeStep)
	pos := shape.Position{X: offset, Y: offset}
	if position != nil {
		pos = *position
	}

	width, height := cfg.DefaultWidth, cfg.DefaultHeight
	if width == 0 {
		width = fallbackWidth
	}
	if height == 0 {
		height = fallbackHeight
	}

	rec := ShapeRecord{
		ID:       fmt.Sprintf("shape-%d", w.counter),
		Position: pos,
		Label:    fmt.Sprintf("%s %d", t, w.counter),
		Type:     t,
		Style: shape.NewStyle(shape.Style{
			Width:           width,
			Height:          height,
			BackgroundColor: cfg.BackgroundColor,
			BorderColor:     cfg.BorderColor,
			BorderRadius:    borderRadius,
		}),
	}

	w.shapes = append(w.shapes, rec)
	w.counter++
	return rec
}

// AddMultipleShapes adds count shapes of type t using default placement. A
// count below one adds nothing.
func (w *Workflow) AddMultipleShapes(count int, t shape.Type) []ShapeRecord {
	if count <= 0 {
		return nil
	}
	added := make([]ShapeRecord, 0, count)
	for i := 0; i < count; i++ {
		added = append(added, w.AddShape(t, nil))
	}
	return added
}

func (w *Workflow) index(id string) int {
	for i := range w.shapes {
		if w.shapes[i].ID == id {
			return i
		}
	}
	return -1
}

// RemoveShape deletes the shape with id and reports whether it existed.
func (w *Workflow) RemoveShape(id string) bool {
	i := w.index(id)
	if i < 0 {
		return false
	}
	w.shapes = append(w.shapes[:i], w.shapes[i+1:]...)
	return true
}

// ClearShapes removes every shape and restarts id assignment.
func (w *Workflow) ClearShapes() {
	w.shapes = nil
	w.counter = 1
}

func (w *Workflow) UpdateShapePosition(id string, p shape.Position) bool {
	i := w.index(id)
	if i < 0 {
		return false
	}
	w.shapes[i].Position = p
	return true
}

func (w *Workflow) UpdateShapeSize(id string, s shape.Size) bool {
	i := w.index(id)
	if i < 0 {
		return false
	}
	w.shapes[i].Style.Width = s.Width
	w.shapes[i].Style.Height = s.Height
	return true
}

// Shape returns a copy of the shape with id.
func (w *Workflow) Shape(id string) (ShapeRecord, bool) {
	i := w.index(id)
	if i < 0 {
		return ShapeRecord{}, false
	}
	return w.shapes[i], true
}

// KnownType reports whether the catalog describes t.
func (w *Workflow) KnownType(t shape.Type) bool {
	_, ok := w.catalog.Lookup(t)
	return ok
}

func (w *Workflow) HasShape(id string) bool {
	return w.index(id) >= 0
}

func (w *Workflow) ShapeCount() int {
	return len(w.shapes)
}

// Shapes returns a copy of the collection in insertion order.
func (w *Workflow) Shapes() []ShapeRecord {
	out := make([]ShapeRecord, len(w.shapes))
	copy(out, w.shapes)
	return out
}

func (w *Workflow) ShapesByType(t shape.Type) []ShapeRecord {
	var out []ShapeRecord
	for _, s := range w.shapes {
		if s.Type == t {
			out = append(out, s)
		}
	}
	return out
}

// ExportShapes serializes the collection as an indented JSON array.
func (w *Workflow) ExportShapes() (string, error) {
	shapes := w.shapes
	if shapes == nil {
		shapes = []ShapeRecord{}
	}
	b, err := json.MarshalIndent(shapes, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export shapes: %w", err)
	}
	return string(b), nil
}

// ImportShapes replaces the collection with the JSON array in data. On
// failure the workflow is left untouched.
func (w *Workflow) ImportShapes(data string) error {
	shapes, err := ParseShapes(data)
	if err != nil {
		return err
	}
	w.replaceShapes(shapes)
	return nil
}

// ParseShapes decodes and validates an exported shape list. Every record
// needs a unique, non-empty id whose numeric suffix, if any, leaves room for
// further ids.
func ParseShapes(data string) ([]ShapeRecord, error) {
	var shapes []ShapeRecord
	if err := json.Unmarshal([]byte(data), &shapes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedShapes, err)
	}
	if shapes == nil {
		return nil, fmt.Errorf("%w: not a list", ErrMalformedShapes)
	}

	seen := make(map[string]bool, len(shapes))
	for i, s := range shapes {
		if s.ID == "" {
			return nil, fmt.Errorf("%w: shape %d has no id", ErrMalformedShapes, i)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrMalformedShapes, s.ID)
		}
		if idSuffix(s.ID) >= maxShapeID {
			return nil, fmt.Errorf("%w: id %q out of range", ErrMalformedShapes, s.ID)
		}
		seen[s.ID] = true
	}
	return shapes, nil
}

// replaceShapes installs shapes and resumes the id counter after the largest
// numeric id suffix among them.
func (w *Workflow) replaceShapes(shapes []ShapeRecord) {
	maxID := 0
	for _, s := range shapes {
		if n := idSuffix(s.ID); n > maxID {
			maxID = n
		}
	}
	w.shapes = shapes
	w.counter = maxID + 1
}

// idSuffix parses the number after the last '-' in id, or 0. Suffixes too
// large for an int saturate so they are still rejected on import.
func idSuffix(id string) int {
	i := strings.LastIndex(id, "-")
	if i < 0 {
		return 0
	}
	n, err := strconv.Atoi(id[i+1:])
	if errors.Is(err, strconv.ErrRange) && n > 0 {
		return math.MaxInt
	}
	if err != nil || n < 0 {
		return 0
	}
	return n
}
