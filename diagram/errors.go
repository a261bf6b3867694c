package diagram

import "errors"

var (
	ErrNoPendingConnection = errors.New("no pending connection to complete")
	ErrSelfConnection      = errors.New("cannot connect shape to itself")
	ErrConnectionNotFound  = errors.New("connection not found")
	ErrShapeNotFound       = errors.New("shape not found")
	ErrMalformedShapes     = errors.New("malformed shape list")
	ErrUnknownMessage      = errors.New("unknown message type")
	ErrUnknownShapeType    = errors.New("unknown shape type")
	ErrInvalidCount        = errors.New("invalid shape count")
)
