package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/james226/workflow-api/diagram"
)

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, diagram.TypePointerMove, typeLabel(diagram.TypePointerMove))
	assert.Equal(t, "offer", typeLabel("offer"))
	assert.Equal(t, "unknown", typeLabel("x-1234"))
	assert.Equal(t, "unknown", typeLabel(""))
}
