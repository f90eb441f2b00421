package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSuppressHeaderContext tests the banner suppression marker.
func TestSuppressHeaderContext(t *testing.T) {
	ctx := context.Background()
	assert.False(t, shouldSuppressHeader(ctx))
	assert.True(t, shouldSuppressHeader(WithSuppressHeader(ctx)))
}
