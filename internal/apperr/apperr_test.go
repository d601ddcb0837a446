package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("goal not found")))
	assert.Equal(t, KindConflict, KindOf(Conflict("already approved")))
	assert.Equal(t, KindValidation, KindOf(Newf(KindValidation, "bad field %q", "title")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("handler: %w", Unauthorized("not a party to this goal"))
	assert.Equal(t, KindUnauthorized, KindOf(err))
	assert.True(t, IsKind(err, KindUnauthorized))
	assert.False(t, IsKind(err, KindConflict))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "goal not found", MessageOf(NotFound("goal not found")))

	// Internal details never leak to the caller.
	assert.Equal(t, "internal error", MessageOf(Internal("update goal", errors.New("disk full"))))
	assert.Equal(t, "internal error", MessageOf(errors.New("disk full")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("constraint failed")
	err := Internal("audit write failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "audit write failed")
	assert.Contains(t, err.Error(), "constraint failed")
}
