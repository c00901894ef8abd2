package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Status(Validationf("bad input")))
	assert.Equal(t, http.StatusNotFound, Status(NotFoundf("missing")))
	assert.Equal(t, http.StatusConflict, Status(Conflictf("duplicate")))
	assert.Equal(t, http.StatusInternalServerError, Status(Internalf(errors.New("db down"), "query failed")))
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("plain error")))
}

func TestStatusSeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("checkout: %w", Conflictf("insufficient stock"))
	assert.Equal(t, http.StatusConflict, Status(err))
	assert.True(t, IsKind(err, Conflict))
}

func TestClientMessageHidesInternalDetail(t *testing.T) {
	internal := Internalf(errors.New("pq: connection refused"), "list orders")
	assert.Equal(t, "something went wrong", ClientMessage(internal, "something went wrong"))
	assert.Equal(t, "something went wrong", ClientMessage(errors.New("raw"), "something went wrong"))

	assert.Equal(t, "invalid promo code", ClientMessage(Validationf("invalid promo code"), "fallback"))
}

func TestErrorStringIncludesCause(t *testing.T) {
	cause := errors.New("pq: deadlock detected")
	err := Internalf(cause, "adjust stock")
	assert.Contains(t, err.Error(), "adjust stock")
	assert.Contains(t, err.Error(), "deadlock")
	assert.ErrorIs(t, err, cause)
}

func TestIsKind(t *testing.T) {
	assert.True(t, IsKind(NotFoundf("gone"), NotFound))
	assert.False(t, IsKind(NotFoundf("gone"), Conflict))
	assert.False(t, IsKind(errors.New("plain"), Validation))
	assert.False(t, IsKind(nil, Validation))
}
