package errorutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	v := ToDomainError(NewValidationError(MessageInvalidType))
	assert.Equal(t, http.StatusBadRequest, v.HTTPStatus)
	assert.Equal(t, MessageInvalidType, v.Message)
	assert.Empty(t, v.Details)

	wrapped := fmt.Errorf("create: %w", NewPersistenceError(errors.New(`sheet with title "DNR" not found`)))
	p := ToDomainError(wrapped)
	assert.Equal(t, CodePersistence, p.Code)
	assert.Equal(t, http.StatusInternalServerError, p.HTTPStatus)
	assert.Equal(t, `sheet with title "DNR" not found`, p.Details)
	assert.True(t, IsPersistence(wrapped))

	generic := ToDomainError(errors.New("boom"))
	assert.Equal(t, CodeInternal, generic.Code)
	assert.Equal(t, MessageInternalServer, generic.Message)
	assert.Equal(t, "boom", generic.Details)
	assert.False(t, IsPersistence(generic))
}

func TestDeadlineExceededMapsToInternal(t *testing.T) {
	de := ToDomainError(fmt.Errorf("append: %w", context.DeadlineExceeded))
	require.NotNil(t, de)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.Equal(t, "request timed out", de.Details)
	assert.ErrorIs(t, de, context.DeadlineExceeded)
}

func TestClientErrorsMapTo400(t *testing.T) {
	for _, err := range []error{NewValidationError(MessageInvalidType), NewBadRequest(MessageInvalidBody)} {
		de := ToDomainError(err)
		assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
		assert.Empty(t, de.Details)
		assert.Contains(t, []string{CodeValidation, CodeBadRequest}, de.Code)
	}
	assert.Equal(t, MessageInvalidBody, ToDomainError(NewBadRequest(MessageInvalidBody)).Message)
}
