package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	commentdomain "github.com/wananchi-labs/uwazi/internal/comment/domain"
	nomineedomain "github.com/wananchi-labs/uwazi/internal/nominee/domain"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	referencedomain "github.com/wananchi-labs/uwazi/internal/reference/domain"
	"gorm.io/gorm"
)

func TestMapErrorRateLimited(t *testing.T) {
	status, payload := mapError(ratingdomain.ErrRateLimited)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "rate_limited", payload.Type)
}

func TestMapErrorValidation(t *testing.T) {
	status, payload := mapError(ratingdomain.ErrInvalidScore)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", payload.Type)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "invalid_score", payload.Errors[0].Code)
	assert.Equal(t, "score", payload.Errors[0].Field)
	assert.Equal(t, "score must be between 1 and 5", payload.Errors[0].Message)

	status, payload = mapError(ratingdomain.ErrEmptyRatings)
	assert.Equal(t, http.StatusBadRequest, status)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "ratings", payload.Errors[0].Field)
}

func TestMapErrorStructuredValidation(t *testing.T) {
	err := newValidationError("page_size", "invalid_page_size", "page size out of range")
	status, payload := mapError(err)
	assert.Equal(t, http.StatusBadRequest, status)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "page_size", payload.Errors[0].Field)
	assert.Equal(t, "invalid_page_size", payload.Errors[0].Code)
}

func TestMapErrorNotFound(t *testing.T) {
	for _, err := range []error{
		nomineedomain.ErrNotFound,
		commentdomain.ErrNotFound,
		gorm.ErrRecordNotFound,
	} {
		status, payload := mapError(err)
		assert.Equal(t, http.StatusNotFound, status, "error %v", err)
		assert.Equal(t, "not_found", payload.Type)
	}
}

func TestMapErrorConflict(t *testing.T) {
	status, payload := mapError(referencedomain.ErrDuplicate)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflict", payload.Type)
}

func TestMapErrorDefaultHidesDetails(t *testing.T) {
	status, payload := mapError(errors.New("pq: connection reset"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal_error", payload.Type)
	assert.Equal(t, "internal server error", payload.Message)
}

func TestClassifyErrorForLog(t *testing.T) {
	typ, code := classifyErrorForLog(ratingdomain.ErrRateLimited)
	assert.Equal(t, "rate_limited", typ)
	assert.Equal(t, "rate_limited", code)

	typ, code = classifyErrorForLog(ratingdomain.ErrInvalidScore)
	assert.Equal(t, "validation_error", typ)
	assert.Equal(t, "invalid_score", code)

	typ, code = classifyErrorForLog(nomineedomain.ErrNotFound)
	assert.Equal(t, "not_found", typ)
	assert.Equal(t, "not_found", code)
}
