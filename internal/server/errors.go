package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	commentdomain "github.com/wananchi-labs/uwazi/internal/comment/domain"
	institutiondomain "github.com/wananchi-labs/uwazi/internal/institution/domain"
	nomineedomain "github.com/wananchi-labs/uwazi/internal/nominee/domain"
	rankingdomain "github.com/wananchi-labs/uwazi/internal/ranking/domain"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
	referencedomain "github.com/wananchi-labs/uwazi/internal/reference/domain"
	scandaldomain "github.com/wananchi-labs/uwazi/internal/scandal/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ratingdomain.ErrRateLimited):
		// 429 with its own type so clients can distinguish an exhausted
		// window from a malformed request.
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "rating limit reached for this entity, try again later",
		}
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, referencedomain.ErrDuplicate):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isNomineeValidationError(err),
		isInstitutionValidationError(err),
		isRatingValidationError(err),
		isCommentValidationError(err),
		isRankingValidationError(err),
		isReferenceValidationError(err),
		isScandalValidationError(err):
		return true
	default:
		return false
	}
}

func isNomineeValidationError(err error) bool {
	switch {
	case errors.Is(err, nomineedomain.ErrInvalidID),
		errors.Is(err, nomineedomain.ErrInvalidName),
		errors.Is(err, nomineedomain.ErrInvalidStatus),
		errors.Is(err, nomineedomain.ErrInvalidPosition),
		errors.Is(err, nomineedomain.ErrInvalidDistrict):
		return true
	default:
		return false
	}
}

func isInstitutionValidationError(err error) bool {
	switch {
	case errors.Is(err, institutiondomain.ErrInvalidID),
		errors.Is(err, institutiondomain.ErrInvalidName),
		errors.Is(err, institutiondomain.ErrInvalidStatus):
		return true
	default:
		return false
	}
}

func isRatingValidationError(err error) bool {
	switch {
	case errors.Is(err, ratingdomain.ErrInvalidID),
		errors.Is(err, ratingdomain.ErrInvalidUser),
		errors.Is(err, ratingdomain.ErrInvalidScore),
		errors.Is(err, ratingdomain.ErrEmptyRatings),
		errors.Is(err, ratingdomain.ErrInvalidCategory),
		errors.Is(err, ratingdomain.ErrUnknownCategory),
		errors.Is(err, ratingdomain.ErrInvalidName):
		return true
	default:
		return false
	}
}

func isCommentValidationError(err error) bool {
	switch {
	case errors.Is(err, commentdomain.ErrInvalidID),
		errors.Is(err, commentdomain.ErrInvalidUser),
		errors.Is(err, commentdomain.ErrInvalidContent),
		errors.Is(err, commentdomain.ErrInvalidParent),
		errors.Is(err, commentdomain.ErrInvalidKind):
		return true
	default:
		return false
	}
}

func isRankingValidationError(err error) bool {
	switch {
	case errors.Is(err, rankingdomain.ErrInvalidID),
		errors.Is(err, rankingdomain.ErrInvalidCategory),
		errors.Is(err, rankingdomain.ErrInvalidLimit):
		return true
	default:
		return false
	}
}

func isReferenceValidationError(err error) bool {
	switch {
	case errors.Is(err, referencedomain.ErrInvalidID),
		errors.Is(err, referencedomain.ErrInvalidName):
		return true
	default:
		return false
	}
}

func isScandalValidationError(err error) bool {
	switch {
	case errors.Is(err, scandaldomain.ErrInvalidID),
		errors.Is(err, scandaldomain.ErrInvalidTitle),
		errors.Is(err, scandaldomain.ErrInvalidURL):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, nomineedomain.ErrNotFound),
		errors.Is(err, institutiondomain.ErrNotFound),
		errors.Is(err, ratingdomain.ErrCategoryNotFound),
		errors.Is(err, commentdomain.ErrNotFound),
		errors.Is(err, referencedomain.ErrNotFound),
		errors.Is(err, scandaldomain.ErrNotFound),
		errors.Is(err, scandaldomain.ErrEvidenceMissing),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	if strings.HasPrefix(code, "unknown_") {
		return strings.TrimPrefix(code, "unknown_")
	}
	if code == "empty_ratings" {
		return "ratings"
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_score":
		return "score must be between 1 and 5"
	case "empty_ratings":
		return "at least one rating is required"
	case "unknown_category":
		return "unknown rating category"
	case "invalid_user":
		return "missing or invalid X-User-Id header"
	default:
		return strings.ReplaceAll(code, "_", " ")
	}
}

// classifyErrorForLog keeps request logs structured without leaking payloads.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	if vErr := asValidationErrors(err); vErr != nil && len(vErr.Errors) > 0 {
		return "validation_error", vErr.Errors[0].Code
	}
	if errors.Is(err, ratingdomain.ErrRateLimited) {
		return "rate_limited", "rate_limited"
	}
	if isValidationError(err) {
		return "validation_error", validationErrorCode(err)
	}
	if isNotFoundError(err) {
		return "not_found", "not_found"
	}
	return "internal_error", "internal_error"
}
