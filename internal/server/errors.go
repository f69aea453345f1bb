package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/smallbiznis/estate/internal/billing/domain"
	householddomain "github.com/smallbiznis/estate/internal/household/domain"
	paymentdomain "github.com/smallbiznis/estate/internal/payment/domain"
	utilitydomain "github.com/smallbiznis/estate/internal/utility/domain"
	"github.com/smallbiznis/estate/pkg/db/pagination"
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
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

var validationErrors = []error{
	ErrInvalidRequest,
	pagination.ErrInvalidPageToken,
	billingdomain.ErrInvalidKind,

	paymentdomain.ErrInvalidID,
	paymentdomain.ErrInvalidHouseholdID,
	paymentdomain.ErrInvalidFeeCategoryID,
	paymentdomain.ErrInvalidAmount,
	paymentdomain.ErrInvalidDueDate,
	paymentdomain.ErrInvalidPaidDate,
	paymentdomain.ErrInvalidStatus,
	paymentdomain.ErrInvalidName,
	paymentdomain.ErrInvalidFrequency,

	utilitydomain.ErrInvalidID,
	utilitydomain.ErrInvalidHouseholdID,
	utilitydomain.ErrInvalidType,
	utilitydomain.ErrInvalidPeriod,
	utilitydomain.ErrInvalidDueDate,
	utilitydomain.ErrInvalidPaidDate,
	utilitydomain.ErrInvalidReading,
	utilitydomain.ErrInvalidRate,
	utilitydomain.ErrInvalidAmount,
	utilitydomain.ErrInvalidStatus,

	householddomain.ErrInvalidID,
	householddomain.ErrInvalidUnit,
	householddomain.ErrInvalidOwnerName,
	householddomain.ErrInvalidEmail,
	householddomain.ErrInvalidStatus,
	householddomain.ErrInvalidArea,
	householddomain.ErrInvalidMoveInDate,
	householddomain.ErrInvalidName,
	householddomain.ErrInvalidSlotNumber,
}

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

	if code := validationErrorCode(err); code != "" {
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
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: conflictMessage(err),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrServiceUnavailable),
		errors.Is(err, billingdomain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

// classifyErrorForLog reports the response type and code for request logs.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	if len(payload.Errors) > 0 {
		return payload.Type, payload.Errors[0].Code
	}
	return payload.Type, payload.Type
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func validationErrorCode(err error) string {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return ""
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, billingdomain.ErrInvalidTransition),
		errors.Is(err, paymentdomain.ErrDuplicateCode),
		errors.Is(err, householddomain.ErrDuplicateUnit),
		errors.Is(err, householddomain.ErrDuplicateSlot):
		return true
	default:
		return false
	}
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, billingdomain.ErrInvalidTransition):
		return "record is already paid"
	case errors.Is(err, paymentdomain.ErrDuplicateCode):
		return "fee category already exists"
	case errors.Is(err, householddomain.ErrDuplicateUnit):
		return "unit already exists"
	case errors.Is(err, householddomain.ErrDuplicateSlot):
		return "slot number already exists"
	default:
		return "conflict"
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, paymentdomain.ErrNotFound),
		errors.Is(err, paymentdomain.ErrHouseholdNotFound),
		errors.Is(err, paymentdomain.ErrFeeCategoryNotFound),
		errors.Is(err, utilitydomain.ErrNotFound),
		errors.Is(err, utilitydomain.ErrHouseholdNotFound),
		errors.Is(err, householddomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	return strings.TrimPrefix(code, "invalid_")
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}
