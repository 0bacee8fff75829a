package validation

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Code    string       `json:"code,omitempty"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

// NewErrorResponse flattens errs into the wire envelope, ordered by field.
func NewErrorResponse(errs Errors) ErrorResponse {
	fields := make([]FieldError, 0, len(errs))
	for _, f := range errs.Fields() {
		for _, msg := range errs[f] {
			fields = append(fields, FieldError{
				Field:   f,
				Message: msg,
			})
		}
	}

	return ErrorResponse{
		Code:    "VALIDATION_FAILED",
		Message: "validation failed",
		Errors:  fields,
	}
}

// BindJSON decodes the request body into dst. Field rules are not applied
// here; services validate their own inputs.
func BindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_BODY",
			Message: "invalid request body",
			Errors: []FieldError{
				{
					Field:   "",
					Message: err.Error(),
				},
			},
		})
		return false
	}

	return true
}
