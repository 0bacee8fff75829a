package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/snnyvrz/bookcatalog/internal/middleware"
	"github.com/snnyvrz/bookcatalog/internal/service"
	"github.com/snnyvrz/bookcatalog/internal/validation"
	"gorm.io/gorm"
)

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, validation.ErrorResponse{
		Code:    code,
		Message: message,
		Errors:  nil,
	})
}

// writeServiceError maps a service failure onto its HTTP status. Anything
// not recognised is logged and reported as 500 with fallbackCode.
func writeServiceError(c *gin.Context, err error, fallbackCode string) {
	var (
		vErr  *service.ValidationError
		nfErr *service.NotFoundError
		brErr *service.BusinessRuleError
		pgErr *pgconn.PgError
	)

	switch {
	case errors.As(err, &vErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, validation.NewErrorResponse(vErr.Errors))
	case errors.As(err, &nfErr):
		writeError(c, http.StatusNotFound, "NOT_FOUND", nfErr.Error())
	case errors.As(err, &brErr):
		writeError(c, http.StatusConflict, "BUSINESS_RULE_VIOLATION", brErr.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		writeError(c, http.StatusConflict, "CONSTRAINT_VIOLATION", "conflicts with an existing record")
	case errors.As(err, &pgErr) && (pgErr.Code == pgerrcode.UniqueViolation || pgErr.Code == pgerrcode.ForeignKeyViolation):
		writeError(c, http.StatusConflict, "CONSTRAINT_VIOLATION", pgErr.Message)
	default:
		slog.ErrorContext(c.Request.Context(), "request failed",
			"code", fallbackCode,
			"req_id", middleware.GetRequestID(c),
			"err", err,
		)
		writeError(c, http.StatusInternalServerError, fallbackCode, "internal server error")
	}
}
