package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Stranger261/hospital-er-api/internal/middleware"
	"github.com/Stranger261/hospital-er-api/internal/model"
	apperrors "github.com/Stranger261/hospital-er-api/pkg/errors"
)

// ParseUUIDParam parses a uuid path parameter.
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.Validation(name, "invalid id")
	}
	return id, nil
}

// Actor returns the authenticated staff member set by the auth middleware.
func Actor(c *gin.Context) (model.Actor, error) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return model.Actor{}, apperrors.Unauthorized(nil)
	}
	return actor, nil
}

// Confirmed reports whether the request carries the explicit confirmation
// required for destructive operations.
func Confirmed(c *gin.Context) bool {
	return c.Query("confirm") == "true"
}
