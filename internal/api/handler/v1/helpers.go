package v1

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tippspiel/tippspiel-api/internal/api/handler/v1/response"
	"github.com/tippspiel/tippspiel-api/internal/api/middleware"
	"github.com/tippspiel/tippspiel-api/internal/domain"
)

var errAdminOnly = errors.New("admin privileges required")

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

func currentUserID(ctx *gin.Context) uint {
	return ctx.MustGet(middleware.ContextKeyUserID).(uint)
}

func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %v", name)
	}

	return uint(id), nil
}

// requireAdmin loads the calling user and renders 403 unless they are an
// admin. Returns false when the request has already been answered.
func requireAdmin(ctx *gin.Context, userSvc UserService) bool {
	user, err := userSvc.GetUser(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		err = fmt.Errorf("v1.requireAdmin -> userSvc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return false
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrForbidden(errAdminOnly))

		return false
	}

	return true
}
