package v1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tippspiel/tippspiel-api/internal/api/handler/v1/response"
	"github.com/tippspiel/tippspiel-api/internal/domain"
)

type StandingsService interface {
	ComputeStandings(ctx context.Context, roundID *uint, userIDs []uint, baseline []domain.StandingEntry) ([]domain.StandingEntry, error)
}

type StandingsHandler struct {
	svc StandingsService
}

func NewStandingsHandler(svc StandingsService) *StandingsHandler {
	return &StandingsHandler{
		svc: svc,
	}
}

// HandleGetStandings godoc
// @Summary      Compute the leaderboard
// @Description  Overall standings by default; round_id restricts to one round,
// @Description  user_ids (comma-separated) to a subset of players.
// @Tags         standings
// @Produce      json
// @Param        round_id  query    int    false "round ID"
// @Param        user_ids  query    string false "comma-separated user IDs"
// @Success      200       {array}  domain.StandingEntry
// @Failure      400       {object} response.Err
// @Failure      500       {object} response.Err
// @Security     BearerAuth
// @Router       /standings [get]
func (h *StandingsHandler) HandleGetStandings(ctx *gin.Context) {
	var roundID *uint
	if raw := ctx.Query("round_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid round_id")))

			return
		}
		id := uint(parsed)
		roundID = &id
	}

	var userIDs []uint
	if raw := ctx.Query("user_ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			parsed, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
			if err != nil {
				response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid user_ids")))

				return
			}
			userIDs = append(userIDs, uint(parsed))
		}
	}

	// Movement baselines are the caller's concern; the HTTP layer supplies none.
	entries, err := h.svc.ComputeStandings(ctx.Request.Context(), roundID, userIDs, nil)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetStandings -> h.svc.ComputeStandings -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, entries)
}
