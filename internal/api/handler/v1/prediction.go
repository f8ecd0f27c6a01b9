package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tippspiel/tippspiel-api/internal/api/handler/v1/request"
	"github.com/tippspiel/tippspiel-api/internal/api/handler/v1/response"
	"github.com/tippspiel/tippspiel-api/internal/domain"
	"github.com/tippspiel/tippspiel-api/internal/service"
)

type PredictionService interface {
	SubmitPredictions(ctx context.Context, userID, roundID uint, entries []domain.PredictionEntry) error
	GenerateRandomPredictions(ctx context.Context, userID, roundID uint) error
	GetActiveRoundView(ctx context.Context, userID uint) (domain.RoundView, error)
}

type PredictionHandler struct {
	svc PredictionService
}

func NewPredictionHandler(svc PredictionService) *PredictionHandler {
	return &PredictionHandler{
		svc: svc,
	}
}

// HandleGetActiveRound godoc
// @Summary      Get the open round with the caller's predictions merged in
// @Tags         predictions
// @Produce      json
// @Success      200 {object} domain.RoundView
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Security     BearerAuth
// @Router       /rounds/active [get]
func (h *PredictionHandler) HandleGetActiveRound(ctx *gin.Context) {
	view, err := h.svc.GetActiveRoundView(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		if errors.Is(err, service.ErrNoActiveRound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrNoActiveRound))

			return
		}

		err = fmt.Errorf("v1.HandleGetActiveRound -> h.svc.GetActiveRoundView -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, view)
}

// HandleSubmitPredictions godoc
// @Summary      Submit a batch of predictions for a round
// @Tags         predictions
// @Produce      json
// @Param        roundID path     int                              true "round ID"
// @Param        request body     request.SubmitPredictionsRequest true "request body"
// @Success      204
// @Failure      400     {object} response.Err
// @Failure      403     {object} response.Err
// @Failure      404     {object} response.Err
// @Failure      409     {object} response.Err
// @Failure      500     {object} response.Err
// @Security     BearerAuth
// @Router       /rounds/{roundID}/predictions [post]
func (h *PredictionHandler) HandleSubmitPredictions(ctx *gin.Context) {
	roundID, err := parseIDParam(ctx, "roundID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.SubmitPredictionsRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	entries := make([]domain.PredictionEntry, 0, len(req.Predictions))
	for _, p := range req.Predictions {
		entries = append(entries, domain.PredictionEntry{
			FixtureID: p.FixtureID,
			HomeGoals: p.HomeGoals,
			AwayGoals: p.AwayGoals,
			IsJoker:   p.IsJoker,
		})
	}

	err = h.svc.SubmitPredictions(ctx.Request.Context(), currentUserID(ctx), roundID, entries)
	if err != nil {
		h.renderSubmitErr(ctx, err)

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGenerateRandomPredictions godoc
// @Summary      Fill the caller's missing predictions with random scores
// @Tags         predictions
// @Produce      json
// @Param        roundID path int true "round ID"
// @Success      204
// @Failure      400     {object} response.Err
// @Failure      403     {object} response.Err
// @Failure      404     {object} response.Err
// @Failure      409     {object} response.Err
// @Failure      500     {object} response.Err
// @Security     BearerAuth
// @Router       /rounds/{roundID}/predictions/random [post]
func (h *PredictionHandler) HandleGenerateRandomPredictions(ctx *gin.Context) {
	roundID, err := parseIDParam(ctx, "roundID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	err = h.svc.GenerateRandomPredictions(ctx.Request.Context(), currentUserID(ctx), roundID)
	if err != nil {
		h.renderSubmitErr(ctx, err)

		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *PredictionHandler) renderSubmitErr(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoundNotFound):
		response.RenderErr(ctx, response.ErrNotFound(service.ErrRoundNotFound))
	case errors.Is(err, service.ErrFixtureNotInRound):
		response.RenderErr(ctx, response.ErrNotFound(service.ErrFixtureNotInRound))
	case errors.Is(err, service.ErrRoundLocked):
		response.RenderErr(ctx, response.ErrConflict(service.ErrRoundLocked))
	case errors.Is(err, service.ErrReadOnlyRole):
		response.RenderErr(ctx, response.ErrForbidden(service.ErrReadOnlyRole))
	case errors.Is(err, service.ErrDuplicateFixture):
		response.RenderErr(ctx, response.ErrBadRequest(service.ErrDuplicateFixture))
	case errors.Is(err, service.ErrNegativeGoals):
		response.RenderErr(ctx, response.ErrBadRequest(service.ErrNegativeGoals))
	case errors.Is(err, service.ErrJokerLimitExceeded):
		response.RenderErr(ctx, response.ErrBadRequest(service.ErrJokerLimitExceeded))
	default:
		err = fmt.Errorf("v1.PredictionHandler -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
