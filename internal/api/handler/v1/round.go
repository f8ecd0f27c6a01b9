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

type RoundService interface {
	CreateRound(ctx context.Context, round domain.Round) (domain.Round, error)
	GetRounds(ctx context.Context) ([]domain.Round, error)
	SetStatus(ctx context.Context, roundID uint, status domain.RoundStatus) (domain.Round, error)
	DeleteRound(ctx context.Context, roundID uint) error
	AddFixtures(ctx context.Context, roundID uint, fixtures []domain.Fixture) ([]domain.Fixture, error)
	EnterResult(ctx context.Context, fixtureID uint, home, away int) error
	ScoreRound(ctx context.Context, roundID uint) (domain.Round, error)
}

type RoundHandler struct {
	svc     RoundService
	userSvc UserService
}

func NewRoundHandler(svc RoundService, userSvc UserService) *RoundHandler {
	return &RoundHandler{
		svc:     svc,
		userSvc: userSvc,
	}
}

// HandleListRounds godoc
// @Summary      List all rounds
// @Tags         rounds
// @Produce      json
// @Success      200 {array}  domain.Round
// @Failure      500 {object} response.Err
// @Security     BearerAuth
// @Router       /rounds [get]
func (h *RoundHandler) HandleListRounds(ctx *gin.Context) {
	rounds, err := h.svc.GetRounds(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListRounds -> h.svc.GetRounds -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, rounds)
}

// HandleCreateRound godoc
// @Summary      Create a round in SETUP
// @Tags         rounds
// @Produce      json
// @Param        request body     request.CreateRoundRequest true "request body"
// @Success      201     {object} domain.Round
// @Failure      400     {object} response.Err
// @Failure      403     {object} response.Err
// @Failure      500     {object} response.Err
// @Security     BearerAuth
// @Router       /rounds [post]
func (h *RoundHandler) HandleCreateRound(ctx *gin.Context) {
	if !requireAdmin(ctx, h.userSvc) {
		return
	}

	var req request.CreateRoundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	round, err := h.svc.CreateRound(ctx.Request.Context(), domain.Round{
		Name:       req.Name,
		Deadline:   req.Deadline,
		JokerLimit: req.JokerLimit,
		CreatorID:  currentUserID(ctx),
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateRound -> h.svc.CreateRound -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, round)
}

// HandleUpdateRoundStatus godoc
// @Summary      Change a round's status
// @Tags         rounds
// @Produce      json
// @Param        roundID path     int                              true "round ID"
// @Param        request body     request.UpdateRoundStatusRequest true "request body"
// @Success      200     {object} domain.Round
// @Failure      400     {object} response.Err
// @Failure      403     {object} response.Err
// @Failure      404     {object} response.Err
// @Failure      409     {object} response.Err
// @Failure      500     {object} response.Err
// @Security     BearerAuth
// @Router       /rounds/{roundID}/status [put]
func (h *RoundHandler) HandleUpdateRoundStatus(ctx *gin.Context) {
	if !requireAdmin(ctx, h.userSvc) {
		return
	}

	roundID, err := parseIDParam(ctx, "roundID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.UpdateRoundStatusRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	round, err := h.svc.SetStatus(ctx.Request.Context(), roundID, domain.RoundStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoundNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrRoundNotFound))
		case errors.Is(err, service.ErrInvalidStatusTransition):
			response.RenderErr(ctx, response.ErrConflict(service.ErrInvalidStatusTransition))
		default:
			err = fmt.Errorf("v1.HandleUpdateRoundStatus -> h.svc.SetStatus -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, round)
}

// HandleDeleteRound godoc
// @Summary      Delete a round with its fixtures and predictions
// @Tags         rounds
// @Produce      json
// @Param        roundID path int true "round ID"
// @Success      204
// @Failure      400     {object} response.Err
// @Failure      403     {object} response.Err
// @Failure      404     {object} response.Err
// @Failure      500     {object} response.Err
// @Security     BearerAuth
// @Router       /rounds/{roundID} [delete]
func (h *RoundHandler) HandleDeleteRound(ctx *gin.Context) {
	if !requireAdmin(ctx, h.userSvc) {
		return
	}

	roundID, err := parseIDParam(ctx, "roundID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err = h.svc.DeleteRound(ctx.Request.Context(), roundID); err != nil {
		if errors.Is(err, service.ErrRoundNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrRoundNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleDeleteRound -> h.svc.DeleteRound -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleAddFixtures godoc
// @Summary      Bulk-import fixtures into a round
// @Tags         rounds
// @Produce      json
// @Param        roundID path     int                        true "round ID"
// @Param        request body     request.AddFixturesRequest true "request body"
// @Success      201     {array}  domain.Fixture
// @Failure      400     {object} response.Err
// @Failure      403     {object} response.Err
// @Failure      404     {object} response.Err
// @Failure      500     {object} response.Err
// @Security     BearerAuth
// @Router       /rounds/{roundID}/fixtures [post]
func (h *RoundHandler) HandleAddFixtures(ctx *gin.Context) {
	if !requireAdmin(ctx, h.userSvc) {
		return
	}

	roundID, err := parseIDParam(ctx, "roundID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.AddFixturesRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	fixtures := make([]domain.Fixture, 0, len(req.Fixtures))
	for _, f := range req.Fixtures {
		fixtures = append(fixtures, domain.Fixture{
			HomeTeam:  f.HomeTeam,
			AwayTeam:  f.AwayTeam,
			KickoffAt: f.KickoffAt,
		})
	}

	created, err := h.svc.AddFixtures(ctx.Request.Context(), roundID, fixtures)
	if err != nil {
		if errors.Is(err, service.ErrRoundNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrRoundNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleAddFixtures -> h.svc.AddFixtures -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleEnterResult godoc
// @Summary      Enter a fixture's final score
// @Tags         rounds
// @Produce      json
// @Param        fixtureID path     int                        true "fixture ID"
// @Param        request   body     request.EnterResultRequest true "request body"
// @Success      204
// @Failure      400       {object} response.Err
// @Failure      403       {object} response.Err
// @Failure      404       {object} response.Err
// @Failure      500       {object} response.Err
// @Security     BearerAuth
// @Router       /fixtures/{fixtureID}/result [put]
func (h *RoundHandler) HandleEnterResult(ctx *gin.Context) {
	if !requireAdmin(ctx, h.userSvc) {
		return
	}

	fixtureID, err := parseIDParam(ctx, "fixtureID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.EnterResultRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	err = h.svc.EnterResult(ctx.Request.Context(), fixtureID, *req.HomeScore, *req.AwayScore)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFixtureNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrFixtureNotFound))
		case errors.Is(err, service.ErrNegativeScore):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrNegativeScore))
		default:
			err = fmt.Errorf("v1.HandleEnterResult -> h.svc.EnterResult -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleScoreRound godoc
// @Summary      Score a closed round and mark it completed
// @Tags         rounds
// @Produce      json
// @Param        roundID path     int true "round ID"
// @Success      200     {object} domain.Round
// @Failure      400     {object} response.Err
// @Failure      403     {object} response.Err
// @Failure      404     {object} response.Err
// @Failure      409     {object} response.Err
// @Failure      500     {object} response.Err
// @Security     BearerAuth
// @Router       /rounds/{roundID}/score [post]
func (h *RoundHandler) HandleScoreRound(ctx *gin.Context) {
	if !requireAdmin(ctx, h.userSvc) {
		return
	}

	roundID, err := parseIDParam(ctx, "roundID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	round, err := h.svc.ScoreRound(ctx.Request.Context(), roundID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoundNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrRoundNotFound))
		case errors.Is(err, service.ErrRoundNotClosed):
			response.RenderErr(ctx, response.ErrConflict(service.ErrRoundNotClosed))
		default:
			err = fmt.Errorf("v1.HandleScoreRound -> h.svc.ScoreRound -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, round)
}
