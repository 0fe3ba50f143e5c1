package http

import (
	"net/http"

	"github.com/npcoderes/GTS-sub002/internal/core/application/usecases/commands"
	"github.com/npcoderes/GTS-sub002/internal/core/application/usecases/queries"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/demand"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/trip"

	"github.com/labstack/echo/v4"
)

// Server exposes the gate coordination operations over HTTP.
// It translates between the JSON contracts and application use cases.
type Server struct {
	// Command handlers
	issueTokenHandler     commands.IssueTokenCommandHandler
	cancelTokenHandler    commands.CancelTokenCommandHandler
	manualAllocateHandler commands.ManualAllocateCommandHandler
	advanceStepHandler    commands.AdvanceStepCommandHandler
	submitDemandHandler   commands.SubmitDemandCommandHandler
	approveDemandHandler  commands.ApproveDemandCommandHandler
	rejectDemandHandler   commands.RejectDemandCommandHandler

	// Query handlers
	getCurrentTokenHandler queries.GetCurrentTokenQueryHandler
	getResumeViewHandler   queries.GetResumeViewQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	issueTokenHandler commands.IssueTokenCommandHandler,
	cancelTokenHandler commands.CancelTokenCommandHandler,
	manualAllocateHandler commands.ManualAllocateCommandHandler,
	advanceStepHandler commands.AdvanceStepCommandHandler,
	submitDemandHandler commands.SubmitDemandCommandHandler,
	approveDemandHandler commands.ApproveDemandCommandHandler,
	rejectDemandHandler commands.RejectDemandCommandHandler,
	getCurrentTokenHandler queries.GetCurrentTokenQueryHandler,
	getResumeViewHandler queries.GetResumeViewQueryHandler,
) *Server {
	return &Server{
		issueTokenHandler:      issueTokenHandler,
		cancelTokenHandler:     cancelTokenHandler,
		manualAllocateHandler:  manualAllocateHandler,
		advanceStepHandler:     advanceStepHandler,
		submitDemandHandler:    submitDemandHandler,
		approveDemandHandler:   approveDemandHandler,
		rejectDemandHandler:    rejectDemandHandler,
		getCurrentTokenHandler: getCurrentTokenHandler,
		getResumeViewHandler:   getResumeViewHandler,
	}
}

// RegisterRoutes binds the API surface onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/tokens", s.IssueToken)
	api.GET("/tokens/current", s.GetCurrentToken)
	api.POST("/tokens/:id/cancel", s.CancelToken)

	api.POST("/allocations/manual", s.ManualAllocate)

	api.POST("/trips/:id/steps", s.AdvanceStep)
	api.GET("/trips/resume", s.GetResumeView)

	api.POST("/demands", s.SubmitDemand)
	api.POST("/demands/:id/approve", s.ApproveDemand)
	api.POST("/demands/:id/reject", s.RejectDemand)

	e.GET("/health", s.Health)
}

// IssueToken handles POST /api/v1/tokens - issues a queue token for a driver.
func (s *Server) IssueToken(ctx echo.Context) error {
	var req IssueTokenRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return badRequest(ctx, "Invalid driver ID: "+err.Error())
	}

	vehicleID, err := kernel.UUIDFromString(req.VehicleID)
	if err != nil {
		return badRequest(ctx, "Invalid vehicle ID: "+err.Error())
	}

	station, err := kernel.NewStationCode(req.Station)
	if err != nil {
		return badRequest(ctx, "Invalid station: "+err.Error())
	}

	cmd, err := commands.NewIssueTokenCommand(driverID, vehicleID, station)
	if err != nil {
		return badRequest(ctx, "Invalid token data: "+err.Error())
	}

	tkn, err := s.issueTokenHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, newTokenResponse(tkn))
}

// GetCurrentToken handles GET /api/v1/tokens/current - returns the driver's
// active token for today.
func (s *Server) GetCurrentToken(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.QueryParam("driverId"))
	if err != nil {
		return badRequest(ctx, "Invalid driver ID: "+err.Error())
	}

	query, err := queries.NewGetCurrentTokenQuery(driverID)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	result, err := s.getCurrentTokenHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, newCurrentTokenResponse(result))
}

// CancelToken handles POST /api/v1/tokens/:id/cancel - retires a token and
// releases whatever the matcher paired it with.
func (s *Server) CancelToken(ctx echo.Context) error {
	tokenID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid token ID: "+err.Error())
	}

	cmd, err := commands.NewCancelTokenCommand(tokenID)
	if err != nil {
		return badRequest(ctx, "Invalid token data: "+err.Error())
	}

	if handleErr := s.cancelTokenHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ManualAllocate handles POST /api/v1/allocations/manual - pairs a specific
// token with a specific demand, bypassing queue order.
func (s *Server) ManualAllocate(ctx echo.Context) error {
	var req ManualAllocateRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	tokenID, err := kernel.UUIDFromString(req.TokenID)
	if err != nil {
		return badRequest(ctx, "Invalid token ID: "+err.Error())
	}

	demandID, err := kernel.UUIDFromString(req.DemandID)
	if err != nil {
		return badRequest(ctx, "Invalid demand ID: "+err.Error())
	}

	cmd, err := commands.NewManualAllocateCommand(tokenID, demandID)
	if err != nil {
		return badRequest(ctx, "Invalid allocation data: "+err.Error())
	}

	if handleErr := s.manualAllocateHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusCreated)
}

// AdvanceStep handles POST /api/v1/trips/:id/steps - syncs the client's view
// of the trip workflow and returns the step the server settled on.
func (s *Server) AdvanceStep(ctx echo.Context) error {
	tripID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid trip ID: "+err.Error())
	}

	var req AdvanceStepRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewAdvanceStepCommand(tripID, req.Actor, trip.Step(req.Step), req.Snapshot.toDomain())
	if err != nil {
		return badRequest(ctx, "Invalid step data: "+err.Error())
	}

	served, err := s.advanceStepHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, AdvanceStepResponse{
		TripID:   tripID.String(),
		Step:     int(served),
		StepName: served.String(),
	})
}

// GetResumeView handles GET /api/v1/trips/resume - rebuilds the driver's
// workflow position after an app restart.
func (s *Server) GetResumeView(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.QueryParam("driverId"))
	if err != nil {
		return badRequest(ctx, "Invalid driver ID: "+err.Error())
	}

	query, err := queries.NewGetResumeViewQuery(driverID)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	result, err := s.getResumeViewHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, newResumeResponse(result))
}

// SubmitDemand handles POST /api/v1/demands - files a transport demand for
// dispatcher review.
func (s *Server) SubmitDemand(ctx echo.Context) error {
	var req SubmitDemandRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	origin, err := kernel.NewStationCode(req.Origin)
	if err != nil {
		return badRequest(ctx, "Invalid origin: "+err.Error())
	}

	destination, err := kernel.NewStationCode(req.Destination)
	if err != nil {
		return badRequest(ctx, "Invalid destination: "+err.Error())
	}

	priority := demand.PriorityNormal
	if req.Priority != "" {
		priority, err = demand.PriorityFromString(req.Priority)
		if err != nil {
			return badRequest(ctx, "Invalid priority: "+err.Error())
		}
	}

	demandID := kernel.NewUUID()

	cmd, err := commands.NewSubmitDemandCommand(demandID, origin, destination, req.Quantity, priority)
	if err != nil {
		return badRequest(ctx, "Invalid demand data: "+err.Error())
	}

	if handleErr := s.submitDemandHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, DemandCreatedResponse{ID: demandID.String()})
}

// ApproveDemand handles POST /api/v1/demands/:id/approve - releases a demand
// into the matching pool.
func (s *Server) ApproveDemand(ctx echo.Context) error {
	demandID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid demand ID: "+err.Error())
	}

	cmd, err := commands.NewApproveDemandCommand(demandID)
	if err != nil {
		return badRequest(ctx, "Invalid demand data: "+err.Error())
	}

	if handleErr := s.approveDemandHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RejectDemand handles POST /api/v1/demands/:id/reject - declines a pending
// demand.
func (s *Server) RejectDemand(ctx echo.Context) error {
	demandID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid demand ID: "+err.Error())
	}

	cmd, err := commands.NewRejectDemandCommand(demandID)
	if err != nil {
		return badRequest(ctx, "Invalid demand data: "+err.Error())
	}

	if handleErr := s.rejectDemandHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// Health handles GET /health - liveness probe.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}
