package cmd

import (
	"log/slog"

	httpadapter "github.com/npcoderes/GTS-sub002/internal/adapters/in/http"
	"github.com/npcoderes/GTS-sub002/internal/adapters/out/postgres"
	"github.com/npcoderes/GTS-sub002/internal/adapters/out/postgres/outboxrepo"
	"github.com/npcoderes/GTS-sub002/internal/core/application/usecases/commands"
	"github.com/npcoderes/GTS-sub002/internal/core/application/usecases/queries"
	"github.com/npcoderes/GTS-sub002/internal/core/ports"
	"github.com/npcoderes/GTS-sub002/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	notifier   ports.Notifier
	logger     *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, notifier ports.Notifier, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		notifier:   notifier,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateIssueTokenCommandHandler() commands.IssueTokenCommandHandler {
	var f commands.IssueUoWFactory = FuncIssueUoWFactory(func() commands.IssueUoW {
		return c.uowFactory.Create()
	})
	return commands.NewIssueTokenCommandHandler(f)
}

func (c *CompositionRoot) CreateTryMatchCommandHandler() commands.TryMatchCommandHandler {
	var f commands.MatchUoWFactory = FuncMatchUoWFactory(func() commands.MatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewTryMatchCommandHandler(f)
}

func (c *CompositionRoot) CreateManualAllocateCommandHandler() commands.ManualAllocateCommandHandler {
	var f commands.MatchUoWFactory = FuncMatchUoWFactory(func() commands.MatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewManualAllocateCommandHandler(f)
}

func (c *CompositionRoot) CreateCancelTokenCommandHandler() commands.CancelTokenCommandHandler {
	var f commands.ReclaimUoWFactory = FuncReclaimUoWFactory(func() commands.ReclaimUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelTokenCommandHandler(f)
}

func (c *CompositionRoot) CreateAdvanceStepCommandHandler() commands.AdvanceStepCommandHandler {
	var f commands.TripUoWFactory = FuncTripUoWFactory(func() commands.TripUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAdvanceStepCommandHandler(f, c.configs.BayCapacity)
}

func (c *CompositionRoot) CreateSubmitDemandCommandHandler() commands.SubmitDemandCommandHandler {
	var f commands.DemandUoWFactory = FuncDemandUoWFactory(func() commands.DemandUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSubmitDemandCommandHandler(f)
}

func (c *CompositionRoot) CreateApproveDemandCommandHandler() commands.ApproveDemandCommandHandler {
	var f commands.MatchUoWFactory = FuncMatchUoWFactory(func() commands.MatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewApproveDemandCommandHandler(f)
}

func (c *CompositionRoot) CreateRejectDemandCommandHandler() commands.RejectDemandCommandHandler {
	var f commands.DemandUoWFactory = FuncDemandUoWFactory(func() commands.DemandUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRejectDemandCommandHandler(f)
}

func (c *CompositionRoot) CreateSweepExpiredCommandHandler() commands.SweepExpiredCommandHandler {
	var f commands.ReclaimUoWFactory = FuncReclaimUoWFactory(func() commands.ReclaimUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSweepExpiredCommandHandler(f, c.configs.AssignmentTimeout, c.logger)
}

func (c *CompositionRoot) CreateGetCurrentTokenQueryHandler() queries.GetCurrentTokenQueryHandler {
	return queries.NewGetCurrentTokenQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetResumeViewQueryHandler() queries.GetResumeViewQueryHandler {
	return queries.NewGetResumeViewQueryHandler(c.gormDB, c.logger)
}

// CreateJobManager wires the scheduled jobs. The dispatcher reads the outbox
// outside any business transaction, so it gets its own repository on the
// main connection.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateSweepExpiredCommandHandler(),
		c.configs.SweepInterval,
		outboxrepo.NewGormOutboxRepository(c.gormDB),
		c.notifier,
		c.logger,
	)
}

// CreateHTTPServer assembles the HTTP adapter with every exposed use case.
func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateIssueTokenCommandHandler(),
		c.CreateCancelTokenCommandHandler(),
		c.CreateManualAllocateCommandHandler(),
		c.CreateAdvanceStepCommandHandler(),
		c.CreateSubmitDemandCommandHandler(),
		c.CreateApproveDemandCommandHandler(),
		c.CreateRejectDemandCommandHandler(),
		c.CreateGetCurrentTokenQueryHandler(),
		c.CreateGetResumeViewQueryHandler(),
	)
}

type FuncIssueUoWFactory func() commands.IssueUoW

func (f FuncIssueUoWFactory) Create() commands.IssueUoW {
	return f()
}

type FuncMatchUoWFactory func() commands.MatchUoW

func (f FuncMatchUoWFactory) Create() commands.MatchUoW {
	return f()
}

type FuncDemandUoWFactory func() commands.DemandUoW

func (f FuncDemandUoWFactory) Create() commands.DemandUoW {
	return f()
}

type FuncTripUoWFactory func() commands.TripUoW

func (f FuncTripUoWFactory) Create() commands.TripUoW {
	return f()
}

type FuncReclaimUoWFactory func() commands.ReclaimUoW

func (f FuncReclaimUoWFactory) Create() commands.ReclaimUoW {
	return f()
}
