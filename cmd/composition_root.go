package cmd

import (
	"strings"
	"time"

	"traceflow/internal/adapters/out/postgres"
	"traceflow/internal/core/application/usecases/commands"
	"traceflow/internal/core/application/usecases/queries"
	"traceflow/internal/core/domain/model/pipeline"
	"traceflow/internal/core/domain/services"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	pipeline   *pipeline.Pipeline

	// dashboardHandler owns the snapshot cache and must stay a singleton.
	dashboardHandler *queries.GetDashboardSnapshotQueryHandler
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) (CompositionRoot, error) {
	pl, err := buildPipeline(config.PipelineStations)
	if err != nil {
		return CompositionRoot{}, err
	}

	ttl := time.Duration(config.SnapshotTTLSeconds) * time.Second
	dashboardHandler, err := queries.NewGetDashboardSnapshotQueryHandler(gormDB, pl, ttl)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		gormDB:           gormDB,
		uowFactory:       *postgres.NewGormUnitOfWorkFactory(gormDB),
		pipeline:         pl,
		dashboardHandler: dashboardHandler,
	}, nil
}

// buildPipeline parses the comma-separated station list, falling back to the
// default furniture workflow when the configuration leaves it empty.
func buildPipeline(stations string) (*pipeline.Pipeline, error) {
	if strings.TrimSpace(stations) == "" {
		return pipeline.Default(), nil
	}

	names := make([]string, 0)
	for _, name := range strings.Split(stations, ",") {
		names = append(names, strings.TrimSpace(name))
	}
	return pipeline.NewPipeline(names)
}

func (c *CompositionRoot) Pipeline() *pipeline.Pipeline {
	return c.pipeline
}

func (c *CompositionRoot) CreateSubmitScanCommandHandler() (commands.SubmitScanCommandHandler, error) {
	policy, err := services.NewScanPolicy(c.pipeline)
	if err != nil {
		return commands.SubmitScanCommandHandler{}, err
	}

	var f commands.ScanUoWFactory = FuncScanUoWFactory(func() commands.ScanUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSubmitScanCommandHandler(f, policy), nil
}

func (c *CompositionRoot) CreateGetScanFeedQueryHandler() queries.GetScanFeedQueryHandler {
	return queries.NewGetScanFeedQueryHandler(c.gormDB)
}

func (c *CompositionRoot) GetDashboardSnapshotQueryHandler() *queries.GetDashboardSnapshotQueryHandler {
	return c.dashboardHandler
}

func (c *CompositionRoot) CreateGetWorkerStatsQueryHandler() queries.GetWorkerStatsQueryHandler {
	return queries.NewGetWorkerStatsQueryHandler(c.gormDB)
}

type FuncScanUoWFactory func() commands.ScanUoW

func (f FuncScanUoWFactory) Create() commands.ScanUoW {
	return f()
}
