package services

import (
	"log/slog"

	"github.com/vespo92/QBMCPServer/internal/core/ports"
	portssvc "github.com/vespo92/QBMCPServer/internal/core/ports/services"
	"github.com/vespo92/QBMCPServer/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, provider ports.TimeDataProvider, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Vocabulary and date resolution have no upstream dependencies and
	// feed everything else.
	container.Vocabulary = NewVocabularyService()
	container.DateRange = NewDateRangeService(cfg.Location())

	container.Aggregate = NewAggregationService()
	container.Workflow = NewWorkflowService(provider, container.DateRange, container.Aggregate, logger)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.VocabularySvcFacade  = (*VocabularyService)(nil)
	_ portssvc.DateRangeSvcFacade   = (*DateRangeService)(nil)
	_ portssvc.AggregationSvcFacade = (*AggregationService)(nil)
	_ portssvc.WorkflowSvcFacade    = (*WorkflowService)(nil)
)
