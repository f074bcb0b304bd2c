package services

import (
	"log/slog"

	"alfredoptarigan/hiring-pipeline/internal/repositories"
)

type Options struct {
	TieBreak TieBreakPolicy
}

// Services bundles the hiring pipeline services over one store.
type Services struct {
	Processes    ProcessService
	Committees   CommitteeService
	Applications ApplicationService
	Selection    SelectionService
	Compliance   ComplianceService
	Checklists   ChecklistService
}

func New(store repositories.Store, logger *slog.Logger, opts Options) *Services {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.TieBreak == "" {
		opts.TieBreak = TieBreakNone
	}
	return &Services{
		Processes:    NewProcessService(store, logger, opts.TieBreak),
		Committees:   NewCommitteeService(store, logger),
		Applications: NewApplicationService(store, logger),
		Selection:    NewSelectionService(store, logger),
		Compliance:   NewComplianceService(store, logger),
		Checklists:   NewChecklistService(store, logger),
	}
}
