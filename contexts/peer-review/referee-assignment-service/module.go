package refereeassignment

import (
	"context"
	"log/slog"

	httpadapter "refdesk/contexts/peer-review/referee-assignment-service/adapters/http"
	kvadapter "refdesk/contexts/peer-review/referee-assignment-service/adapters/kv"
	"refdesk/contexts/peer-review/referee-assignment-service/adapters/memory"
	"refdesk/contexts/peer-review/referee-assignment-service/adapters/validation"
	"refdesk/contexts/peer-review/referee-assignment-service/application/commands"
	"refdesk/contexts/peer-review/referee-assignment-service/application/queries"
	"refdesk/contexts/peer-review/referee-assignment-service/domain/entities"
	"refdesk/contexts/peer-review/referee-assignment-service/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Papers   *kvadapter.PaperRepository
	Index    *kvadapter.AssignmentIndex
	Requests *kvadapter.ReviewRequestStore
	Store    *memory.Store
}

type Dependencies struct {
	KV          ports.KeyValueStore
	Outbox      ports.OutboxRepository
	Notifier    ports.InvitationNotifier
	Validator   ports.EmailValidator
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	// AssignmentLimit caps active assignments per reviewer; zero means 5.
	AssignmentLimit int
	Logger          *slog.Logger
}

func NewModule(deps Dependencies) Module {
	validator := deps.Validator
	if validator == nil {
		validator = validation.MailValidator{}
	}
	limit := deps.AssignmentLimit
	if limit <= 0 {
		limit = queries.DefaultAssignmentLimit
	}

	papers := kvadapter.NewPaperRepository(deps.KV, deps.Clock, deps.Logger)
	index := kvadapter.NewAssignmentIndex(deps.KV, deps.Logger)
	requests := kvadapter.NewReviewRequestStore(deps.KV, deps.Logger)

	registerPaper := commands.RegisterPaperUseCase{
		Papers: papers,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	updatePaperStatus := commands.UpdatePaperStatusUseCase{
		Papers: papers,
		Logger: deps.Logger,
	}
	saveAssignments := commands.SaveAssignmentsUseCase{
		Papers: papers,
		Logger: deps.Logger,
	}
	evaluateCandidates := queries.EvaluateCandidatesUseCase{
		Validator:    validator,
		Index:        index,
		DefaultLimit: limit,
		Logger:       deps.Logger,
	}
	sendReviewRequests := commands.SendReviewRequestsUseCase{
		Requests: requests,
		Notifier: deps.Notifier,
		Outbox:   deps.Outbox,
		Clock:    deps.Clock,
		IDGen:    deps.IDGenerator,
		Logger:   deps.Logger,
	}
	respondToRequest := commands.RespondToRequestUseCase{
		Requests: requests,
		Papers:   papers,
		Index:    index,
		Outbox:   deps.Outbox,
		Clock:    deps.Clock,
		IDGen:    deps.IDGenerator,
		Limit:    limit,
		Logger:   deps.Logger,
	}
	queryUseCase := queries.QueryUseCase{
		Papers:   papers,
		Index:    index,
		Requests: requests,
		Logger:   deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			RegisterPaper:      registerPaper,
			UpdatePaperStatus:  updatePaperStatus,
			SaveAssignments:    saveAssignments,
			EvaluateCandidates: evaluateCandidates,
			SendReviewRequests: sendReviewRequests,
			RespondToRequest:   respondToRequest,
			Queries:            queryUseCase,
			Logger:             deps.Logger,
		},
		Papers:   papers,
		Index:    index,
		Requests: requests,
	}
}

// NewInMemoryModule wires every port to one isolated memory.Store and
// registers the seed papers.
func NewInMemoryModule(seed []entities.Paper, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		KV:          store,
		Outbox:      store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	seedPapers(module.Papers, seed, logger)
	return module
}

func seedPapers(papers ports.PaperRepository, seed []entities.Paper, logger *slog.Logger) {
	for _, paper := range seed {
		if _, err := papers.CreatePaper(context.Background(), paper); err != nil && logger != nil {
			logger.Warn("seed paper skipped",
				"event", "referee_seed_paper_skipped",
				"module", "peer-review/referee-assignment-service",
				"layer", "module",
				"paper_id", paper.PaperID,
				"error", err.Error(),
			)
		}
	}
}
