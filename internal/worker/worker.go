// Package worker drives benchmark jobs from queue claim to terminal state:
// it polls the external queue, dispatches each job to an LLM provider under
// the retry policy, scores the normalized response for brand and competitor
// mentions, persists the outcome idempotently, and finalizes runs once every
// job is terminal.
package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mentionlab/benchworker/internal/domain"
	"github.com/mentionlab/benchworker/internal/logger"
	"github.com/mentionlab/benchworker/internal/matcher"
	"github.com/mentionlab/benchworker/internal/provider"
	"github.com/mentionlab/benchworker/internal/queue"
)

// Queue is the narrow boundary to the message-queue service: claim a batch,
// archive a message, finalize a run. At-least-once delivery and visibility
// timeouts live behind it.
type Queue interface {
	Read(ctx context.Context, maxCount int) ([]queue.Message, error)
	Archive(ctx context.Context, msgID int64) error
	FinalizeRun(ctx context.Context, runID string) (bool, error)
}

// JobStore reads and updates benchmark job rows.
type JobStore interface {
	GetByID(ctx context.Context, id int64) (*domain.BenchmarkJob, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
}

// ResponseStore upserts normalized response rows, returning the row ID.
type ResponseStore interface {
	Upsert(ctx context.Context, response *domain.BenchmarkResponse) (int64, error)
}

// MentionStore upserts per-competitor mention rows.
type MentionStore interface {
	UpsertBatch(ctx context.Context, mentions []domain.ResponseMention) error
}

// CompetitorStore reads the competitor catalog.
type CompetitorStore interface {
	ListActive(ctx context.Context) ([]domain.Competitor, error)
	ListAliases(ctx context.Context) ([]domain.CompetitorAlias, error)
}

// ProgressStore reads per-run job-status aggregates.
type ProgressStore interface {
	GetRunProgress(ctx context.Context, runID string) (*domain.RunProgress, error)
}

// ClientSource resolves a provider to its client. provider.Factory is the
// production implementation; tests inject stubs. An injected source applies
// to every provider, which keeps mixed real/injected runs unsupported.
type ClientSource interface {
	ClientFor(p provider.Provider) (provider.Client, error)
}

// Options wires a Worker's collaborators and loop settings.
type Options struct {
	Queue       Queue
	Jobs        JobStore
	Responses   ResponseStore
	Mentions    MentionStore
	Competitors CompetitorStore
	Progress    ProgressStore
	Clients     ClientSource
	Logger      *logger.Logger

	PollBatchSize int
	EmptySleep    time.Duration
	IdleExit      time.Duration
}

// competitorContext is the in-memory view of the competitor catalog, loaded
// once at startup.
type competitorContext struct {
	names         []string
	aliasesByName map[string][]string // lowercase competitor name -> alias phrases
	idByName      map[string]string   // lowercase competitor name -> competitor id
}

// Worker is a single-threaded queue consumer. Its caches are read-mostly
// after first population and only touched from the polling loop.
type Worker struct {
	id        string
	queue     Queue
	jobs      JobStore
	responses ResponseStore
	mentions  MentionStore
	progress  ProgressStore
	clients   ClientSource
	log       *logger.Logger

	pollBatchSize int
	emptySleep    time.Duration
	idleExit      time.Duration

	entityCtx    *competitorContext
	specCache    map[string][]matcher.EntitySpec
	patternCache map[string]map[string][]matcher.Pattern
}

// New creates a Worker and loads the competitor catalog. An empty catalog is
// a configuration error: mention detection would be meaningless.
// Parameters:
//   - ctx: context for the catalog load.
//   - opts: collaborators and loop settings.
// Returns:
//   - *Worker: initialized worker.
//   - error: non-nil if the catalog is missing or unreadable.
func New(ctx context.Context, opts Options) (*Worker, error) {
	log := opts.Logger
	if log == nil {
		log = logger.GetDefault()
	}

	w := &Worker{
		id:            uuid.NewString(),
		queue:         opts.Queue,
		jobs:          opts.Jobs,
		responses:     opts.Responses,
		mentions:      opts.Mentions,
		progress:      opts.Progress,
		clients:       opts.Clients,
		log:           log,
		pollBatchSize: opts.PollBatchSize,
		emptySleep:    opts.EmptySleep,
		idleExit:      opts.IdleExit,
		specCache:     make(map[string][]matcher.EntitySpec),
		patternCache:  make(map[string]map[string][]matcher.Pattern),
	}
	if w.pollBatchSize < 1 {
		w.pollBatchSize = 1
	}

	entityCtx, err := loadCompetitorContext(ctx, opts.Competitors)
	if err != nil {
		return nil, err
	}
	w.entityCtx = entityCtx
	return w, nil
}

// loadCompetitorContext reads active competitors and merges their aliases.
// Each competitor's own name is always its first alias.
func loadCompetitorContext(ctx context.Context, store CompetitorStore) (*competitorContext, error) {
	competitors, err := store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load competitors: %w", err)
	}
	if len(competitors) == 0 {
		return nil, fmt.Errorf("no active competitors found; populate competitors before running the worker")
	}

	cc := &competitorContext{
		aliasesByName: make(map[string][]string, len(competitors)),
		idByName:      make(map[string]string, len(competitors)),
	}
	nameByID := make(map[string]string, len(competitors))
	for _, competitor := range competitors {
		name := strings.TrimSpace(competitor.Name)
		id := strings.TrimSpace(competitor.ID)
		if name == "" || id == "" {
			continue
		}
		lowered := strings.ToLower(name)
		cc.names = append(cc.names, name)
		cc.idByName[lowered] = id
		cc.aliasesByName[lowered] = []string{name}
		nameByID[id] = lowered
	}

	aliases, err := store.ListAliases(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load competitor aliases: %w", err)
	}
	for _, row := range aliases {
		alias := strings.TrimSpace(row.Alias)
		name, ok := nameByID[strings.TrimSpace(row.CompetitorID)]
		if alias == "" || !ok {
			continue
		}
		existing := cc.aliasesByName[name]
		duplicate := false
		for _, have := range existing {
			if strings.EqualFold(have, alias) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			cc.aliasesByName[name] = append(existing, alias)
		}
	}
	return cc, nil
}

// detectionContext returns the compiled specs and patterns for a brand term
// list, building and caching them per distinct lowercase term tuple.
// Recomputing would be wasteful but not unsafe.
func (w *Worker) detectionContext(ourTerms []string) ([]matcher.EntitySpec, map[string][]matcher.Pattern) {
	keyParts := make([]string, len(ourTerms))
	for i, term := range ourTerms {
		keyParts[i] = strings.ToLower(term)
	}
	key := strings.Join(keyParts, "\x1f")

	if specs, ok := w.specCache[key]; ok {
		if patterns, ok := w.patternCache[key]; ok {
			return specs, patterns
		}
	}

	specs := matcher.BuildEntitySpecs(ourTerms, w.entityCtx.names, w.entityCtx.aliasesByName)
	patterns := matcher.CompileEntityPatterns(specs)
	w.specCache[key] = specs
	w.patternCache[key] = patterns
	return specs, patterns
}
