package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/mentionlab/benchworker/internal/domain"
	"github.com/mentionlab/benchworker/internal/logger"
	"github.com/mentionlab/benchworker/internal/matcher"
	"github.com/mentionlab/benchworker/internal/provider"
	"github.com/mentionlab/benchworker/internal/queue"
	"github.com/mentionlab/benchworker/internal/retry"
)

// Validation failures count against the job's attempt budget like any other
// provider-side failure, so an unfixable job drains to dead_letter instead of
// cycling through the queue forever.
var (
	errMissingModel = errors.New("job has no model configured")
	errMissingQuery = errors.New("job has no query text")
)

// jobResult is the outcome of one successful provider call, ready to
// persist.
type jobResult struct {
	provider   provider.Provider
	modelOwner string
	webSearch  bool
	durationMs int
	response   *provider.Response
	specs      []matcher.EntitySpec
	mentions   map[string]bool
}

// ProcessMessage drives one claimed queue message through the job state
// machine. A returned error means persistence failed mid-flight: the message
// is intentionally left unarchived so a later claim retries the job, which
// is safe because every write is an idempotent upsert. Provider failures are
// not errors here; they are recorded on the job.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - msg: claimed queue message.
// Returns:
//   - error: non-nil only when a persistence or archive call failed.
func (w *Worker) ProcessMessage(ctx context.Context, msg queue.Message) error {
	log := w.log.WithFields(logger.Fields{logger.FieldMsgID: msg.MsgID})

	jobID := msg.JobID()
	if jobID <= 0 {
		// Malformed payloads are archived without side effects, never retried.
		log.WithField("payload", string(msg.Payload)).Warn("Skipping malformed queue payload")
		return w.queue.Archive(ctx, msg.MsgID)
	}
	log = log.WithFields(logger.Fields{logger.FieldJobID: jobID})

	job, err := w.jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		log.Warn("Job row missing; archiving message")
		return w.queue.Archive(ctx, msg.MsgID)
	}

	runID := strings.TrimSpace(job.RunID)
	log = log.WithFields(logger.Fields{logger.FieldRunID: runID})

	if job.Status.IsTerminal() {
		// Duplicate delivery under at-least-once semantics: the provider is
		// not re-invoked, but the message still needs archival and the run a
		// finalization check.
		log.WithField("status", string(job.Status)).Info("Job already terminal; archiving duplicate delivery")
		if err := w.queue.Archive(ctx, msg.MsgID); err != nil {
			return err
		}
		w.maybeFinalizeRun(ctx, runID)
		return nil
	}

	attempt := job.AttemptCount + 1
	maxAttempts := job.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	now := time.Now().UTC()
	err = w.jobs.Update(ctx, job.ID, map[string]interface{}{
		"status":        domain.JobStatusProcessing,
		"attempt_count": attempt,
		"started_at":    now,
		"last_error":    nil,
	})
	if err != nil {
		return err
	}

	result, execErr := w.executeJob(ctx, log, job)
	if execErr != nil {
		return w.recordFailure(ctx, log, job, msg, attempt, maxAttempts, execErr)
	}

	responseID, err := w.persistResult(ctx, job, result, nil)
	if err != nil {
		return err
	}

	err = w.jobs.Update(ctx, job.ID, map[string]interface{}{
		"status":       domain.JobStatusCompleted,
		"response_id":  responseID,
		"completed_at": time.Now().UTC(),
		"last_error":   nil,
	})
	if err != nil {
		return err
	}
	if err := w.queue.Archive(ctx, msg.MsgID); err != nil {
		return err
	}
	w.maybeFinalizeRun(ctx, runID)

	log.WithFields(logger.Fields{
		logger.FieldResponseID: responseID,
		logger.FieldDurationMs: result.durationMs,
	}).Info("Completed job")
	return nil
}

// executeJob runs the provider call for a claimed job and scores the result.
// Every error returned here counts as a job attempt failure, including
// validation and configuration problems, so a bad job eventually dead
// letters instead of looping forever.
func (w *Worker) executeJob(ctx context.Context, log *logger.Logger, job *domain.BenchmarkJob) (*jobResult, error) {
	model := strings.TrimSpace(job.Model)
	if model == "" {
		return nil, errMissingModel
	}
	queryText := strings.TrimSpace(job.QueryText)
	if queryText == "" {
		return nil, errMissingQuery
	}

	p := provider.ParseProvider(job.Provider, model)
	webSearch := job.WebSearchEnabled && p == provider.ProviderOpenAI
	if job.WebSearchEnabled && !webSearch {
		// Only the OpenAI variant supports the web-search tool; warn the
		// operator instead of failing the job.
		log.WithField("provider", string(p)).Warn("Web search is not supported for this provider; ignoring")
	}

	ourTerms := matcher.NormalizeTerms(job.OurTerms)
	specs, patterns := w.detectionContext(ourTerms)

	client, err := w.clients.ClientFor(p)
	if err != nil {
		return nil, err
	}

	req := provider.GenerateRequest{
		Model:        model,
		SystemPrompt: provider.SystemPrompt,
		UserPrompt:   provider.UserPrompt(queryText),
		Temperature:  temperatureOrDefault(job.Temperature),
		WebSearch:    webSearch,
	}

	started := time.Now()
	var response *provider.Response
	err = retry.Do(ctx, func() error {
		generated, genErr := client.Generate(ctx, req)
		if genErr != nil {
			return genErr
		}
		response = generated
		return nil
	})
	if err != nil {
		return nil, err
	}
	durationMs := int(time.Since(started).Milliseconds())

	return &jobResult{
		provider:   p,
		modelOwner: provider.ModelOwner(p),
		webSearch:  webSearch,
		durationMs: durationMs,
		response:   response,
		specs:      specs,
		mentions:   matcher.DetectMentions(response.Text, patterns),
	}, nil
}

// recordFailure marks the failed attempt on the job. Terminal failures also
// persist an empty response row carrying the error text, so analytics see
// one row per attempted job, then archive the message. Non-terminal
// failures leave the message unarchived for re-delivery.
func (w *Worker) recordFailure(ctx context.Context, log *logger.Logger, job *domain.BenchmarkJob, msg queue.Message, attempt, maxAttempts int, execErr error) error {
	terminal := attempt >= maxAttempts
	errorText := execErr.Error()

	fields := map[string]interface{}{
		"status":     domain.JobStatusFailed,
		"last_error": errorText,
	}
	if terminal {
		fields["status"] = domain.JobStatusDeadLetter
		fields["completed_at"] = time.Now().UTC()
	}
	if err := w.jobs.Update(ctx, job.ID, fields); err != nil {
		return err
	}

	log.WithFields(logger.Fields{
		"attempt":      attempt,
		"max_attempts": maxAttempts,
		"terminal":     terminal,
	}).WithError(execErr).Error("Job attempt failed")

	if !terminal {
		return nil
	}

	responseID, err := w.persistResult(ctx, job, &jobResult{
		provider:   provider.ParseProvider(job.Provider, job.Model),
		modelOwner: provider.ModelOwner(provider.ParseProvider(job.Provider, job.Model)),
		webSearch:  false,
		response:   &provider.Response{Citations: []provider.Citation{}},
	}, &errorText)
	if err != nil {
		return err
	}
	err = w.jobs.Update(ctx, job.ID, map[string]interface{}{
		"response_id": responseID,
	})
	if err != nil {
		return err
	}
	if err := w.queue.Archive(ctx, msg.MsgID); err != nil {
		return err
	}
	w.maybeFinalizeRun(ctx, strings.TrimSpace(job.RunID))
	return nil
}

// persistResult upserts the response row and, for successful results, the
// per-competitor mention rows. The upsert keys make re-processing converge
// instead of duplicating rows.
func (w *Worker) persistResult(ctx context.Context, job *domain.BenchmarkJob, result *jobResult, errorText *string) (int64, error) {
	iteration := job.RunIteration
	if iteration < 1 {
		iteration = 1
	}

	citations, err := json.Marshal(result.response.Citations)
	if err != nil {
		return 0, err
	}

	response := &domain.BenchmarkResponse{
		RunID:            job.RunID,
		QueryID:          job.QueryID,
		RunIteration:     iteration,
		Model:            strings.TrimSpace(job.Model),
		ModelRunID:       iteration,
		Provider:         string(result.provider),
		ModelOwner:       result.modelOwner,
		WebSearchEnabled: result.webSearch,
		DurationMs:       maxInt(0, result.durationMs),
		PromptTokens:     maxInt(0, result.response.Usage.PromptTokens),
		CompletionTokens: maxInt(0, result.response.Usage.CompletionTokens),
		TotalTokens:      maxInt(0, result.response.Usage.TotalTokens),
		ResponseText:     result.response.Text,
		Citations:        string(citations),
		Error:            errorText,
	}
	responseID, err := w.responses.Upsert(ctx, response)
	if err != nil {
		return 0, err
	}

	if len(result.mentions) > 0 {
		var rows []domain.ResponseMention
		for _, spec := range result.specs {
			if !spec.IsCompetitor {
				continue
			}
			competitorID, ok := w.entityCtx.idByName[strings.ToLower(spec.Label)]
			if !ok {
				continue
			}
			rows = append(rows, domain.ResponseMention{
				ResponseID:   responseID,
				CompetitorID: competitorID,
				Mentioned:    result.mentions[spec.Key],
			})
		}
		if err := w.mentions.UpsertBatch(ctx, rows); err != nil {
			return 0, err
		}
	}
	return responseID, nil
}

func temperatureOrDefault(temperature float64) float64 {
	if temperature == 0 {
		return 0.7
	}
	return temperature
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
