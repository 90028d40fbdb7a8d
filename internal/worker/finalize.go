package worker

import (
	"context"
	"strings"

	"github.com/mentionlab/benchworker/internal/logger"
)

// maybeFinalizeRun finalizes a benchmark run once every job in it is
// terminal. It is called after each archived message, so a run is finalized
// by whichever worker archives its last job. Finalization is idempotent on
// the database side; errors are logged and swallowed because the job itself
// already succeeded.
func (w *Worker) maybeFinalizeRun(ctx context.Context, runID string) {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return
	}
	log := w.log.WithFields(logger.Fields{logger.FieldRunID: runID})

	progress, err := w.progress.GetRunProgress(ctx, runID)
	if err != nil {
		log.WithError(err).Warn("Failed to read run progress; skipping finalization check")
		return
	}
	if progress == nil {
		log.Warn("No progress row for run; skipping finalization check")
		return
	}
	if !progress.AllTerminal() {
		return
	}

	finalized, err := w.queue.FinalizeRun(ctx, runID)
	if err != nil {
		log.WithError(err).Warn("Failed to finalize benchmark run")
		return
	}
	if finalized {
		log.WithFields(logger.Fields{
			logger.FieldCount: progress.TotalJobs,
		}).Info("Finalized benchmark run")
	}
}
