package worker

import (
	"context"
	"time"

	"github.com/mentionlab/benchworker/internal/logger"
)

// Run polls the queue until the context is canceled or the queue stays empty
// for the idle ceiling. A clean idle exit returns nil so the process can
// terminate with status zero and let the platform scale the worker to zero.
// Parameters:
//   - ctx: context whose cancellation stops the loop.
// Returns:
//   - error: context error on cancellation, nil on idle exit.
func (w *Worker) Run(ctx context.Context) error {
	log := w.log.WithFields(logger.Fields{logger.FieldWorkerID: w.id})
	log.WithFields(logger.Fields{
		"poll_batch_size":    w.pollBatchSize,
		"empty_sleep":        w.emptySleep.String(),
		"idle_exit":          w.idleExit.String(),
		"active_competitors": len(w.entityCtx.names),
	}).Info("Worker started")

	lastActivity := time.Now()
	for {
		if err := ctx.Err(); err != nil {
			log.Info("Worker stopping on context cancellation")
			return err
		}

		messages, err := w.queue.Read(ctx, w.pollBatchSize)
		if err != nil {
			// A failed poll is treated as an empty one. The message stays
			// invisible until its visibility timeout lapses, so nothing is
			// lost by waiting out the next cycle.
			log.WithError(err).Error("Failed to read from queue")
			messages = nil
		}

		if len(messages) == 0 {
			idle := time.Since(lastActivity)
			if idle >= w.idleExit {
				log.WithFields(logger.Fields{
					logger.FieldDurationMs: idle.Milliseconds(),
				}).Info("Queue idle past ceiling; exiting cleanly")
				return nil
			}
			if err := sleepCtx(ctx, w.emptySleep); err != nil {
				log.Info("Worker stopping on context cancellation")
				return err
			}
			continue
		}

		lastActivity = time.Now()
		logger.With(logger.Fields{logger.FieldCount: len(messages)}).
			Debug(ctx, "Claimed %d queue messages", len(messages))

		for _, msg := range messages {
			if err := w.ProcessMessage(ctx, msg); err != nil {
				// Persistence failed mid-job. The message was deliberately
				// left unarchived, so re-delivery after the visibility
				// timeout retries it.
				log.WithFields(logger.Fields{
					logger.FieldMsgID: msg.MsgID,
				}).WithError(err).Error("Aborted message processing; leaving message for re-delivery")
			}
		}
	}
}

// sleepCtx sleeps for d unless the context is canceled first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
