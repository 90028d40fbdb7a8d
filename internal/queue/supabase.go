package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const rpcTimeout = 30 * time.Second

// SupabaseClient talks to the pgmq RPC wrappers exposed through the Supabase
// REST surface: rpc_pgmq_read, rpc_pgmq_archive, and finalize_benchmark_run.
type SupabaseClient struct {
	client            *resty.Client
	queueName         string
	visibilitySeconds int
}

// SupabaseConfig holds connection settings for the RPC client.
type SupabaseConfig struct {
	URL               string
	ServiceRoleKey    string
	QueueName         string
	VisibilitySeconds int
}

// NewSupabaseClient creates the RPC client.
// Parameters:
//   - cfg: Supabase URL, service-role key, queue name, visibility timeout.
// Returns:
//   - *SupabaseClient: initialized client.
func NewSupabaseClient(cfg *SupabaseConfig) *SupabaseClient {
	client := resty.New()
	client.SetBaseURL(cfg.URL + "/rest/v1/rpc")
	client.SetHeader("apikey", cfg.ServiceRoleKey)
	client.SetHeader("Authorization", "Bearer "+cfg.ServiceRoleKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(rpcTimeout)

	return &SupabaseClient{
		client:            client,
		queueName:         cfg.QueueName,
		visibilitySeconds: cfg.VisibilitySeconds,
	}
}

// Read claims up to maxCount messages, hiding them from other consumers for
// the configured visibility timeout.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - maxCount: batch size limit.
// Returns:
//   - []Message: claimed messages, may be empty.
//   - error: non-nil if the RPC fails.
func (c *SupabaseClient) Read(ctx context.Context, maxCount int) ([]Message, error) {
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"p_queue": c.queueName,
			"p_vt":    c.visibilitySeconds,
			"p_qty":   maxCount,
		}).
		Post("/rpc_pgmq_read")
	if err != nil {
		return nil, fmt.Errorf("failed to read queue %q: %w", c.queueName, err)
	}
	if httpResp.IsError() {
		return nil, fmt.Errorf("failed to read queue %q: status %d: %s",
			c.queueName, httpResp.StatusCode(), httpResp.Body())
	}
	return decodeReadResult(httpResp.Body())
}

// decodeReadResult tolerates the RPC returning null, a single object, or an
// array of rows.
func decodeReadResult(body []byte) ([]Message, error) {
	if len(body) == 0 || string(body) == "null" {
		return nil, nil
	}
	var rows []Message
	if err := json.Unmarshal(body, &rows); err == nil {
		return rows, nil
	}
	var single Message
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, fmt.Errorf("unexpected queue read result: %w", err)
	}
	return []Message{single}, nil
}

// Archive removes a claimed message from the queue permanently.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - msgID: queue message id from Read.
// Returns:
//   - error: non-nil if the RPC fails.
func (c *SupabaseClient) Archive(ctx context.Context, msgID int64) error {
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"p_queue":  c.queueName,
			"p_msg_id": msgID,
		}).
		Post("/rpc_pgmq_archive")
	if err != nil {
		return fmt.Errorf("failed to archive queue message %d: %w", msgID, err)
	}
	if httpResp.IsError() {
		return fmt.Errorf("failed to archive queue message %d: status %d: %s",
			msgID, httpResp.StatusCode(), httpResp.Body())
	}
	return nil
}

// FinalizeRun invokes the idempotent finalize operation for a run. Calling
// it for an already-finalized run is a no-op on the service side.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - runID: run to finalize.
// Returns:
//   - bool: true if this call performed the finalization.
//   - error: non-nil if the RPC fails.
func (c *SupabaseClient) FinalizeRun(ctx context.Context, runID string) (bool, error) {
	var finalized bool
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]any{"p_run_id": runID}).
		SetResult(&finalized).
		Post("/finalize_benchmark_run")
	if err != nil {
		return false, fmt.Errorf("failed to finalize run %s: %w", runID, err)
	}
	if httpResp.IsError() {
		return false, fmt.Errorf("failed to finalize run %s: status %d: %s",
			runID, httpResp.StatusCode(), httpResp.Body())
	}
	return finalized, nil
}
