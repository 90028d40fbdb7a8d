package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// ============================================
// Standard Tracing Fields (Context level)
// These fields are propagated through the call chain
// ============================================

const (
	// FieldWorkerID is the unique ID of this worker process (UUID)
	FieldWorkerID = "worker_id"

	// FieldRunID is the benchmark run ID
	FieldRunID = "run_id"

	// FieldJobID is the benchmark job ID
	FieldJobID = "job_id"

	// FieldMsgID is the queue message ID
	FieldMsgID = "msg_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldQueue is the queue name
	FieldQueue = "queue"
)

// ============================================
// Standard Metric Fields (Entry level)
// These fields are used for aggregation and alerting
// ============================================

const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldStatus is the operation status
	FieldStatus = "status"

	// FieldProvider is the LLM provider name
	FieldProvider = "provider"

	// FieldModel is the LLM model identifier
	FieldModel = "model"

	// FieldResponseID is the persisted benchmark response ID
	FieldResponseID = "response_id"
)
