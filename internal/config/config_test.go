package config

import (
	"testing"
	"time"
)

func TestClamp(t *testing.T) {
	cfg := &Config{
		Worker: WorkerConfig{
			QueueName:         "  ",
			VisibilitySeconds: 5,
			PollBatchSize:     50,
			EmptySleepSeconds: 0.1,
			IdleExitSeconds:   10,
		},
	}
	cfg.clamp()

	if cfg.Worker.QueueName != "benchmark_jobs" {
		t.Errorf("queue name = %q", cfg.Worker.QueueName)
	}
	if cfg.Worker.VisibilitySeconds != 15 {
		t.Errorf("visibility = %d", cfg.Worker.VisibilitySeconds)
	}
	if cfg.Worker.PollBatchSize != 10 {
		t.Errorf("batch size = %d", cfg.Worker.PollBatchSize)
	}
	if cfg.Worker.EmptySleepSeconds != 1 {
		t.Errorf("empty sleep = %v", cfg.Worker.EmptySleepSeconds)
	}
	if cfg.Worker.IdleExitSeconds != 30 {
		t.Errorf("idle exit = %d", cfg.Worker.IdleExitSeconds)
	}
}

func TestClampLeavesValidValues(t *testing.T) {
	cfg := &Config{
		Worker: WorkerConfig{
			QueueName:         "benchmark_jobs_eu",
			VisibilitySeconds: 120,
			PollBatchSize:     5,
			EmptySleepSeconds: 2.5,
			IdleExitSeconds:   600,
		},
	}
	cfg.clamp()

	if cfg.Worker.QueueName != "benchmark_jobs_eu" {
		t.Errorf("queue name = %q", cfg.Worker.QueueName)
	}
	if cfg.Worker.EmptySleep() != 2500*time.Millisecond {
		t.Errorf("empty sleep = %v", cfg.Worker.EmptySleep())
	}
	if cfg.Worker.IdleExit() != 10*time.Minute {
		t.Errorf("idle exit = %v", cfg.Worker.IdleExit())
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	if err := cfg.validate(); err == nil {
		t.Error("expected missing SUPABASE_URL error")
	}

	cfg.Supabase.URL = "https://project.supabase.co"
	if err := cfg.validate(); err == nil {
		t.Error("expected missing SUPABASE_SERVICE_ROLE_KEY error")
	}

	cfg.Supabase.ServiceRoleKey = "service-role"
	if err := cfg.validate(); err == nil {
		t.Error("expected missing DATABASE_URL error")
	}

	cfg.Database.DSN = "postgres://localhost/bench"
	if err := cfg.validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}
