package repository

import (
	"context"
	"testing"

	"github.com/mentionlab/benchworker/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.BenchmarkJob{},
		&domain.BenchmarkResponse{},
		&domain.ResponseMention{},
		&domain.Competitor{},
		&domain.CompetitorAlias{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestResponseUpsertConverges(t *testing.T) {
	db := newTestDB(t)
	repo := NewResponseRepository(db)
	ctx := context.Background()

	first := &domain.BenchmarkResponse{
		RunID:        "run-1",
		QueryID:      10,
		RunIteration: 1,
		Model:        "gpt-4o-mini",
		ResponseText: "first attempt",
		TotalTokens:  5,
	}
	firstID, err := repo.Upsert(ctx, first)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if firstID == 0 {
		t.Fatal("expected a resolved response id")
	}

	second := &domain.BenchmarkResponse{
		RunID:        "run-1",
		QueryID:      10,
		RunIteration: 1,
		Model:        "gpt-4o-mini",
		ResponseText: "second attempt",
		TotalTokens:  9,
	}
	secondID, err := repo.Upsert(ctx, second)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if secondID != firstID {
		t.Errorf("expected converged id %d, got %d", firstID, secondID)
	}

	var count int64
	if err := db.Model(&domain.BenchmarkResponse{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 row, got %d", count)
	}

	var stored domain.BenchmarkResponse
	if err := db.First(&stored, "id = ?", firstID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.ResponseText != "second attempt" || stored.TotalTokens != 9 {
		t.Errorf("expected updated columns, got %+v", stored)
	}
}

func TestResponseUpsertDistinctModels(t *testing.T) {
	db := newTestDB(t)
	repo := NewResponseRepository(db)
	ctx := context.Background()

	// Multiple models may share a run/query/iteration triple.
	for _, model := range []string{"gpt-4o-mini", "claude-3-haiku"} {
		_, err := repo.Upsert(ctx, &domain.BenchmarkResponse{
			RunID: "run-1", QueryID: 10, RunIteration: 1, Model: model,
		})
		if err != nil {
			t.Fatalf("upsert %s: %v", model, err)
		}
	}

	var count int64
	if err := db.Model(&domain.BenchmarkResponse{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("expected 2 rows, got %d", count)
	}
}

func TestMentionUpsertConverges(t *testing.T) {
	db := newTestDB(t)
	repo := NewMentionRepository(db)
	ctx := context.Background()

	mentions := []domain.ResponseMention{
		{ResponseID: 1, CompetitorID: "comp-a", Mentioned: false},
		{ResponseID: 1, CompetitorID: "comp-b", Mentioned: true},
	}
	if err := repo.UpsertBatch(ctx, mentions); err != nil {
		t.Fatalf("first batch: %v", err)
	}

	flipped := []domain.ResponseMention{
		{ResponseID: 1, CompetitorID: "comp-a", Mentioned: true},
	}
	if err := repo.UpsertBatch(ctx, flipped); err != nil {
		t.Fatalf("second batch: %v", err)
	}

	var count int64
	if err := db.Model(&domain.ResponseMention{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("expected 2 rows, got %d", count)
	}

	var stored domain.ResponseMention
	if err := db.First(&stored, "response_id = ? AND competitor_id = ?", 1, "comp-a").Error; err != nil {
		t.Fatal(err)
	}
	if !stored.Mentioned {
		t.Error("expected mentioned flag updated to true")
	}
}

func TestJobRepositoryGetByIDMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRepository(db)

	job, err := repo.GetByID(context.Background(), 999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job != nil {
		t.Errorf("expected nil job, got %+v", job)
	}
}

func TestCompetitorListActiveOrdered(t *testing.T) {
	db := newTestDB(t)
	seed := []domain.Competitor{
		{ID: "c2", Name: "chart.js", IsActive: true, SortOrder: 2},
		{ID: "c1", Name: "Highcharts", IsActive: true, SortOrder: 1},
		{ID: "c3", Name: "dimple", IsActive: false, SortOrder: 0},
	}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatal(err)
	}

	repo := NewCompetitorRepository(db)
	competitors, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(competitors) != 2 {
		t.Fatalf("expected 2 active competitors, got %d", len(competitors))
	}
	if competitors[0].Name != "Highcharts" || competitors[1].Name != "chart.js" {
		t.Errorf("unexpected order: %+v", competitors)
	}
}
