package integration

import (
	"context"
	"testing"
	"time"

	pgadapter "github.com/speakeasy-labs/fluency-service/internal/adapter/storage/postgres"
	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

func sampleReport(id string, scenario domain.Scenario, score float64) *domain.FluencyReport {
	return &domain.FluencyReport{
		ID:             id,
		Scenario:       scenario,
		ClaimedLevel:   domain.LevelB1,
		EstimatedLevel: domain.LevelB1,
		Score:          score,
		Band:           domain.BandProficient,
		Breakdown: domain.MetricsBreakdown{
			Pronunciation: domain.AnalysisResult{Score: score},
			Temporal:      domain.AnalysisResult{Score: score},
			Lexical:       domain.AnalysisResult{Score: score},
			Disfluency:    domain.AnalysisResult{Score: score},
			Prosodic:      domain.AnalysisResult{Score: score},
			Communicative: domain.AnalysisResult{Score: score},
		},
		Feedback: domain.FeedbackResult{
			Strengths: []string{"Clear pronunciation"},
			Summary:   "Good work.",
		},
		Transcript: domain.TranscriptResult{
			Text:     "hola buenos días",
			Language: "es",
		},
		ProcessingMS: 120,
		CreatedAt:    time.Now().UTC(),
	}
}

// TestReportRepository_SaveAndFind persists a full report and reads it back.
func TestReportRepository_SaveAndFind(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.DB)

	repo := pgadapter.NewReportRepository(env.DB, env.Logger)
	ctx := context.Background()

	report := sampleReport("rep-save-1", domain.ScenarioGreetings, 82.5)
	if err := repo.Save(ctx, report); err != nil {
		t.Fatalf("Failed to save report: %v", err)
	}

	found, err := repo.FindByID(ctx, "rep-save-1")
	if err != nil {
		t.Fatalf("Failed to find report: %v", err)
	}
	if found == nil {
		t.Fatal("Report not found after save")
	}
	if found.Score != 82.5 {
		t.Errorf("Score = %f, want 82.5", found.Score)
	}
	if found.Scenario != domain.ScenarioGreetings {
		t.Errorf("Scenario = %s, want greetings", found.Scenario)
	}
	if found.Breakdown.Lexical.Score != 82.5 {
		t.Errorf("Breakdown did not survive the round trip: %+v", found.Breakdown)
	}
	if found.Transcript.Text != "hola buenos días" {
		t.Errorf("Transcript = %q", found.Transcript.Text)
	}
	if len(found.Feedback.Strengths) != 1 {
		t.Errorf("Feedback = %+v", found.Feedback)
	}
}

// TestReportRepository_FindByIDMissing returns nil, nil for unknown ids.
func TestReportRepository_FindByIDMissing(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.DB)

	repo := pgadapter.NewReportRepository(env.DB, env.Logger)
	found, err := repo.FindByID(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("Unknown id should not be an error: %v", err)
	}
	if found != nil {
		t.Errorf("Found unexpected report: %+v", found)
	}
}

// TestReportRepository_FindRecent covers ordering, scenario filter and paging.
func TestReportRepository_FindRecent(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.DB)

	repo := pgadapter.NewReportRepository(env.DB, env.Logger)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		scenario := domain.ScenarioGreetings
		if i%2 == 1 {
			scenario = domain.ScenarioFarewells
		}
		r := sampleReport(seedReportID("rep-recent", i), scenario, 70+float64(i))
		r.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := repo.Save(ctx, r); err != nil {
			t.Fatalf("Failed to save report %d: %v", i, err)
		}
	}

	t.Run("NewestFirst", func(t *testing.T) {
		reports, err := repo.FindRecent(ctx, "", 10, 0)
		if err != nil {
			t.Fatalf("FindRecent failed: %v", err)
		}
		if len(reports) != 5 {
			t.Fatalf("Got %d reports, want 5", len(reports))
		}
		if reports[0].ID != seedReportID("rep-recent", 4) {
			t.Errorf("First report = %s, want the newest", reports[0].ID)
		}
	})

	t.Run("ScenarioFilter", func(t *testing.T) {
		reports, err := repo.FindRecent(ctx, domain.ScenarioFarewells, 10, 0)
		if err != nil {
			t.Fatalf("FindRecent failed: %v", err)
		}
		if len(reports) != 2 {
			t.Fatalf("Got %d farewell reports, want 2", len(reports))
		}
		for _, r := range reports {
			if r.Scenario != domain.ScenarioFarewells {
				t.Errorf("Report %s has scenario %s", r.ID, r.Scenario)
			}
		}
	})

	t.Run("LimitAndOffset", func(t *testing.T) {
		page1, err := repo.FindRecent(ctx, "", 2, 0)
		if err != nil {
			t.Fatalf("FindRecent failed: %v", err)
		}
		page2, err := repo.FindRecent(ctx, "", 2, 2)
		if err != nil {
			t.Fatalf("FindRecent failed: %v", err)
		}
		if len(page1) != 2 || len(page2) != 2 {
			t.Fatalf("Pages = %d and %d reports, want 2 each", len(page1), len(page2))
		}
		if page1[0].ID == page2[0].ID {
			t.Error("Pages overlap")
		}
	})
}

// TestReportRepository_SaveIsUpsert re-saving the same id updates in place.
func TestReportRepository_SaveIsUpsert(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.DB)

	repo := pgadapter.NewReportRepository(env.DB, env.Logger)
	ctx := context.Background()

	r := sampleReport("rep-upsert", domain.ScenarioGreetings, 60)
	if err := repo.Save(ctx, r); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	r.Score = 75
	if err := repo.Save(ctx, r); err != nil {
		t.Fatalf("Failed to re-save: %v", err)
	}

	found, err := repo.FindByID(ctx, "rep-upsert")
	if err != nil || found == nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Score != 75 {
		t.Errorf("Score = %f, want the updated 75", found.Score)
	}

	all, err := repo.FindRecent(ctx, "", 10, 0)
	if err != nil {
		t.Fatalf("FindRecent failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Got %d rows after upsert, want 1", len(all))
	}
}
