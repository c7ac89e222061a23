package mocks

import (
	"context"
	"sync"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

// MockReportRepository stores reports in memory, newest first.
type MockReportRepository struct {
	mu         sync.Mutex
	reports    []domain.FluencyReport
	SaveFunc   func(ctx context.Context, report *domain.FluencyReport) error
	FindByIDFunc   func(ctx context.Context, id string) (*domain.FluencyReport, error)
	FindRecentFunc func(ctx context.Context, scenario domain.Scenario, limit, offset int) ([]domain.FluencyReport, error)
}

func NewMockReportRepository() *MockReportRepository {
	return &MockReportRepository{}
}

func (m *MockReportRepository) Save(ctx context.Context, report *domain.FluencyReport) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, report)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append([]domain.FluencyReport{*report}, m.reports...)
	return nil
}

func (m *MockReportRepository) FindByID(ctx context.Context, id string) (*domain.FluencyReport, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.reports {
		if m.reports[i].ID == id {
			report := m.reports[i]
			return &report, nil
		}
	}
	return nil, nil
}

func (m *MockReportRepository) FindRecent(ctx context.Context, scenario domain.Scenario, limit, offset int) ([]domain.FluencyReport, error) {
	if m.FindRecentFunc != nil {
		return m.FindRecentFunc(ctx, scenario, limit, offset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.FluencyReport
	for _, r := range m.reports {
		if scenario != "" && r.Scenario != scenario {
			continue
		}
		out = append(out, r)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Saved returns a copy of everything stored so far.
func (m *MockReportRepository) Saved() []domain.FluencyReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.FluencyReport, len(m.reports))
	copy(out, m.reports)
	return out
}
