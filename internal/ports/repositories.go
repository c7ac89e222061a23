package ports

import (
	"context"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

// ReportRepository persists evaluation reports. Persistence is a
// service-layer concern; the pipeline itself never writes.
type ReportRepository interface {
	Save(ctx context.Context, report *domain.FluencyReport) error
	FindByID(ctx context.Context, id string) (*domain.FluencyReport, error)
	FindRecent(ctx context.Context, scenario domain.Scenario, limit, offset int) ([]domain.FluencyReport, error)
}
