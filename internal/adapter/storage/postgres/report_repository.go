package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
	"github.com/speakeasy-labs/fluency-service/internal/ports"
)

type ReportRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewReportRepository(db *gorm.DB, log *zap.Logger) ports.ReportRepository {
	return &ReportRepository{
		db:  db,
		log: log,
	}
}

func (r *ReportRepository) Save(ctx context.Context, report *domain.FluencyReport) error {
	return r.db.WithContext(ctx).Save(report).Error
}

func (r *ReportRepository) FindByID(ctx context.Context, id string) (*domain.FluencyReport, error) {
	var report domain.FluencyReport
	err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) FindRecent(ctx context.Context, scenario domain.Scenario, limit, offset int) ([]domain.FluencyReport, error) {
	var reports []domain.FluencyReport
	q := r.db.WithContext(ctx).Order("created_at desc").Limit(limit).Offset(offset)
	if scenario != "" {
		q = q.Where("scenario = ?", scenario)
	}
	err := q.Find(&reports).Error
	return reports, err
}
