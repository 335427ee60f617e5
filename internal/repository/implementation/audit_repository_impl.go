package implementation

import (
	"context"

	"cora-leaf-be/internal/entity"
	"cora-leaf-be/internal/mapper"
	"cora-leaf-be/internal/model"
	"cora-leaf-be/internal/repository/contract"
	"cora-leaf-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuditRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AuditMapper
}

func NewAuditRepository(db *gorm.DB) contract.AuditRepository {
	return &AuditRepositoryImpl{
		db:     db,
		mapper: mapper.NewAuditMapper(),
	}
}

func (r *AuditRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AuditRepositoryImpl) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&model.DecisionAudit{}, &model.EmailDispatch{})
}

// SaveDecision ignores a record whose id is already archived, so redelivered
// events are harmless.
func (r *AuditRepositoryImpl) SaveDecision(ctx context.Context, sessionId uuid.UUID, record *entity.DecisionRecord) error {
	m := r.mapper.DecisionToModel(sessionId, record)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(m).Error
}

func (r *AuditRepositoryImpl) SaveEmail(ctx context.Context, sessionId uuid.UUID, record *entity.EmailRecord) error {
	m := r.mapper.EmailToModel(sessionId, record)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(m).Error
}

func (r *AuditRepositoryImpl) FindDecisions(ctx context.Context, specs ...specification.Specification) ([]*entity.ArchivedDecision, error) {
	var models []*model.DecisionAudit
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.DecisionAudit{}), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	result := make([]*entity.ArchivedDecision, 0, len(models))
	for _, m := range models {
		result = append(result, r.mapper.DecisionToEntity(m))
	}
	return result, nil
}

func (r *AuditRepositoryImpl) CountDecisions(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.DecisionAudit{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AuditRepositoryImpl) FindEmails(ctx context.Context, specs ...specification.Specification) ([]*entity.ArchivedEmail, error) {
	var models []*model.EmailDispatch
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.EmailDispatch{}), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	result := make([]*entity.ArchivedEmail, 0, len(models))
	for _, m := range models {
		result = append(result, r.mapper.EmailToEntity(m))
	}
	return result, nil
}
