package service

import (
	"context"
	"errors"
	"strings"

	"cora-leaf-be/internal/dto"
	"cora-leaf-be/internal/entity"
	"cora-leaf-be/internal/pkg/logger"
	"cora-leaf-be/internal/repository/contract"
	"cora-leaf-be/internal/repository/specification"
)

const (
	defaultAuditPageSize = 20
	maxAuditPageSize     = 100
)

type AuditQuery struct {
	Customer string
	Outcome  string
	Limit    int
	Offset   int
}

type IAuditService interface {
	Decisions(ctx context.Context, query AuditQuery) (*dto.ArchivedDecisionPage, error)
	Logs(ctx context.Context, level string, limit, offset int) ([]logger.LogEntry, error)
	Log(ctx context.Context, id string) (*logger.LogEntry, error)
}

type auditService struct {
	archive  contract.AuditRepository
	auditLog logger.ILogger
}

// NewAuditService reads the archive and the audit log. archive may be nil
// when no database is configured.
func NewAuditService(archive contract.AuditRepository, auditLog logger.ILogger) IAuditService {
	return &auditService{
		archive:  archive,
		auditLog: auditLog,
	}
}

func (a *auditService) Decisions(ctx context.Context, query AuditQuery) (*dto.ArchivedDecisionPage, error) {
	if a.archive == nil {
		return nil, entity.ErrArchiveUnavailable
	}

	limit, offset := clampPage(query.Limit, query.Offset)

	var filters []specification.Specification
	if name := strings.TrimSpace(query.Customer); name != "" {
		filters = append(filters, specification.ByCustomer{Name: name})
	}
	if outcome := strings.TrimSpace(query.Outcome); outcome != "" {
		filters = append(filters, specification.ByOutcome{Outcome: outcome})
	}

	total, err := a.archive.CountDecisions(ctx, filters...)
	if err != nil {
		return nil, err
	}

	specs := append(filters,
		specification.OrderBy{Field: "decided_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	records, err := a.archive.FindDecisions(ctx, specs...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ArchivedDecisionResponse, 0, len(records))
	for _, r := range records {
		items = append(items, dto.ArchivedDecisionResponse{
			SessionId:        r.SessionId,
			DecisionResponse: dto.NewDecisionResponse(r.DecisionRecord),
		})
	}

	return &dto.ArchivedDecisionPage{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

func (a *auditService) Logs(ctx context.Context, level string, limit, offset int) ([]logger.LogEntry, error) {
	limit, offset = clampPage(limit, offset)
	return a.auditLog.GetLogs(level, limit, offset)
}

func (a *auditService) Log(ctx context.Context, id string) (*logger.LogEntry, error) {
	entry, err := a.auditLog.GetLogById(id)
	if errors.Is(err, logger.ErrLogNotFound) {
		return nil, entity.NewNotFoundError("audit log", id)
	}
	return entry, err
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultAuditPageSize
	}
	if limit > maxAuditPageSize {
		limit = maxAuditPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
