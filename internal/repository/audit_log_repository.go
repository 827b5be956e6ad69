package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

// 1つのリソース（注文など）の変更履歴を引く条件
type AuditLogFilter struct {
	ResourceType model.AuditResourceType
	ResourceID   int64
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	//新しい順
	ListByResource(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
