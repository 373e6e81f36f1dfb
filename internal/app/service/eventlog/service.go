package eventlog

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DishIs/temp-mail-sub000/internal/models"
	"github.com/DishIs/temp-mail-sub000/pkg/logctx"
	"github.com/DishIs/temp-mail-sub000/pkg/tool"
	"github.com/DishIs/temp-mail-sub000/pkg/types"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// Save asynchronously persists a webhook event log entry. Nil input is
// ignored. The webhook response never waits on the audit write.
func (s *Service) Save(ctx context.Context, entry *models.WebhookEventLog) {
	go func() {
		if entry == nil {
			return
		}
		if entry.ID == "" {
			entry.ID = tool.GenerateUUIDV7()
		}
		if err := s.db.Save(entry).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save webhook event log: %v", err)
		}
	}()
}

type ScanRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanResponse struct {
	Items []*models.WebhookEventLog `json:"items"`
	Total int64                     `json:"total"`
}

// filtersAnd combines multiple CommonFilter into a single clause.Expression.
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

// Scan implements paginated listing for the admin event-log page.
func (s *Service) Scan(ctx context.Context, req *ScanRequest) (*ScanResponse, error) {
	if req == nil {
		req = &ScanRequest{}
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.WebhookEventLog{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: sortBy}, Desc: req.SortOrder != "asc"}}})

	var rows []*models.WebhookEventLog
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return &ScanResponse{Items: rows, Total: total}, nil
}
