package calibration

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/scriptpulse-backend/internal/domain"
	"github.com/yungbote/scriptpulse-backend/internal/platform/dbctx"
	"github.com/yungbote/scriptpulse-backend/internal/platform/logger"
)

type OutcomeRepo interface {
	Create(dbc dbctx.Context, row *types.OutcomeRecord) error
	ListSince(dbc dbctx.Context, userID uuid.UUID, platform string, since time.Time) ([]*types.OutcomeRecord, error)
	ListRecent(dbc dbctx.Context, userID uuid.UUID, platform string, limit int) ([]*types.OutcomeRecord, error)
}

type outcomeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOutcomeRepo(db *gorm.DB, baseLog *logger.Logger) OutcomeRepo {
	return &outcomeRepo{db: db, log: baseLog.With("repo", "OutcomeRepo")}
}

func (r *outcomeRepo) Create(dbc dbctx.Context, row *types.OutcomeRecord) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return t.WithContext(dbc.Ctx).Create(row).Error
}

// ListSince returns outcomes posted at or after the cutoff, oldest first,
// scoped to the user and optionally one platform.
func (r *outcomeRepo) ListSince(dbc dbctx.Context, userID uuid.UUID, platform string, since time.Time) ([]*types.OutcomeRecord, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := []*types.OutcomeRecord{}
	if userID == uuid.Nil {
		return out, nil
	}
	q := t.WithContext(dbc.Ctx).
		Where("user_id = ? AND posted_at >= ?", userID, since.UTC())
	if p := strings.TrimSpace(platform); p != "" {
		q = q.Where("platform = ?", p)
	}
	if err := q.Order("posted_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListRecent returns the latest outcomes by posted_at, newest first.
func (r *outcomeRepo) ListRecent(dbc dbctx.Context, userID uuid.UUID, platform string, limit int) ([]*types.OutcomeRecord, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := []*types.OutcomeRecord{}
	if userID == uuid.Nil {
		return out, nil
	}
	if limit <= 0 {
		limit = 10
	}
	q := t.WithContext(dbc.Ctx).Where("user_id = ?", userID)
	if p := strings.TrimSpace(platform); p != "" {
		q = q.Where("platform = ?", p)
	}
	if err := q.
		Order("posted_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
