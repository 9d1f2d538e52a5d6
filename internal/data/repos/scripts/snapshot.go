package scripts

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/scriptpulse-backend/internal/domain"
	"github.com/yungbote/scriptpulse-backend/internal/platform/dbctx"
	"github.com/yungbote/scriptpulse-backend/internal/platform/logger"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type SnapshotRepo interface {
	Create(dbc dbctx.Context, row *types.DraftSnapshot) error
	GetByID(dbc dbctx.Context, userID, id uuid.UUID) (*types.DraftSnapshot, error)
	ListByUserPlatform(dbc dbctx.Context, userID uuid.UUID, platform string, limit int) ([]*types.DraftSnapshot, error)
	MarkPublished(dbc dbctx.Context, userID, id uuid.UUID, at time.Time) (bool, error)
}

type snapshotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) SnapshotRepo {
	return &snapshotRepo{db: db, log: baseLog.With("repo", "SnapshotRepo")}
}

func (r *snapshotRepo) Create(dbc dbctx.Context, row *types.DraftSnapshot) error {
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

func (r *snapshotRepo) GetByID(dbc dbctx.Context, userID, id uuid.UUID) (*types.DraftSnapshot, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || id == uuid.Nil {
		return nil, nil
	}
	var out types.DraftSnapshot
	err := t.WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByUserPlatform returns the newest snapshots first. Ties on the
// timestamp fall back to id so the order is stable.
func (r *snapshotRepo) ListByUserPlatform(dbc dbctx.Context, userID uuid.UUID, platform string, limit int) ([]*types.DraftSnapshot, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := []*types.DraftSnapshot{}
	if userID == uuid.Nil {
		return out, nil
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	q := t.WithContext(dbc.Ctx).Where("user_id = ?", userID)
	if p := strings.TrimSpace(platform); p != "" {
		q = q.Where("platform = ?", p)
	}
	if err := q.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// MarkPublished stamps the advisory publish marker. It reports whether a
// row was touched; score fields are never updated.
func (r *snapshotRepo) MarkPublished(dbc dbctx.Context, userID, id uuid.UUID, at time.Time) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || id == uuid.Nil {
		return false, nil
	}
	res := t.WithContext(dbc.Ctx).
		Model(&types.DraftSnapshot{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("marked_published_at", at.UTC())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
