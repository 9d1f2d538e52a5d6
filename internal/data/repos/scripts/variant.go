package scripts

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/scriptpulse-backend/internal/domain"
	"github.com/yungbote/scriptpulse-backend/internal/platform/dbctx"
	"github.com/yungbote/scriptpulse-backend/internal/platform/logger"
)

type VariantRepo interface {
	CreateBatch(dbc dbctx.Context, rows []*types.ScriptVariant) error
	GetByID(dbc dbctx.Context, userID, id uuid.UUID) (*types.ScriptVariant, error)
	ListByBatch(dbc dbctx.Context, userID, batchID uuid.UUID) ([]*types.ScriptVariant, error)
}

type variantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVariantRepo(db *gorm.DB, baseLog *logger.Logger) VariantRepo {
	return &variantRepo{db: db, log: baseLog.With("repo", "VariantRepo")}
}

func (r *variantRepo) CreateBatch(dbc dbctx.Context, rows []*types.ScriptVariant) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
	}
	return t.WithContext(dbc.Ctx).Create(rows).Error
}

func (r *variantRepo) GetByID(dbc dbctx.Context, userID, id uuid.UUID) (*types.ScriptVariant, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || id == uuid.Nil {
		return nil, nil
	}
	var out types.ScriptVariant
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

func (r *variantRepo) ListByBatch(dbc dbctx.Context, userID, batchID uuid.UUID) ([]*types.ScriptVariant, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := []*types.ScriptVariant{}
	if userID == uuid.Nil || batchID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ? AND batch_id = ?", userID, batchID).
		Order("rank ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
