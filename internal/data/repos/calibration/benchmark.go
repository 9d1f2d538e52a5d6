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

type BenchmarkRepo interface {
	CreateBatch(dbc dbctx.Context, rows []*types.BenchmarkStat) error
	ListByUserPlatform(dbc dbctx.Context, userID uuid.UUID, platform string) ([]*types.BenchmarkStat, error)
}

type benchmarkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBenchmarkRepo(db *gorm.DB, baseLog *logger.Logger) BenchmarkRepo {
	return &benchmarkRepo{db: db, log: baseLog.With("repo", "BenchmarkRepo")}
}

func (r *benchmarkRepo) CreateBatch(dbc dbctx.Context, rows []*types.BenchmarkStat) error {
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
		if row.CapturedAt.IsZero() {
			row.CapturedAt = now
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
	}
	return t.WithContext(dbc.Ctx).Create(rows).Error
}

// ListByUserPlatform returns only the newest capture per competitor
// channel, so stale imports stop influencing the competitor signal.
func (r *benchmarkRepo) ListByUserPlatform(dbc dbctx.Context, userID uuid.UUID, platform string) ([]*types.BenchmarkStat, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := []*types.BenchmarkStat{}
	if userID == uuid.Nil {
		return out, nil
	}
	rows := []*types.BenchmarkStat{}
	q := t.WithContext(dbc.Ctx).Where("user_id = ?", userID)
	if p := strings.TrimSpace(platform); p != "" {
		q = q.Where("platform = ?", p)
	}
	if err := q.
		Order("captured_at DESC").
		Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	for _, row := range rows {
		key := row.Platform + "|" + row.ChannelRef
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, row)
	}
	return out, nil
}
