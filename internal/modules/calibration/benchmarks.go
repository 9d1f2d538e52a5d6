package calibration

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/scriptpulse-backend/internal/domain"
	"github.com/yungbote/scriptpulse-backend/internal/platform/apierr"
	"github.com/yungbote/scriptpulse-backend/internal/platform/dbctx"
)

type BenchmarkRowInput struct {
	ChannelRef       string    `json:"channel_ref"`
	MedianViews      int64     `json:"median_views"`
	EngagementRate   float64   `json:"engagement_rate"`
	TypicalDurationS float64   `json:"typical_duration_s"`
	SampleVideos     int       `json:"sample_videos"`
	CapturedAt       time.Time `json:"captured_at"`
}

type ImportBenchmarksInput struct {
	UserID   uuid.UUID
	Platform string
	Rows     []BenchmarkRowInput
}

// ImportBenchmarks stores competitor aggregates captured by the external
// fetcher. This backend never fetches platform data itself; it only holds
// what the fetcher hands over and serves it to the competitor channel.
func (u Usecases) ImportBenchmarks(ctx context.Context, in ImportBenchmarksInput) ([]*types.BenchmarkStat, error) {
	if in.UserID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	platform := strings.ToLower(strings.TrimSpace(in.Platform))
	if platform == "" {
		return nil, apierr.New(http.StatusBadRequest, "missing_platform", nil)
	}
	if len(in.Rows) == 0 {
		return nil, apierr.New(http.StatusBadRequest, "empty_benchmark_rows", nil)
	}

	now := time.Now().UTC()
	rows := make([]*types.BenchmarkStat, 0, len(in.Rows))
	for i, r := range in.Rows {
		if err := validateBenchmarkRow(r); err != nil {
			return nil, apierr.New(http.StatusBadRequest, "invalid_benchmark_row", fmt.Errorf("row %d: %w", i, err))
		}
		capturedAt := r.CapturedAt
		if capturedAt.IsZero() {
			capturedAt = now
		}
		rows = append(rows, &types.BenchmarkStat{
			ID:               uuid.New(),
			UserID:           in.UserID,
			Platform:         platform,
			ChannelRef:       strings.TrimSpace(r.ChannelRef),
			MedianViews:      r.MedianViews,
			EngagementRate:   r.EngagementRate,
			TypicalDurationS: r.TypicalDurationS,
			SampleVideos:     r.SampleVideos,
			CapturedAt:       capturedAt.UTC(),
			CreatedAt:        now,
		})
	}

	if err := u.deps.Benchmarks.CreateBatch(dbctx.Context{Ctx: ctx}, rows); err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "benchmark_save_failed", err)
	}
	if u.deps.Cache != nil {
		u.deps.Cache.Invalidate(ctx, in.UserID.String(), platform)
	}
	return rows, nil
}

func validateBenchmarkRow(r BenchmarkRowInput) error {
	if strings.TrimSpace(r.ChannelRef) == "" {
		return fmt.Errorf("missing channel_ref")
	}
	if r.MedianViews < 0 || r.SampleVideos < 0 {
		return fmt.Errorf("counts must be non-negative")
	}
	if r.EngagementRate < 0 || math.IsNaN(r.EngagementRate) || math.IsInf(r.EngagementRate, 0) {
		return fmt.Errorf("engagement_rate must be a non-negative finite number")
	}
	if r.TypicalDurationS < 0 || math.IsNaN(r.TypicalDurationS) || math.IsInf(r.TypicalDurationS, 0) {
		return fmt.Errorf("typical_duration_s must be a non-negative finite number")
	}
	return nil
}
