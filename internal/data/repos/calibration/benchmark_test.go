package calibration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/scriptpulse-backend/internal/data/repos/testutil"
	types "github.com/yungbote/scriptpulse-backend/internal/domain"
	"github.com/yungbote/scriptpulse-backend/internal/platform/dbctx"
)

func TestBenchmarkRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewBenchmarkRepo(db, testutil.Logger(t))
	userID := uuid.New()
	now := time.Now().UTC()

	rows := []*types.BenchmarkStat{
		{UserID: userID, Platform: "tiktok", ChannelRef: "@rivals", EngagementRate: 0.05, TypicalDurationS: 28, SampleVideos: 10, CapturedAt: now.Add(-48 * time.Hour)},
		{UserID: userID, Platform: "tiktok", ChannelRef: "@bigshot", EngagementRate: 0.09, TypicalDurationS: 33, SampleVideos: 15, CapturedAt: now.Add(-24 * time.Hour)},
	}
	if err := repo.CreateBatch(dbc, rows); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	// A fresher capture for a channel already on file.
	refresh := []*types.BenchmarkStat{
		{UserID: userID, Platform: "tiktok", ChannelRef: "@rivals", EngagementRate: 0.11, TypicalDurationS: 30, SampleVideos: 12, CapturedAt: now},
	}
	if err := repo.CreateBatch(dbc, refresh); err != nil {
		t.Fatalf("CreateBatch refresh: %v", err)
	}

	list, err := repo.ListByUserPlatform(dbc, userID, "tiktok")
	if err != nil {
		t.Fatalf("ListByUserPlatform: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected one row per channel, got %d", len(list))
	}
	for _, row := range list {
		if row.ChannelRef == "@rivals" && row.EngagementRate != 0.11 {
			t.Fatalf("expected newest capture for @rivals, got rate %v", row.EngagementRate)
		}
	}

	other, err := repo.ListByUserPlatform(dbc, uuid.New(), "tiktok")
	if err != nil {
		t.Fatalf("ListByUserPlatform other user: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no rows for another user, got %d", len(other))
	}
}
