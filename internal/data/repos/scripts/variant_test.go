package scripts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/scriptpulse-backend/internal/data/repos/testutil"
	types "github.com/yungbote/scriptpulse-backend/internal/domain"
	"github.com/yungbote/scriptpulse-backend/internal/platform/dbctx"
)

func TestVariantRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewVariantRepo(db, testutil.Logger(t))
	userID := uuid.New()
	batchID := uuid.New()

	rows := []*types.ScriptVariant{
		{
			UserID:           userID,
			BatchID:          batchID,
			Platform:         "tiktok",
			Rank:             2,
			Label:            "Myth bust",
			ScriptText:       "b",
			DurationSeconds:  30,
			DetectorRankings: datatypes.JSON([]byte("[]")),
			ScoreBreakdown:   datatypes.JSON([]byte("{}")),
		},
		{
			UserID:           userID,
			BatchID:          batchID,
			Platform:         "tiktok",
			Rank:             1,
			Label:            "Mistake countdown",
			ScriptText:       "a",
			DurationSeconds:  30,
			DetectorRankings: datatypes.JSON([]byte("[]")),
			ScoreBreakdown:   datatypes.JSON([]byte("{}")),
		},
	}
	if err := repo.CreateBatch(dbc, rows); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			t.Fatalf("expected generated id for %q", row.Label)
		}
	}

	list, err := repo.ListByBatch(dbc, userID, batchID)
	if err != nil {
		t.Fatalf("ListByBatch: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(list))
	}
	if list[0].Rank != 1 || list[1].Rank != 2 {
		t.Fatalf("expected rank order, got %d then %d", list[0].Rank, list[1].Rank)
	}

	got, err := repo.GetByID(dbc, userID, rows[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Label != "Myth bust" {
		t.Fatalf("unexpected variant: %+v", got)
	}

	crossUser, err := repo.GetByID(dbc, uuid.New(), rows[0].ID)
	if err != nil {
		t.Fatalf("GetByID cross-user: %v", err)
	}
	if crossUser != nil {
		t.Fatalf("expected nil for other user's variant")
	}
}
