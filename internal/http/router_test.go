package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	calrepos "github.com/yungbote/scriptpulse-backend/internal/data/repos/calibration"
	scriptrepos "github.com/yungbote/scriptpulse-backend/internal/data/repos/scripts"
	"github.com/yungbote/scriptpulse-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/scriptpulse-backend/internal/http/handlers"
	httpMW "github.com/yungbote/scriptpulse-backend/internal/http/middleware"
	calmod "github.com/yungbote/scriptpulse-backend/internal/modules/calibration"
	scriptsmod "github.com/yungbote/scriptpulse-backend/internal/modules/scripts"
	"github.com/yungbote/scriptpulse-backend/internal/scoring"
	"github.com/yungbote/scriptpulse-backend/internal/services"
)

const testJWTSecret = "router-test-secret"

func newTestRouter(t *testing.T) (*gin.Engine, uuid.UUID, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	policy := scoring.CurrentPolicy(log)

	variants := scriptrepos.NewVariantRepo(tx, log)
	snapshots := scriptrepos.NewSnapshotRepo(tx, log)
	outcomes := calrepos.NewOutcomeRepo(tx, log)
	benchmarks := calrepos.NewBenchmarkRepo(tx, log)

	scripts := scriptsmod.NewUsecases(scriptsmod.UsecasesDeps{
		DB:         tx,
		Log:        log,
		Variants:   variants,
		Snapshots:  snapshots,
		Outcomes:   outcomes,
		Benchmarks: benchmarks,
		Policy:     policy,
	})
	calibration := calmod.NewUsecases(calmod.UsecasesDeps{
		DB:         tx,
		Log:        log,
		Snapshots:  snapshots,
		Outcomes:   outcomes,
		Benchmarks: benchmarks,
		Policy:     policy,
	})

	identity := services.NewIdentityService(log, testJWTSecret)
	router := NewRouter(RouterConfig{
		Log:                log,
		AuthMiddleware:     httpMW.NewAuthMiddleware(log, identity),
		ScriptHandler:      httpH.NewScriptHandler(scripts),
		SnapshotHandler:    httpH.NewSnapshotHandler(scripts),
		CalibrationHandler: httpH.NewCalibrationHandler(calibration),
		HealthHandler:      httpH.NewHealthHandler(),
	})

	userID := uuid.New()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return router, userID, token
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decode(t, w, &env)
	return env.Error.Code
}

func TestHealthcheckIsPublic(t *testing.T) {
	router, _, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/healthcheck", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("healthcheck status %d", w.Code)
	}
}

func TestAPIRequiresToken(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/scripts/rescore", "", gin.H{"script_text": "x"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	bad := doJSON(t, router, http.MethodPost, "/api/scripts/rescore", "not-a-jwt", gin.H{"script_text": "x"})
	if bad.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with garbage token, got %d", bad.Code)
	}
}

func TestGenerateEndpoint(t *testing.T) {
	router, _, token := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/scripts/generate", token, gin.H{
		"topic":    "meal prep",
		"platform": "tiktok",
		"n":        3,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("generate status %d: %s", w.Code, w.Body.String())
	}

	var out struct {
		BatchID  string `json:"batch_id"`
		Variants []struct {
			Rank       int    `json:"rank"`
			ScriptText string `json:"script_text"`
		} `json:"variants"`
		GenerationMeta struct {
			Path         string `json:"path"`
			UsedFallback bool   `json:"used_fallback"`
		} `json:"generation_meta"`
	}
	decode(t, w, &out)
	if out.BatchID == "" {
		t.Fatalf("missing batch_id: %s", w.Body.String())
	}
	if len(out.Variants) != 3 {
		t.Fatalf("expected 3 variants, got %d", len(out.Variants))
	}
	if !out.GenerationMeta.UsedFallback {
		t.Fatalf("no backend configured; expected fallback meta")
	}

	missing := doJSON(t, router, http.MethodPost, "/api/scripts/generate", token, gin.H{"platform": "tiktok"})
	if missing.Code != http.StatusBadRequest || errCode(t, missing) != "missing_topic" {
		t.Fatalf("expected 400 missing_topic, got %d %s", missing.Code, missing.Body.String())
	}
}

func TestRescoreEndpoint(t *testing.T) {
	router, _, token := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/scripts/rescore", token, gin.H{
		"script_text":      "Stop guessing your macros. Here are 3 numbers that matter.\nTrack protein per meal, not per day.\nComment your target and I'll check it.",
		"platform":         "tiktok",
		"duration_seconds": 30,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("rescore status %d: %s", w.Code, w.Body.String())
	}
	var out struct {
		ScoreBreakdown struct {
			Combined   float64 `json:"combined"`
			Confidence string  `json:"confidence"`
		} `json:"score_breakdown"`
		DetectorRankings []json.RawMessage `json:"detector_rankings"`
	}
	decode(t, w, &out)
	if out.ScoreBreakdown.Combined <= 0 {
		t.Fatalf("combined not populated: %s", w.Body.String())
	}
	if len(out.DetectorRankings) != 7 {
		t.Fatalf("expected 7 rankings, got %d", len(out.DetectorRankings))
	}

	empty := doJSON(t, router, http.MethodPost, "/api/scripts/rescore", token, gin.H{"script_text": "  "})
	if empty.Code != http.StatusBadRequest || errCode(t, empty) != "empty_script_text" {
		t.Fatalf("expected 400 empty_script_text, got %d %s", empty.Code, empty.Body.String())
	}
}

// Walks the draft lifecycle end to end: rescore, save, fetch, publish,
// outcome, summary.
func TestDraftLifecycle(t *testing.T) {
	router, _, token := newTestRouter(t)
	script := "Stop saving money. You're losing 7% a year to inflation.\nI tracked 90 days of spending and found $412 of waste.\nComment \"audit\" and I'll send the spreadsheet."

	// Saving before rescoring is rejected.
	blocked := doJSON(t, router, http.MethodPost, "/api/snapshots", token, gin.H{
		"platform":    "tiktok",
		"script_text": script,
	})
	if blocked.Code != http.StatusPreconditionFailed || errCode(t, blocked) != "rescore_required" {
		t.Fatalf("expected 412 rescore_required, got %d %s", blocked.Code, blocked.Body.String())
	}

	rescored := doJSON(t, router, http.MethodPost, "/api/scripts/rescore", token, gin.H{
		"script_text": script,
		"platform":    "tiktok",
	})
	if rescored.Code != http.StatusOK {
		t.Fatalf("rescore status %d", rescored.Code)
	}
	var r struct {
		ScoreBreakdown struct {
			Combined float64 `json:"combined"`
		} `json:"score_breakdown"`
	}
	decode(t, rescored, &r)

	// A stale score from an edited draft is rejected.
	stale := doJSON(t, router, http.MethodPost, "/api/snapshots", token, gin.H{
		"platform":       "tiktok",
		"script_text":    script + "\nOne more line added after the rescore that changes everything about this script's pacing.",
		"rescored_score": r.ScoreBreakdown.Combined + 15,
	})
	if stale.Code != http.StatusPreconditionFailed || errCode(t, stale) != "stale_rescore" {
		t.Fatalf("expected 412 stale_rescore, got %d %s", stale.Code, stale.Body.String())
	}

	saved := doJSON(t, router, http.MethodPost, "/api/snapshots", token, gin.H{
		"platform":       "tiktok",
		"script_text":    script,
		"rescored_score": r.ScoreBreakdown.Combined,
	})
	if saved.Code != http.StatusOK {
		t.Fatalf("save status %d: %s", saved.Code, saved.Body.String())
	}
	var savedOut struct {
		Snapshot struct {
			ID string `json:"id"`
		} `json:"snapshot"`
	}
	decode(t, saved, &savedOut)
	if savedOut.Snapshot.ID == "" {
		t.Fatalf("missing snapshot id: %s", saved.Body.String())
	}

	got := doJSON(t, router, http.MethodGet, "/api/snapshots/"+savedOut.Snapshot.ID, token, nil)
	if got.Code != http.StatusOK {
		t.Fatalf("get snapshot status %d", got.Code)
	}

	missing := doJSON(t, router, http.MethodGet, "/api/snapshots/"+uuid.NewString(), token, nil)
	if missing.Code != http.StatusNotFound || errCode(t, missing) != "snapshot_not_found" {
		t.Fatalf("expected 404 snapshot_not_found, got %d", missing.Code)
	}

	published := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/snapshots/%s/publish", savedOut.Snapshot.ID), token, nil)
	if published.Code != http.StatusOK {
		t.Fatalf("publish status %d: %s", published.Code, published.Body.String())
	}

	outcome := doJSON(t, router, http.MethodPost, "/api/outcomes", token, gin.H{
		"draft_snapshot_id":   savedOut.Snapshot.ID,
		"views":               12000,
		"likes":               900,
		"comments":            150,
		"shares":              80,
		"saves":               60,
		"avg_view_duration_s": 18.5,
	})
	if outcome.Code != http.StatusOK {
		t.Fatalf("outcome status %d: %s", outcome.Code, outcome.Body.String())
	}

	summary := doJSON(t, router, http.MethodGet, "/api/calibration/summary?platform=tiktok", token, nil)
	if summary.Code != http.StatusOK {
		t.Fatalf("summary status %d: %s", summary.Code, summary.Body.String())
	}
	var sum struct {
		D30 struct {
			Count int `json:"count"`
		} `json:"d30"`
		Confidence string `json:"confidence"`
	}
	decode(t, summary, &sum)
	if sum.D30.Count != 1 {
		t.Fatalf("expected the ingested outcome in d30, got %d", sum.D30.Count)
	}
	if sum.Confidence == "" {
		t.Fatalf("missing confidence: %s", summary.Body.String())
	}
}

func TestBenchmarksEndpoint(t *testing.T) {
	router, _, token := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/benchmarks", token, gin.H{
		"platform": "tiktok",
		"rows": []gin.H{
			{"channel_ref": "@fitcoach", "median_views": 42000, "engagement_rate": 0.07, "typical_duration_s": 28, "sample_videos": 15},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("benchmarks status %d: %s", w.Code, w.Body.String())
	}
	var out struct {
		Imported int `json:"imported"`
	}
	decode(t, w, &out)
	if out.Imported != 1 {
		t.Fatalf("expected 1 imported, got %d", out.Imported)
	}

	bad := doJSON(t, router, http.MethodPost, "/api/benchmarks", token, gin.H{"rows": []gin.H{}})
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing platform, got %d", bad.Code)
	}
}
