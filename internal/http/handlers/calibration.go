package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/scriptpulse-backend/internal/http/response"
	calmod "github.com/yungbote/scriptpulse-backend/internal/modules/calibration"
	"github.com/yungbote/scriptpulse-backend/internal/platform/apierr"
	"github.com/yungbote/scriptpulse-backend/internal/requestdata"
	"github.com/yungbote/scriptpulse-backend/internal/scoring"
)

type CalibrationHandler struct {
	calibration calmod.Usecases
}

func NewCalibrationHandler(calibration calmod.Usecases) *CalibrationHandler {
	return &CalibrationHandler{calibration: calibration}
}

type ingestOutcomeRequest struct {
	DraftSnapshotID  string     `json:"draft_snapshot_id"`
	PostedAt         *time.Time `json:"posted_at"`
	Views            int64      `json:"views"`
	Likes            int64      `json:"likes"`
	Comments         int64      `json:"comments"`
	Shares           int64      `json:"shares"`
	Saves            int64      `json:"saves"`
	AvgViewDurationS float64    `json:"avg_view_duration_s"`
	PredictedScore   *float64   `json:"predicted_score"`
}

func (h *CalibrationHandler) IngestOutcome(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req ingestOutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	snapshotID, err := uuid.Parse(req.DraftSnapshotID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_draft_snapshot_id", err)
		return
	}

	in := calmod.IngestInput{
		UserID:          rd.UserID,
		DraftSnapshotID: snapshotID,
		Metrics: scoring.ActualMetrics{
			Views:            req.Views,
			Likes:            req.Likes,
			Comments:         req.Comments,
			Shares:           req.Shares,
			Saves:            req.Saves,
			AvgViewDurationS: req.AvgViewDurationS,
		},
		PredictedScore: req.PredictedScore,
	}
	if req.PostedAt != nil {
		in.PostedAt = *req.PostedAt
	}

	outcome, err := h.calibration.Ingest(c.Request.Context(), in)
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			response.RespondError(c, ae.Status, ae.Code, ae.Err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "outcome_ingest_failed", err)
		return
	}

	response.RespondOK(c, gin.H{"outcome": outcome})
}

func (h *CalibrationHandler) Summary(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	summary, err := h.calibration.Summarize(c.Request.Context(), rd.UserID, c.Query("platform"), time.Time{})
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			response.RespondError(c, ae.Status, ae.Code, ae.Err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "calibration_summary_failed", err)
		return
	}

	response.RespondOK(c, summary)
}

type importBenchmarksRequest struct {
	Platform string                    `json:"platform"`
	Rows     []calmod.BenchmarkRowInput `json:"rows"`
}

func (h *CalibrationHandler) ImportBenchmarks(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req importBenchmarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	rows, err := h.calibration.ImportBenchmarks(c.Request.Context(), calmod.ImportBenchmarksInput{
		UserID:   rd.UserID,
		Platform: req.Platform,
		Rows:     req.Rows,
	})
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			response.RespondError(c, ae.Status, ae.Code, ae.Err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "benchmark_import_failed", err)
		return
	}

	response.RespondOK(c, gin.H{"benchmarks": rows, "imported": len(rows)})
}
