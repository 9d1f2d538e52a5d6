package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/scriptpulse-backend/internal/http/response"
	scriptsmod "github.com/yungbote/scriptpulse-backend/internal/modules/scripts"
	"github.com/yungbote/scriptpulse-backend/internal/platform/apierr"
	"github.com/yungbote/scriptpulse-backend/internal/requestdata"
)

type SnapshotHandler struct {
	scripts scriptsmod.Usecases
}

func NewSnapshotHandler(scripts scriptsmod.Usecases) *SnapshotHandler {
	return &SnapshotHandler{scripts: scripts}
}

type saveSnapshotRequest struct {
	Platform        string   `json:"platform"`
	SourceItemID    *string  `json:"source_item_id"`
	VariantID       *string  `json:"variant_id"`
	ScriptText      string   `json:"script_text"`
	DurationSeconds int      `json:"duration_seconds"`
	Tone            string   `json:"tone"`
	HookStyle       string   `json:"hook_style"`
	CTAStyle        string   `json:"cta_style"`
	PacingStyle     string   `json:"pacing_style"`
	BaselineScore   *float64 `json:"baseline_score"`
	RescoredScore   *float64 `json:"rescored_score"`
}

func (h *SnapshotHandler) Save(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req saveSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	var variantID *uuid.UUID
	if req.VariantID != nil && *req.VariantID != "" {
		id, err := uuid.Parse(*req.VariantID)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_variant_id", err)
			return
		}
		variantID = &id
	}

	snap, err := h.scripts.SaveSnapshot(c.Request.Context(), scriptsmod.SaveSnapshotInput{
		UserID:          rd.UserID,
		Platform:        req.Platform,
		SourceItemID:    req.SourceItemID,
		VariantID:       variantID,
		ScriptText:      req.ScriptText,
		DurationSeconds: req.DurationSeconds,
		Tone:            req.Tone,
		HookStyle:       req.HookStyle,
		CTAStyle:        req.CTAStyle,
		PacingStyle:     req.PacingStyle,
		BaselineScore:   req.BaselineScore,
		RescoredScore:   req.RescoredScore,
	})
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			response.RespondError(c, ae.Status, ae.Code, ae.Err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "snapshot_save_failed", err)
		return
	}

	response.RespondOK(c, gin.H{"snapshot": snap})
}

func (h *SnapshotHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = n
	}

	snaps, err := h.scripts.ListSnapshots(c.Request.Context(), rd.UserID, c.Query("platform"), limit)
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			response.RespondError(c, ae.Status, ae.Code, ae.Err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "snapshot_list_failed", err)
		return
	}

	response.RespondOK(c, gin.H{"snapshots": snaps})
}

func (h *SnapshotHandler) Get(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_snapshot_id", err)
		return
	}

	snap, err := h.scripts.GetSnapshot(c.Request.Context(), rd.UserID, id)
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			response.RespondError(c, ae.Status, ae.Code, ae.Err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "snapshot_get_failed", err)
		return
	}

	response.RespondOK(c, gin.H{"snapshot": snap})
}

func (h *SnapshotHandler) Publish(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_snapshot_id", err)
		return
	}

	snap, err := h.scripts.MarkPublished(c.Request.Context(), rd.UserID, id)
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			response.RespondError(c, ae.Status, ae.Code, ae.Err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "snapshot_publish_failed", err)
		return
	}

	response.RespondOK(c, gin.H{"snapshot": snap})
}
