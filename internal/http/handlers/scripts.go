package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/scriptpulse-backend/internal/http/response"
	scriptsmod "github.com/yungbote/scriptpulse-backend/internal/modules/scripts"
	"github.com/yungbote/scriptpulse-backend/internal/platform/apierr"
	"github.com/yungbote/scriptpulse-backend/internal/requestdata"
)

type ScriptHandler struct {
	scripts scriptsmod.Usecases
}

func NewScriptHandler(scripts scriptsmod.Usecases) *ScriptHandler {
	return &ScriptHandler{scripts: scripts}
}

type generateRequest struct {
	Topic           string `json:"topic"`
	TargetAudience  string `json:"target_audience"`
	Objective       string `json:"objective"`
	Platform        string `json:"platform"`
	Tone            string `json:"tone"`
	HookStyle       string `json:"hook_style"`
	CTAStyle        string `json:"cta_style"`
	PacingStyle     string `json:"pacing_style"`
	DurationSeconds int    `json:"duration_seconds"`
	N               int    `json:"n"`
}

func (h *ScriptHandler) Generate(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	out, err := h.scripts.Generate(c.Request.Context(), scriptsmod.GenerateInput{
		UserID:          rd.UserID,
		Topic:           req.Topic,
		TargetAudience:  req.TargetAudience,
		Objective:       req.Objective,
		Platform:        req.Platform,
		Tone:            req.Tone,
		HookStyle:       req.HookStyle,
		CTAStyle:        req.CTAStyle,
		PacingStyle:     req.PacingStyle,
		DurationSeconds: req.DurationSeconds,
		N:               req.N,
	})
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			response.RespondError(c, ae.Status, ae.Code, ae.Err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "generate_failed", err)
		return
	}

	response.RespondOK(c, out)
}

type rescoreRequest struct {
	ScriptText      string   `json:"script_text"`
	Platform        string   `json:"platform"`
	DurationSeconds int      `json:"duration_seconds"`
	Tone            string   `json:"tone"`
	HookStyle       string   `json:"hook_style"`
	CTAStyle        string   `json:"cta_style"`
	PacingStyle     string   `json:"pacing_style"`
	BaselineScore   *float64 `json:"baseline_score"`
}

func (h *ScriptHandler) Rescore(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req rescoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	out, err := h.scripts.Rescore(c.Request.Context(), scriptsmod.RescoreInput{
		UserID:          rd.UserID,
		Platform:        req.Platform,
		ScriptText:      req.ScriptText,
		DurationSeconds: req.DurationSeconds,
		Tone:            req.Tone,
		HookStyle:       req.HookStyle,
		CTAStyle:        req.CTAStyle,
		PacingStyle:     req.PacingStyle,
		BaselineScore:   req.BaselineScore,
	})
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			response.RespondError(c, ae.Status, ae.Code, ae.Err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "rescore_failed", err)
		return
	}

	response.RespondOK(c, out)
}
