package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chatlist-server/internal/config"
	domain "chatlist-server/internal/domain/enhance"
	"chatlist-server/internal/infrastructure/metrics"
	"chatlist-server/internal/interfaces/httpserver/requests"
	"chatlist-server/internal/interfaces/httpserver/responses"
	"chatlist-server/internal/utils/platformerrors"
)

// EnhanceHandler exposes the prompt enhancement endpoints.
type EnhanceHandler struct {
	cfg     *config.Config
	service *domain.Service
	log     zerolog.Logger
}

func NewEnhanceHandler(cfg *config.Config, service *domain.Service, log zerolog.Logger) *EnhanceHandler {
	return &EnhanceHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "enhance-handler").Logger(),
	}
}

func (h *EnhanceHandler) Enhance(c *gin.Context) {
	var req requests.EnhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid enhance request: "+err.Error(),
			"8eb45d6e-7f8a-4b9c-0d1e-2f3a4b5c6d3b")
		return
	}

	enhanceType := domain.EnhanceType(req.Type)
	enhancement, err := h.service.Enhance(c.Request.Context(), domain.EnhanceRequest{
		Prompt:   req.Prompt,
		Type:     enhanceType,
		ModelID:  req.ModelID,
		PromptID: req.PromptID,
	})
	if err != nil {
		metrics.RecordEnhancement(string(enhanceType), "error")
		responses.HandleError(c, err, "enhancement failed")
		return
	}
	metrics.RecordEnhancement(string(enhancement.Type), "ok")
	c.JSON(http.StatusOK, enhancement)
}

func (h *EnhanceHandler) List(c *gin.Context) {
	filter := domain.EnhancementFilter{
		Limit:  queryInt(c, "limit", 50),
		Offset: queryInt(c, "offset", 0),
	}
	if v, ok := c.GetQuery("type"); ok && v != "" {
		t := domain.EnhanceType(v)
		filter.Type = &t
	}
	entries, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		responses.HandleError(c, err, "failed to list enhancements")
		return
	}
	c.JSON(http.StatusOK, gin.H{"enhancements": entries})
}

func (h *EnhanceHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	e, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		responses.HandleError(c, err, "failed to load enhancement")
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *EnhanceHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		responses.HandleError(c, err, "failed to delete enhancement")
		return
	}
	c.Status(http.StatusNoContent)
}
