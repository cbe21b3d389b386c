package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chatlist-server/internal/config"
	domain "chatlist-server/internal/domain/prompt"
	"chatlist-server/internal/domain/result"
	"chatlist-server/internal/interfaces/httpserver/requests"
	"chatlist-server/internal/interfaces/httpserver/responses"
	"chatlist-server/internal/utils/platformerrors"
)

// PromptHandler exposes the saved prompt library endpoints.
type PromptHandler struct {
	cfg     *config.Config
	service *domain.Service
	results *result.Service
	log     zerolog.Logger
}

func NewPromptHandler(cfg *config.Config, service *domain.Service, results *result.Service, log zerolog.Logger) *PromptHandler {
	return &PromptHandler{
		cfg:     cfg,
		service: service,
		results: results,
		log:     log.With().Str("component", "prompt-handler").Logger(),
	}
}

func (h *PromptHandler) List(c *gin.Context) {
	filter := domain.PromptFilter{}
	if v, ok := c.GetQuery("search"); ok && v != "" {
		filter.Search = &v
	}
	if v, ok := c.GetQuery("tag"); ok && v != "" {
		filter.Tag = &v
	}
	if v, ok := c.GetQuery("favorite"); ok {
		fav, err := strconv.ParseBool(v)
		if err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "favorite must be a boolean",
				"285e9d0e-1f2a-4b3c-4d5e-6f7a8b9c0d35")
			return
		}
		filter.Favorite = &fav
	}
	filter.Limit = queryInt(c, "limit", 0)
	filter.Offset = queryInt(c, "offset", 0)

	prompts, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		responses.HandleError(c, err, "failed to list prompts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"prompts": prompts})
}

func (h *PromptHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		responses.HandleError(c, err, "failed to load prompt")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PromptHandler) Create(c *gin.Context) {
	var req requests.PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid prompt request: "+err.Error(),
			"396f0e1f-2a3b-4c4d-5e6f-7a8b9c0d1e36")
		return
	}
	p, err := h.service.Save(c.Request.Context(), &domain.Prompt{
		Title:    req.Title,
		Text:     req.Text,
		Tags:     req.Tags,
		Favorite: req.Favorite,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to save prompt")
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PromptHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req requests.PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid prompt request: "+err.Error(),
			"4a701f2a-3b4c-4d5e-6f7a-8b9c0d1e2f37")
		return
	}
	p, err := h.service.Update(c.Request.Context(), &domain.Prompt{
		ID:       id,
		Title:    req.Title,
		Text:     req.Text,
		Tags:     req.Tags,
		Favorite: req.Favorite,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to update prompt")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PromptHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		responses.HandleError(c, err, "failed to delete prompt")
		return
	}
	// Orphaned results are meaningless without their prompt.
	if n, err := h.results.DeleteByPrompt(c.Request.Context(), id); err != nil {
		h.log.Warn().Err(err).Uint("prompt_id", id).Msg("failed to delete prompt results")
	} else if n > 0 {
		h.log.Info().Uint("prompt_id", id).Int64("results", n).Msg("deleted prompt results")
	}
	c.Status(http.StatusNoContent)
}

func (h *PromptHandler) ToggleFavorite(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.service.ToggleFavorite(c.Request.Context(), id)
	if err != nil {
		responses.HandleError(c, err, "failed to toggle favorite")
		return
	}
	c.JSON(http.StatusOK, p)
}

// Results lists all results recorded for one saved prompt.
func (h *PromptHandler) Results(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := h.service.Get(c.Request.Context(), id); err != nil {
		responses.HandleError(c, err, "failed to load prompt")
		return
	}
	results, err := h.results.ListByPrompt(c.Request.Context(), id)
	if err != nil {
		responses.HandleError(c, err, "failed to list prompt results")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v, ok := c.GetQuery(name)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
