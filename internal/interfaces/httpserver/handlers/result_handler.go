package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chatlist-server/internal/config"
	domain "chatlist-server/internal/domain/result"
	"chatlist-server/internal/interfaces/httpserver/responses"
	"chatlist-server/internal/utils/platformerrors"
)

// ResultHandler exposes the result history endpoints.
type ResultHandler struct {
	cfg     *config.Config
	service *domain.Service
	log     zerolog.Logger
}

func NewResultHandler(cfg *config.Config, service *domain.Service, log zerolog.Logger) *ResultHandler {
	return &ResultHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "result-handler").Logger(),
	}
}

func (h *ResultHandler) List(c *gin.Context) {
	filter := domain.ResultFilter{
		Limit:  queryInt(c, "limit", 50),
		Offset: queryInt(c, "offset", 0),
	}
	if v, ok := c.GetQuery("prompt_id"); ok {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "prompt_id must be a positive integer",
				"5b812a3b-4c5d-4e6f-7a8b-9c0d1e2f3a38")
			return
		}
		pid := uint(id)
		filter.PromptID = &pid
	}
	if v, ok := c.GetQuery("model_id"); ok {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "model_id must be a positive integer",
				"6c923b4c-5d6e-4f7a-8b9c-0d1e2f3a4b39")
			return
		}
		mid := uint(id)
		filter.ModelID = &mid
	}
	if v, ok := c.GetQuery("ok"); ok {
		okVal, err := strconv.ParseBool(v)
		if err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "ok must be a boolean",
				"7da34c5d-6e7f-4a8b-9c0d-1e2f3a4b5c3a")
			return
		}
		filter.OK = &okVal
	}

	results, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		responses.HandleError(c, err, "failed to list results")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *ResultHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		responses.HandleError(c, err, "failed to load result")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ResultHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		responses.HandleError(c, err, "failed to delete result")
		return
	}
	c.Status(http.StatusNoContent)
}
