package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chatlist-server/internal/config"
	domain "chatlist-server/internal/domain/settings"
	"chatlist-server/internal/interfaces/httpserver/requests"
	"chatlist-server/internal/interfaces/httpserver/responses"
	"chatlist-server/internal/utils/platformerrors"
)

// SettingsHandler exposes the typed settings store endpoints.
type SettingsHandler struct {
	cfg     *config.Config
	service *domain.Service
	log     zerolog.Logger
}

func NewSettingsHandler(cfg *config.Config, service *domain.Service, log zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "settings-handler").Logger(),
	}
}

func (h *SettingsHandler) List(c *gin.Context) {
	all, err := h.service.All(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to list settings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": all})
}

func (h *SettingsHandler) Get(c *gin.Context) {
	key := c.Param("key")
	value, err := h.service.Get(c.Request.Context(), key)
	if err != nil {
		responses.HandleError(c, err, "failed to load setting")
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": value})
}

func (h *SettingsHandler) Put(c *gin.Context) {
	key := c.Param("key")
	var req requests.SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid setting request: "+err.Error(),
			"9fc56e7f-8a9b-4c0d-1e2f-3a4b5c6d7e3c")
		return
	}
	setting, err := h.service.Set(c.Request.Context(), key, req.Value)
	if err != nil {
		responses.HandleError(c, err, "failed to store setting")
		return
	}
	c.JSON(http.StatusOK, setting)
}

func (h *SettingsHandler) Delete(c *gin.Context) {
	key := c.Param("key")
	if err := h.service.Delete(c.Request.Context(), key); err != nil {
		responses.HandleError(c, err, "failed to delete setting")
		return
	}
	c.Status(http.StatusNoContent)
}
