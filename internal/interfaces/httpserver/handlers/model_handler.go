package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chatlist-server/internal/config"
	domain "chatlist-server/internal/domain/model"
	"chatlist-server/internal/interfaces/httpserver/requests"
	"chatlist-server/internal/interfaces/httpserver/responses"
	"chatlist-server/internal/utils/platformerrors"
)

// ModelHandler exposes the model registry endpoints.
type ModelHandler struct {
	cfg     *config.Config
	service *domain.Service
	log     zerolog.Logger
}

func NewModelHandler(cfg *config.Config, service *domain.Service, log zerolog.Logger) *ModelHandler {
	return &ModelHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "model-handler").Logger(),
	}
}

func (h *ModelHandler) List(c *gin.Context) {
	filter := domain.ModelFilter{}
	if v, ok := c.GetQuery("active"); ok {
		active, err := strconv.ParseBool(v)
		if err != nil {
			responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "active must be a boolean",
				"e41a5f6a-7b8c-4d9e-0f1a-2b3c4d5e6f31")
			return
		}
		filter.Active = &active
	}
	models, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		responses.HandleError(c, err, "failed to list models")
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": responses.FromModels(models)})
}

func (h *ModelHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	m, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		responses.HandleError(c, err, "failed to load model")
		return
	}
	c.JSON(http.StatusOK, responses.FromModel(m))
}

func (h *ModelHandler) Create(c *gin.Context) {
	var req requests.ModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid model request: "+err.Error(),
			"f52b6a7b-8c9d-4e0f-1a2b-3c4d5e6f7a32")
		return
	}
	m, err := h.service.Create(c.Request.Context(), toDomainModel(req, 0))
	if err != nil {
		responses.HandleError(c, err, "failed to create model")
		return
	}
	h.log.Info().Str("model", m.DisplayName).Msg("model created")
	c.JSON(http.StatusCreated, responses.FromModel(m))
}

func (h *ModelHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req requests.ModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid model request: "+err.Error(),
			"063c7b8c-9d0e-4f1a-2b3c-4d5e6f7a8b33")
		return
	}
	m, err := h.service.Update(c.Request.Context(), toDomainModel(req, id))
	if err != nil {
		responses.HandleError(c, err, "failed to update model")
		return
	}
	c.JSON(http.StatusOK, responses.FromModel(m))
}

func (h *ModelHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		responses.HandleError(c, err, "failed to delete model")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ModelHandler) Toggle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	m, err := h.service.ToggleActive(c.Request.Context(), id)
	if err != nil {
		responses.HandleError(c, err, "failed to toggle model")
		return
	}
	c.JSON(http.StatusOK, responses.FromModel(m))
}

func toDomainModel(req requests.ModelRequest, id uint) *domain.Model {
	return &domain.Model{
		ID:            id,
		DisplayName:   req.DisplayName,
		RemoteName:    req.RemoteName,
		Kind:          domain.ProviderKind(req.Kind),
		EndpointURL:   req.EndpointURL,
		CredentialRef: req.CredentialRef,
		Active:        req.Active,
		Temperature:   req.Temperature,
		MaxTokens:     req.MaxTokens,
	}
}

// pathID parses the :id path parameter, replying with a validation
// error itself when the value is not a positive integer.
func pathID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "id must be a positive integer",
			"174d8c9d-0e1f-4a2b-3c4d-5e6f7a8b9c34")
		return 0, false
	}
	return uint(id), true
}
