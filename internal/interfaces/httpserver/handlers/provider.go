package handlers

import (
	"github.com/rs/zerolog"

	"chatlist-server/internal/config"
	"chatlist-server/internal/domain/dispatch"
	"chatlist-server/internal/domain/enhance"
	"chatlist-server/internal/domain/model"
	"chatlist-server/internal/domain/prompt"
	"chatlist-server/internal/domain/result"
	"chatlist-server/internal/domain/settings"
)

// Provider wires HTTP handlers.
type Provider struct {
	Dispatch *DispatchHandler
	Models   *ModelHandler
	Prompts  *PromptHandler
	Results  *ResultHandler
	Enhance  *EnhanceHandler
	Settings *SettingsHandler
}

type Services struct {
	Batch    *dispatch.BatchService
	Models   *model.Service
	Prompts  *prompt.Service
	Results  *result.Service
	Enhance  *enhance.Service
	Settings *settings.Service
}

func NewProvider(cfg *config.Config, svcs Services, log zerolog.Logger) *Provider {
	return &Provider{
		Dispatch: NewDispatchHandler(cfg, svcs.Batch, log),
		Models:   NewModelHandler(cfg, svcs.Models, log),
		Prompts:  NewPromptHandler(cfg, svcs.Prompts, svcs.Results, log),
		Results:  NewResultHandler(cfg, svcs.Results, log),
		Enhance:  NewEnhanceHandler(cfg, svcs.Enhance, log),
		Settings: NewSettingsHandler(cfg, svcs.Settings, log),
	}
}
