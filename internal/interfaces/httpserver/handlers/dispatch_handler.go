package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chatlist-server/internal/config"
	"chatlist-server/internal/domain/dispatch"
	"chatlist-server/internal/infrastructure/metrics"
	"chatlist-server/internal/interfaces/httpserver/requests"
	"chatlist-server/internal/interfaces/httpserver/responses"
	"chatlist-server/internal/utils/platformerrors"
)

// DispatchHandler exposes the prompt fan-out endpoint.
type DispatchHandler struct {
	cfg   *config.Config
	batch *dispatch.BatchService
	log   zerolog.Logger
}

func NewDispatchHandler(cfg *config.Config, batch *dispatch.BatchService, log zerolog.Logger) *DispatchHandler {
	return &DispatchHandler{
		cfg:   cfg,
		batch: batch,
		log:   log.With().Str("component", "dispatch-handler").Logger(),
	}
}

// Dispatch fans the prompt out to the selected models. With stream=true
// the response is SSE, one event per outcome in arrival order; otherwise
// the collected batch is returned once every model reported.
func (h *DispatchHandler) Dispatch(c *gin.Context) {
	var req requests.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid dispatch request: "+err.Error(),
			"d3094e5f-6a7b-4c8d-9e0f-1a2b3c4d5e30")
		return
	}

	opts := dispatch.Options{
		RequestTimeout: time.Duration(req.RequestTimeoutSec) * time.Second,
		OverallTimeout: time.Duration(req.OverallTimeoutSec) * time.Second,
	}
	metrics.DispatchesTotal.Inc()

	if req.Stream {
		h.streamed(c, req, opts)
		return
	}

	batch, err := h.batch.Run(c.Request.Context(), req.Prompt, req.ModelIDs, opts, req.Save)
	if err != nil {
		responses.HandleError(c, err, "dispatch failed")
		return
	}
	for _, outcome := range batch.Outcomes {
		recordOutcomeMetrics(outcome)
	}
	c.JSON(http.StatusOK, responses.FromBatch(batch))
}

func (h *DispatchHandler) streamed(c *gin.Context, req requests.DispatchRequest, opts dispatch.Options) {
	stream, _, err := h.batch.Stream(c.Request.Context(), req.Prompt, req.ModelIDs, opts, req.Save)
	if err != nil {
		responses.HandleError(c, err, "dispatch failed")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteHeaderNow()

	for outcome := range stream {
		recordOutcomeMetrics(outcome)
		c.SSEvent("outcome", responses.FromOutcome(outcome))
		c.Writer.Flush()
	}
	c.SSEvent("done", gin.H{})
	c.Writer.Flush()
}

func recordOutcomeMetrics(o dispatch.Outcome) {
	result := "ok"
	if o.Err != nil {
		result = string(o.Err.Kind)
	}
	metrics.RecordOutcome(string(o.Model.InferKind()), result, o.Elapsed.Seconds(), o.TokensUsed)
}
