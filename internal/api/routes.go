package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/gemini-cloud-stt/domain"
	"github.com/satriahrh/gemini-cloud-stt/domain/entities"
	"github.com/satriahrh/gemini-cloud-stt/domain/repositories"
	"github.com/satriahrh/gemini-cloud-stt/internal/audio"
	"github.com/satriahrh/gemini-cloud-stt/internal/auth"
	"github.com/satriahrh/gemini-cloud-stt/internal/websocket"
	"github.com/satriahrh/gemini-cloud-stt/usecase"
)

// Dependencies are the services the routes are served by
type Dependencies struct {
	Entries       repositories.ConfigEntryRepository
	Registry      *usecase.ProviderRegistry
	ConfigFlow    *usecase.ConfigFlow
	OptionsFlow   *usecase.OptionsFlow
	Transcription *usecase.TranscriptionService
	Hub           *websocket.Hub
	Tokens        *auth.TokenManager
}

type handler struct {
	Dependencies
	logger *zap.Logger
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, deps Dependencies, logger *zap.Logger) {
	h := &handler{Dependencies: deps, logger: logger}

	// Health check
	e.GET("/health", h.health)

	admin := deps.Tokens.Middleware(logger, auth.RoleAdmin)
	client := deps.Tokens.Middleware(logger, auth.RoleAdmin, auth.RoleClient)

	// API v1 routes
	v1 := e.Group("/api/v1")

	// Setup wizard and options editor
	config := v1.Group("/config", admin)
	config.POST("/flow", h.configFlow)
	config.GET("/entries", h.listEntries)
	config.DELETE("/entries/:id", h.deleteEntry)
	config.GET("/entries/:id/options", h.optionsFlow)
	config.POST("/entries/:id/options", h.optionsFlow)

	// Speech-to-text
	stt := v1.Group("/stt", client)
	stt.GET("/:entry_id", h.providerInfo)
	stt.POST("/:entry_id", h.transcribe)

	// WebSocket endpoint with JWT validation
	e.GET("/ws", h.serveWebSocket, client)
}

func (h *handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: entities.Domain,
		Entries: len(h.Registry.List()),
	})
}

func (h *handler) configFlow(c echo.Context) error {
	var input *usecase.UserInput
	if err := decodeOptional(c, &input); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	result, err := h.ConfigFlow.StepUser(c.Request().Context(), input)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *handler) optionsFlow(c echo.Context) error {
	var input *entities.ProviderOptions
	if c.Request().Method == http.MethodPost {
		if err := decodeOptional(c, &input); err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "Invalid request format",
			})
		}
	}

	result, err := h.OptionsFlow.StepInit(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *handler) listEntries(c echo.Context) error {
	entries, err := h.Entries.List(c.Request().Context())
	if err != nil {
		return h.errorResponse(c, err)
	}

	loaded := make(map[string]bool)
	for _, id := range h.Registry.List() {
		loaded[id] = true
	}

	response := make([]EntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, EntryResponse{
			ID:        entry.ID,
			Title:     entry.Title,
			Options:   entry.Options,
			Loaded:    loaded[entry.ID],
			CreatedAt: entry.CreatedAt,
			UpdatedAt: entry.UpdatedAt,
		})
	}
	return c.JSON(http.StatusOK, response)
}

func (h *handler) deleteEntry(c echo.Context) error {
	id := c.Param("id")
	if err := h.Entries.Delete(c.Request().Context(), id); err != nil {
		return h.errorResponse(c, err)
	}
	h.Registry.Unload(id)

	h.logger.Info("Config entry deleted", zap.String("entryID", id))
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) providerInfo(c echo.Context) error {
	info, err := h.Transcription.Info(c.Param("entry_id"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, info)
}

// transcribe streams the request body to the provider of the entry
func (h *handler) transcribe(c echo.Context) error {
	metadata, err := ParseSpeechMetadata(c.Request().Header.Get(SpeechContentHeader))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_metadata",
			Message: err.Error(),
		})
	}

	// The body is only read once the request is accepted.
	entryID := c.Param("entry_id")
	provider, err := h.Transcription.Check(entryID, metadata)
	if err != nil {
		h.logger.Warn("Transcription request rejected",
			zap.String("entryID", entryID),
			zap.Error(err))
		return h.errorResponse(c, err)
	}

	ctx := c.Request().Context()
	stream, readErr := audio.ChunkStream(ctx, c.Request().Body, audio.DefaultChunkSize)
	result := h.Transcription.Transcribe(ctx, entryID, provider, metadata, stream)

	if err := <-readErr; err != nil {
		h.logger.Warn("Audio upload interrupted", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "upload_failed",
			Message: "Failed to read audio stream",
		})
	}

	return c.JSON(http.StatusOK, TranscriptionResponse{
		Result: result.Result,
		Text:   result.Text,
	})
}

func (h *handler) serveWebSocket(c echo.Context) error {
	claims := auth.ClaimsFrom(c)
	if claims == nil || claims.ClientID == "" {
		h.logger.Error("WebSocket connection rejected: missing client ID in token")
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_token_claims",
			Message: "Client ID not found in token",
		})
	}

	h.logger.Info("WebSocket connection authenticated",
		zap.String("clientID", claims.ClientID),
		zap.String("role", claims.Role))

	return websocket.HandleWebSocket(h.Hub, c, claims.ClientID, h.logger)
}

// errorResponse maps domain errors to HTTP statuses
func (h *handler) errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrEntryNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "entry_not_found",
			Message: "Config entry not found",
		})
	case errors.Is(err, domain.ErrUnsupportedMetadata):
		return c.JSON(http.StatusUnsupportedMediaType, ErrorResponse{
			Error:   "unsupported_metadata",
			Message: err.Error(),
		})
	default:
		h.logger.Error("Request failed",
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Internal server error",
		})
	}
}

// decodeOptional decodes a JSON body into *dst, leaving it nil when the body is empty
func decodeOptional[T any](c echo.Context, dst **T) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		*dst = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return err
	}
	*dst = &v
	return nil
}
