package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/staffmcp/staffmcp/internal/agent"
	"github.com/staffmcp/staffmcp/internal/handler"
	"github.com/staffmcp/staffmcp/internal/mcp"
	"github.com/staffmcp/staffmcp/internal/mcpclient"
	"github.com/staffmcp/staffmcp/internal/middleware"
	"github.com/staffmcp/staffmcp/internal/security"
)

func (s *Server) setupRoutes() http.Handler {
	cfg := s.cfg

	// ─── Security ───────────────────────────────────────────────────────────────
	piiDetector := security.NewPIIDetector(cfg.PIIKeywords)
	promptVal := security.NewPromptValidator(cfg.MaxPromptLength)
	dataMasker := security.NewDataMasker(cfg.SensitiveFields)
	auditLogger := security.NewAuditLogger(cfg.EnableAuditLogging)

	// ─── Assistant ──────────────────────────────────────────────────────────────
	var chatH *handler.ChatHandler
	if cfg.AnthropicAPIKey != "" {
		reasoner := agent.NewAnthropicReasoner(cfg.AnthropicAPIKey, cfg.AnthropicModel(), cfg.AnthropicBaseURL, cfg.MaxTokens)
		client := mcpclient.New(cfg.ServerURL, cfg.ToolTimeoutDuration())
		orchestrator := agent.NewOrchestrator(reasoner, agent.NewDispatcher(client), agent.Options{
			ReasoningTimeout: cfg.ReasoningTimeoutDuration(),
			ToolTimeout:      cfg.ToolTimeoutDuration(),
		})
		chatH = handler.NewChatHandler(orchestrator, s.sessions, promptVal, piiDetector, auditLogger, cfg.EnablePIIDetection)
	} else {
		log.Warn().Msg("ANTHROPIC_API_KEY not set - chat sessions disabled, tools are still served")
	}

	log.Info().
		Int("tools", len(s.registry.List())).
		Bool("chat_enabled", chatH != nil).
		Str("tool_server", cfg.ServerURL).
		Bool("data_masking", cfg.EnableDataMasking).
		Bool("audit_logging", cfg.EnableAuditLogging).
		Bool("pii_detection", cfg.EnablePIIDetection).
		Msg("service configuration")

	// ─── Handlers ────────────────────────────────────────────────────────────────
	healthH := handler.NewHealthHandler(s.store, chatH != nil)
	toolsH := handler.NewToolsHandler(s.registry, dataMasker, auditLogger, cfg.EnableDataMasking)

	// ─── Router ──────────────────────────────────────────────────────────────────
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins, cfg.CORSMaxAge)))
	r.Use(chiMiddleware.RealIP)

	// Public routes
	r.Get("/health", healthH.Health)
	r.Get("/", healthH.Health)

	// Tool server
	r.Get(mcp.DiscoveryPath, toolsH.Discover)
	r.Post("/tools/*", toolsH.Invoke)

	// Chat API, rate limited
	if chatH != nil {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

			r.Route(cfg.APIPrefix, func(r chi.Router) {
				r.Post("/sessions", chatH.CreateSession)
				r.Route("/sessions/{session_id}", func(r chi.Router) {
					r.Delete("/", chatH.EndSession)
					r.Get("/messages", chatH.History)
					r.Post("/messages", chatH.SendMessage)
					r.Post("/retry", chatH.Retry)
				})
			})
		})
	}

	return r
}
