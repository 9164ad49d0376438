// Package httpapi exposes the webhook endpoint and the direct outreach actions over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/example/outreach/internal/ctxutil"
	"github.com/example/outreach/internal/ports/primary"
	"github.com/example/outreach/internal/ports/secondary"
	"github.com/example/outreach/internal/version"
)

const (
	actionLookup  = "lookup"
	actionInvite  = "invite"
	actionMessage = "message"
)

// WebhookPath is where the provider delivers events.
const WebhookPath = "/webhooks/provider"

type ServerConfig struct {
	MaxBodyBytes int64
}

type Server struct {
	webhooks primary.WebhookService
	outreach primary.OutreachService
	schemas  actionSchemas
	cfg      ServerConfig
	logger   *slog.Logger
}

func NewServer(webhooks primary.WebhookService, outreach primary.OutreachService, cfg ServerConfig, logger *slog.Logger) (*Server, error) {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if logger == nil {
		logger = slog.Default()
	}
	schemas, err := compileActionSchemas()
	if err != nil {
		return nil, err
	}
	return &Server{
		webhooks: webhooks,
		outreach: outreach,
		schemas:  schemas,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := getRequestID(r)
	w.Header().Set("X-Request-Id", requestID)
	r = r.WithContext(ctxutil.WithRequestID(r.Context(), requestID))

	if r.URL.Path == "/health" && r.Method == http.MethodGet {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.Version, "commit": version.ShortCommit()})
		return
	}
	if r.URL.Path == WebhookPath && r.Method == http.MethodPost {
		s.handleWebhook(w, r, requestID)
		return
	}
	if r.URL.Path == "/v1/platforms" && r.Method == http.MethodGet {
		writeJSON(w, http.StatusOK, map[string]any{"platforms": s.outreach.Platforms()})
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) == 4 && parts[0] == "v1" && parts[1] == "platforms" {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST", requestID)
			return
		}
		s.handleAction(w, r, parts[2], parts[3], requestID)
		return
	}

	writeError(w, http.StatusNotFound, "not_found", "route not found", requestID)
}

// handleWebhook always answers 200 so the provider does not retry; the body carries
// the processing outcome.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request, requestID string) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.WarnContext(r.Context(), "failed to read webhook body", "request_id", requestID, "error", err)
		writeJSON(w, http.StatusOK, &primary.WebhookResult{
			Success: false,
			Outcome: primary.OutcomeMalformed,
			Error:   "failed to read request body",
		})
		return
	}

	result := s.webhooks.HandleWebhook(r.Context(), body)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request, platform, action, requestID string) {
	if _, ok := s.schemas[action]; !ok {
		writeError(w, http.StatusNotFound, "not_found", "route not found", requestID)
		return
	}

	body, ok := s.readRequestBody(w, r, requestID)
	if !ok {
		return
	}
	if err := s.schemas.validate(action, body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error(), requestID)
		return
	}

	ctx := r.Context()
	var (
		resp any
		err  error
	)
	switch action {
	case actionLookup:
		var req primary.LookupRequest
		if !decodeJSON(w, body, &req, requestID) {
			return
		}
		req.Platform = platform
		resp, err = s.outreach.Lookup(ctx, req)
	case actionInvite:
		var req primary.InviteRequest
		if !decodeJSON(w, body, &req, requestID) {
			return
		}
		req.Platform = platform
		resp, err = s.outreach.Invite(ctx, req)
	case actionMessage:
		var req primary.MessageRequest
		if !decodeJSON(w, body, &req, requestID) {
			return
		}
		req.Platform = platform
		resp, err = s.outreach.SendMessage(ctx, req)
	}
	if err != nil {
		s.writeActionError(w, r, platform, action, err, requestID)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeActionError(w http.ResponseWriter, r *http.Request, platform, action string, err error, requestID string) {
	switch {
	case errors.Is(err, primary.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error(), requestID)
	case errors.Is(err, primary.ErrUnsupportedPlatform):
		writeError(w, http.StatusNotFound, "unsupported_platform", err.Error(), requestID)
	case errors.Is(err, secondary.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	default:
		s.logger.ErrorContext(r.Context(), "platform action failed",
			"request_id", requestID, "platform", platform, "action", action, "error", err)
		writeError(w, http.StatusBadGateway, "upstream_error", err.Error(), requestID)
	}
}

func getRequestID(r *http.Request) string {
	for _, header := range []string{"X-Request-Id", "X-Correlation-Id"} {
		if id := strings.TrimSpace(r.Header.Get(header)); id != "" {
			return id
		}
	}
	return uuid.NewString()
}

func (s *Server) readRequestBody(w http.ResponseWriter, r *http.Request, requestID string) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body exceeds configured limit", requestID)
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "bad_request", "failed to read request body", requestID)
		return nil, false
	}
	return body, true
}

func decodeJSON(w http.ResponseWriter, body []byte, dst any, requestID string) bool {
	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json body", requestID)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message, correlationID string) {
	writeJSON(w, status, map[string]any{
		"code":          code,
		"message":       message,
		"correlationId": correlationID,
	})
}
