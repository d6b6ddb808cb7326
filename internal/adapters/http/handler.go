package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/shopchat/internal/app/conversation"
	"github.com/PabloGalante/shopchat/internal/domain"
	"github.com/PabloGalante/shopchat/internal/observability"
)

type Server struct {
	svc *conversation.Service
}

func NewServer(svc *conversation.Service) http.Handler {
	s := &Server{svc: svc}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// /chat → webhook: raw message in, prose reply out (POST)
	mux.HandleFunc("/chat", s.handleChat)

	// /sessions → list live session ids (GET)
	mux.HandleFunc("/sessions", s.handleSessions)

	// /sessions/{id}         → GET: history, known products and cart
	// /sessions/{id}/intents → POST: apply a classified message
	mux.HandleFunc("/sessions/", s.handleSessionWithID)

	return chainMiddlewares(mux, withLogging, withRequestID, withCORS)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type chatRequest struct {
	ChatInput string `json:"chatInput"`
	SessionID string `json:"sessionId"`
}

type chatResponse struct {
	Output    string        `json:"output"`
	SessionID string        `json:"sessionId"`
	Result    domain.Result `json:"result"`
}

type intentRequest struct {
	Intent           string `json:"intent"`
	SearchQuery      string `json:"searchQuery"`
	ProductReference string `json:"productReference"`
	Quantity         int    `json:"quantity"`
	Message          string `json:"message"`
}

type intentResponse struct {
	SessionID string        `json:"sessionId"`
	Summary   string        `json:"summary"`
	Result    domain.Result `json:"result"`
}

type listSessionsResponse struct {
	Sessions []string `json:"sessions"`
}

type sessionResponse struct {
	ID            string                `json:"id"`
	CreatedAt     time.Time             `json:"created_at"`
	LastActive    time.Time             `json:"last_active"`
	History       []domain.Exchange     `json:"history"`
	KnownProducts []domain.KnownProduct `json:"known_products"`
	Cart          domain.CartView       `json:"cart"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// /chat
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleSendMessage(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /sessions
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListSessions(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /sessions/{id} or /sessions/{id}/intents
func (s *Server) handleSessionWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	parts := strings.Split(path, "/")
	id := parts[0]

	if id == "" {
		http.NotFound(w, r)
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.handleGetSession(w, r, domain.SessionID(id))
		default:
			methodNotAllowed(w)
		}
		return
	}

	if len(parts) == 2 && parts[1] == "intents" {
		switch r.Method {
		case http.MethodPost:
			s.handleIntent(w, r, domain.SessionID(id))
		default:
			methodNotAllowed(w)
		}
		return
	}

	http.NotFound(w, r)
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.ChatInput) == "" {
		badRequest(w, "chatInput is required")
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	out, err := s.svc.SendMessage(
		r.Context(),
		conversation.SendMessageInput{
			SessionID: domain.SessionID(sessionID),
			Text:      req.ChatInput,
		},
	)
	if err != nil {
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Output:    out.Reply,
		SessionID: sessionID,
		Result:    out.Result,
	})
}

func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	var req intentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Intent) == "" {
		badRequest(w, "intent is required")
		return
	}
	if req.Quantity < 0 {
		badRequest(w, "quantity must not be negative")
		return
	}

	cls := domain.Classification{
		Intent:           domain.ParseIntent(req.Intent),
		SearchQuery:      req.SearchQuery,
		ProductReference: req.ProductReference,
		Quantity:         req.Quantity,
	}

	message := req.Message
	if strings.TrimSpace(message) == "" {
		message = firstNonBlank(req.SearchQuery, req.ProductReference, req.Intent)
	}

	result, err := s.svc.Handle(r.Context(), id, message, cls)
	if err != nil {
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, intentResponse{
		SessionID: string(id),
		Summary:   result.Summary(),
		Result:    result,
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids := s.svc.ListSessions(r.Context())

	resp := listSessionsResponse{Sessions: make([]string, 0, len(ids))}
	for _, id := range ids {
		resp.Sessions = append(resp.Sessions, string(id))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	view, err := s.svc.GetSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "session not found",
			})
			return
		}
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(view))
}

// ─────────────────────────────────────────────
// Conversation Helpers
// ─────────────────────────────────────────────

func toSessionResponse(v *conversation.SessionView) sessionResponse {
	history := v.Session.Exchanges
	if history == nil {
		history = []domain.Exchange{}
	}
	return sessionResponse{
		ID:            string(v.Session.ID),
		CreatedAt:     v.Session.CreatedAt,
		LastActive:    v.Session.LastActive,
		History:       history,
		KnownProducts: v.Session.KnownProducts.Values(),
		Cart:          v.Cart,
	}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	observability.LoggerFromContext(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
