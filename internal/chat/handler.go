package chat

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/next-toks/opschat/internal/api"
	"github.com/next-toks/opschat/internal/identity"
)

// maxRequestBodySize bounds incoming chat request bodies (64KB).
const maxRequestBodySize = 64 << 10

// Handler exposes the chat service over HTTP.
type Handler struct {
	svc   *Service
	isDev bool
}

// NewHandler creates a chat HTTP handler.
func NewHandler(svc *Service, isDev bool) *Handler {
	return &Handler{svc: svc, isDev: isDev}
}

// RegisterRoutes mounts the chat endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/chat", h.handleChat)
	r.Get("/api/history", h.handleHistory)
	r.Post("/api/session/reset", h.handleReset)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	sessionID := identity.SessionIDFromContext(r.Context())
	if sessionID == "" {
		api.Error(w, http.StatusInternalServerError, "missing session identity")
		return
	}

	var req chatRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		if errors.As(err, new(*http.MaxBytesError)) {
			api.Error(w, http.StatusRequestEntityTooLarge, "message too large")
			return
		}
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	io.Copy(io.Discard, body) //nolint:errcheck // drain for keep-alive

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		api.Error(w, http.StatusBadRequest, "message cannot be empty")
		return
	}

	reply, err := h.svc.Ask(r.Context(), sessionID, req.Message)
	if err != nil {
		// Session failures abort before the message is sent; run
		// failures are already recorded in the transcript.
		api.Error(w, http.StatusBadGateway, err.Error())
		return
	}

	api.JSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := identity.SessionIDFromContext(r.Context())
	api.JSON(w, http.StatusOK, map[string]interface{}{
		"turns": h.svc.History(sessionID),
	})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := identity.SessionIDFromContext(r.Context())
	if !h.svc.Reset(r.Context(), sessionID) {
		api.Error(w, http.StatusInternalServerError, "no se pudo reiniciar la sesión")
		return
	}

	// Rotate the client's identifier so the next turn starts clean.
	identity.SetSessionCookie(w, identity.NewSessionID(), h.isDev)
	api.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
