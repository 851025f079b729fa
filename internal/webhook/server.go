// Package webhook exposes the inbound HTTP surface: the signed event
// webhook, a health probe, and an operator push utility.
package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/user/linkbot/internal/binding"
	"github.com/user/linkbot/internal/command"
	"github.com/user/linkbot/internal/delivery"
)

// signatureHeader carries the platform's base64 HMAC-SHA256 of the raw
// request body; verification needs the body bytes exactly as sent.
const signatureHeader = "X-Line-Signature"

// Config holds the request-handling settings the server needs.
type Config struct {
	ChannelSecret string
	// SkipVerify disables signature checking, for local development
	// behind ad-hoc tunnels only.
	SkipVerify bool
	// OperatorUserID is the default target for the push utility when no
	// bound name is given.
	OperatorUserID string
}

// Server is the HTTP handler for the bot's endpoints.
type Server struct {
	store       *binding.Store
	interpreter *command.Interpreter
	coordinator *delivery.Coordinator
	cfg         Config
	mux         *http.ServeMux
}

// NewServer wires the store, interpreter, and coordinator into an
// http.Handler.
func NewServer(store *binding.Store, interpreter *command.Interpreter, coordinator *delivery.Coordinator, cfg Config) *Server {
	s := &Server{
		store:       store,
		interpreter: interpreter,
		coordinator: coordinator,
		cfg:         cfg,
		mux:         http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /webhook", s.handleWebhook)
	s.mux.HandleFunc("GET /push", s.handlePush)
	s.mux.HandleFunc("POST /push", s.handlePush)
	return s
}

// ServeHTTP delegates to the internal mux, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// event mirrors the platform webhook event fields this bot reads.
type event struct {
	Type       string `json:"type"`
	ReplyToken string `json:"replyToken"`
	Source     struct {
		Type   string `json:"type"`
		UserID string `json:"userId"`
	} `json:"source"`
	Message struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"message"`
}

type webhookPayload struct {
	Events []event `json:"events"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, `{"error":"read body"}`, http.StatusBadRequest)
		return
	}

	if !s.cfg.SkipVerify {
		if !ValidSignature(s.cfg.ChannelSecret, body, r.Header.Get(signatureHeader)) {
			slog.Warn("webhook signature mismatch", "remote", r.RemoteAddr)
			http.Error(w, `{"error":"invalid signature"}`, http.StatusBadRequest)
			return
		}
	}

	// From here on the platform gets a 200 no matter what happens to
	// individual events; anything else triggers upstream redelivery.
	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.Error("webhook payload unparseable", "error", err)
	}

	reqID := uuid.New().String()
	for _, ev := range payload.Events {
		if ev.Type != "message" || ev.Message.Type != "text" {
			continue
		}
		s.handleTextEvent(r.Context(), reqID, ev)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleTextEvent(ctx context.Context, reqID string, ev event) {
	reply := s.interpreter.Respond(ev.Source.UserID, ev.Message.Text)

	var res delivery.Result
	if reply.Confirmation {
		res = s.coordinator.SendConfirmation(ctx, ev.ReplyToken, ev.Source.UserID, reply.Text, command.ConfirmationAck)
	} else {
		res = s.coordinator.SendReply(ctx, ev.ReplyToken, ev.Source.UserID, reply.Text)
	}
	if !res.Delivered() {
		slog.Error("event delivery gave up",
			"request_id", reqID,
			"user_id", ev.Source.UserID,
			"channel", string(res.Channel),
			"error", res.Err,
		)
	}
}

// pushRequest is the JSON body accepted by POST /push; GET uses the
// equivalent query parameters.
type pushRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	var req pushRequest
	if r.Method == http.MethodPost && strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
			return
		}
	} else {
		req.Name = r.URL.Query().Get("name")
		req.Text = r.URL.Query().Get("text")
	}

	if req.Text == "" {
		http.Error(w, `{"error":"text is required"}`, http.StatusBadRequest)
		return
	}

	target := s.cfg.OperatorUserID
	if req.Name != "" {
		uid, ok := s.store.Load().UserID(req.Name)
		if !ok {
			http.Error(w, `{"error":"unknown name"}`, http.StatusNotFound)
			return
		}
		target = uid
	}
	if target == "" {
		http.Error(w, `{"error":"name or operator_user_id required"}`, http.StatusBadRequest)
		return
	}

	if err := s.coordinator.PushDirect(r.Context(), target, req.Text); err != nil {
		slog.Error("operator push failed", "target", target, "error", err)
		http.Error(w, `{"error":"push failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "sent", "to": target})
}
