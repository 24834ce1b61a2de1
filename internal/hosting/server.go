// Package hosting exposes a Responder over the Responses protocol:
// one POST /responses endpoint per process, JSON in, JSON envelope out.
package hosting

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	ai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"contoso/concierge/internal/core"
)

const shutdownGrace = 5 * time.Second

// errorApology is returned in a normal envelope when the responder
// fails; the caller always receives some text for a turn.
const errorApology = "Sorry, an unexpected error occurred while handling your request. Please try again."

// Responder is any text-in/text-out agent: the router and both
// specialists satisfy it.
type Responder interface {
	Respond(ctx context.Context, history []ai.ChatCompletionMessage) (string, error)
}

type Server struct {
	name      string
	responder Responder
	log       *zap.SugaredLogger
}

func NewServer(name string, responder Responder) *Server {
	return &Server{
		name:      name,
		responder: responder,
		log:       core.GetLogger().With("agent", name),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/responses", s.handleResponses)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// ListenAndServe blocks until the listener fails or ctx is cancelled,
// then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Infof("Listening on %s", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleResponses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "only POST is supported")
		return
	}

	var req struct {
		Input json.RawMessage `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	history, err := parseInput(req.Input)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	text, err := s.responder.Respond(r.Context(), history)
	if err != nil {
		// Failure still answers the turn; silent failure is not an option.
		s.log.Errorw("Responder failed", "error", err)
		text = errorApology
	}
	s.log.Infow("Request completed", "duration_ms", time.Since(start).Milliseconds())

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(newEnvelope(text))
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"message": message},
	})
}
