package hosting

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	ai "github.com/sashabaranov/go-openai"
)

// fakeResponder echoes the last message it received, or fails.
type fakeResponder struct {
	err     error
	history []ai.ChatCompletionMessage
}

func (f *fakeResponder) Respond(_ context.Context, history []ai.ChatCompletionMessage) (string, error) {
	f.history = history
	if f.err != nil {
		return "", f.err
	}
	return "echo: " + history[len(history)-1].Content, nil
}

func postResponses(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/responses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("response did not decode as envelope: %v", err)
	}
	return env
}

func TestHandleResponses_StringInput(t *testing.T) {
	responder := &fakeResponder{}
	server := NewServer("test", responder)

	rec := postResponses(t, server.Handler(), `{"input": "hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	if env.OutputText != "echo: hello" {
		t.Errorf("unexpected output_text: %q", env.OutputText)
	}
	if len(responder.history) != 1 || responder.history[0].Role != ai.ChatMessageRoleUser {
		t.Errorf("expected single user message, got %+v", responder.history)
	}
}

func TestHandleResponses_MessageArrayInput(t *testing.T) {
	responder := &fakeResponder{}
	server := NewServer("test", responder)

	body := `{"input": [{"role": "user", "content": "first"}, {"role": "assistant", "content": "reply"}, {"role": "user", "content": "second"}]}`
	rec := postResponses(t, server.Handler(), body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if len(responder.history) != 3 {
		t.Fatalf("expected full history, got %d messages", len(responder.history))
	}
	if responder.history[1].Role != ai.ChatMessageRoleAssistant {
		t.Errorf("roles not preserved: %+v", responder.history)
	}
	env := decodeEnvelope(t, rec)
	if env.OutputText != "echo: second" {
		t.Errorf("unexpected output_text: %q", env.OutputText)
	}
}

func TestHandleResponses_WrappedMessagesInput(t *testing.T) {
	responder := &fakeResponder{}
	server := NewServer("test", responder)

	body := `{"input": {"messages": [{"role": "user", "content": "wrapped"}]}}`
	rec := postResponses(t, server.Handler(), body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.OutputText != "echo: wrapped" {
		t.Errorf("unexpected output_text: %q", env.OutputText)
	}
}

func TestHandleResponses_EnvelopeShape(t *testing.T) {
	server := NewServer("test", &fakeResponder{})

	rec := postResponses(t, server.Handler(), `{"input": "hello"}`)
	env := decodeEnvelope(t, rec)

	if !strings.HasPrefix(env.ID, "resp_") {
		t.Errorf("expected resp_ id prefix, got %q", env.ID)
	}
	if env.Object != "response" || env.Status != "completed" {
		t.Errorf("unexpected envelope fields: %+v", env)
	}
	if len(env.Output) != 1 {
		t.Fatalf("expected one output message, got %d", len(env.Output))
	}
	msg := env.Output[0]
	if !strings.HasPrefix(msg.ID, "msg_") || msg.Type != "message" || msg.Role != "assistant" {
		t.Errorf("unexpected output message: %+v", msg)
	}
	if len(msg.Content) != 1 || msg.Content[0].Type != "output_text" || msg.Content[0].Text != env.OutputText {
		t.Errorf("output array and output_text disagree: %+v", msg.Content)
	}
}

func TestHandleResponses_ResponderFailureStillAnswers(t *testing.T) {
	responder := &fakeResponder{err: errors.New("model blew up")}
	server := NewServer("test", responder)

	rec := postResponses(t, server.Handler(), `{"input": "hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("failure must still answer the turn with 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !strings.Contains(env.OutputText, "Sorry") {
		t.Errorf("expected apology text, got %q", env.OutputText)
	}
	if strings.Contains(env.OutputText, "model blew up") {
		t.Errorf("internal error must not leak to the user: %q", env.OutputText)
	}
}

func TestHandleResponses_BadRequests(t *testing.T) {
	server := NewServer("test", &fakeResponder{})
	handler := server.Handler()

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"missing input", `{}`},
		{"empty message array", `{"input": []}`},
		{"unusable input type", `{"input": 42}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postResponses(t, handler, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHandleResponses_MethodNotAllowed(t *testing.T) {
	server := NewServer("test", &fakeResponder{})

	req := httptest.NewRequest(http.MethodGet, "/responses", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	server := NewServer("test", &fakeResponder{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestParseInput_DefaultsRoleToUser(t *testing.T) {
	history, err := parseInput(json.RawMessage(`[{"content": "no role"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if history[0].Role != ai.ChatMessageRoleUser {
		t.Errorf("expected user role default, got %q", history[0].Role)
	}
}
