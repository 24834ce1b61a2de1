package subagent

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"contoso/concierge/internal/auth"
)

func newTestClient(endpoint string) *Client {
	return NewClient(Config{
		Endpoint:   endpoint,
		APIVersion: "2025-11-15-preview",
		Timeout:    5 * time.Second,
	}, auth.StaticTokenSource("test-token"))
}

func TestQuery_RequestShape(t *testing.T) {
	var (
		gotPath   string
		gotQuery  string
		gotAuth   string
		gotBody   invokeRequest
		gotStream any
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("api-version")
		gotAuth = r.Header.Get("Authorization")

		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &gotBody); err != nil {
			t.Errorf("request body did not decode: %v", err)
		}
		var raw map[string]any
		_ = json.Unmarshal(data, &raw)
		gotStream = raw["stream"]

		_ = json.NewEncoder(w).Encode(map[string]string{"output_text": "ok"})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	question := "How are drive-thru times trending in the Southwest?"
	got := client.Query(context.Background(), question, Reference{Name: "ContosoOpsAgent", Version: "3"})

	if got != "ok" {
		t.Errorf("expected response text 'ok', got %q", got)
	}
	if gotPath != "/openai/responses" {
		t.Errorf("expected path /openai/responses, got %s", gotPath)
	}
	if gotQuery != "2025-11-15-preview" {
		t.Errorf("expected api-version query param, got %q", gotQuery)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("expected bearer auth header, got %q", gotAuth)
	}
	if len(gotBody.Input) != 1 || gotBody.Input[0].Role != "user" || gotBody.Input[0].Content != question {
		t.Errorf("question was not forwarded verbatim: %+v", gotBody.Input)
	}
	if gotBody.Agent.Type != "agent_reference" || gotBody.Agent.Name != "ContosoOpsAgent" || gotBody.Agent.Version != "3" {
		t.Errorf("unexpected agent reference: %+v", gotBody.Agent)
	}
	if gotStream != false {
		t.Errorf("expected stream:false to be serialized, got %v", gotStream)
	}
}

func TestQuery_ResponseShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "top level output_text",
			body: `{"output_text": "direct text"}`,
			want: "direct text",
		},
		{
			name: "output array with object blocks",
			body: `{"output": [{"type": "message", "content": [{"type": "output_text", "text": "part one"}, {"type": "output_text", "text": "part two"}]}]}`,
			want: "part one\npart two",
		},
		{
			name: "output array with string blocks",
			body: `{"output": [{"type": "message", "content": ["just a string"]}]}`,
			want: "just a string",
		},
		{
			name: "output array mixing strings and objects",
			body: `{"output": [{"type": "message", "content": ["lead", {"text": "tail"}]}]}`,
			want: "lead\ntail",
		},
		{
			name: "non message items skipped",
			body: `{"output": [{"type": "reasoning", "content": [{"text": "chain"}]}, {"type": "message", "content": [{"text": "answer"}]}]}`,
			want: "answer",
		},
		{
			name: "choices fallback",
			body: `{"choices": [{"message": {"content": "from choices"}}]}`,
			want: "from choices",
		},
		{
			name: "output_text wins over choices",
			body: `{"output_text": "primary", "choices": [{"message": {"content": "secondary"}}]}`,
			want: "primary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := newTestClient(srv.URL)
			got := client.Query(context.Background(), "question", Reference{Name: "ContosoOpsAgent", Version: "1"})
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestQuery_MissingEndpoint(t *testing.T) {
	client := newTestClient("")
	got := client.Query(context.Background(), "question", Reference{Name: "ContosoMenuAgent", Version: "1"})

	if !strings.Contains(got, "FOUNDRY_PROJECT_ENDPOINT") {
		t.Errorf("expected configuration error message, got %q", got)
	}
	if !strings.Contains(got, "ContosoMenuAgent") {
		t.Errorf("expected agent name in message, got %q", got)
	}
}

func TestQuery_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	got := client.Query(context.Background(), "question", Reference{Name: "ContosoOpsAgent", Version: "1"})

	if !strings.Contains(got, "500") {
		t.Errorf("expected status code in message, got %q", got)
	}
	if !strings.Contains(got, "ContosoOpsAgent") {
		t.Errorf("expected agent name in message, got %q", got)
	}
}

func TestQuery_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := newTestClient(srv.URL)
	got := client.Query(context.Background(), "question", Reference{Name: "ContosoOpsAgent", Version: "1"})

	if !strings.Contains(got, "couldn't connect") {
		t.Errorf("expected connection error message, got %q", got)
	}
}

func TestQuery_UnparsablePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "completed"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	got := client.Query(context.Background(), "question", Reference{Name: "ContosoOpsAgent", Version: "1"})

	if !strings.Contains(got, "could not parse it") {
		t.Errorf("expected parse failure message, got %q", got)
	}
	if !strings.Contains(got, `"status"`) {
		t.Errorf("expected raw excerpt in message, got %q", got)
	}
}

func TestQuery_RawExcerptBounded(t *testing.T) {
	long := strings.Repeat("x", 5000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"garbage": "` + long + `"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	got := client.Query(context.Background(), "question", Reference{Name: "ContosoOpsAgent", Version: "1"})

	if len(got) > 1000 {
		t.Errorf("diagnostic message not bounded, length %d", len(got))
	}
}

func TestQuery_NeverReturnsEmptyOnFailure(t *testing.T) {
	// Repeated failures produce the same stable text each time.
	client := newTestClient("")
	first := client.Query(context.Background(), "q", Reference{Name: "ContosoOpsAgent", Version: "1"})
	second := client.Query(context.Background(), "q", Reference{Name: "ContosoOpsAgent", Version: "1"})

	if first == "" || first != second {
		t.Errorf("failure text should be stable and non-empty: %q vs %q", first, second)
	}
}
