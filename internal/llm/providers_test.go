package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const classificationJSON = `{"classification":"Business","confidence":91,"reasoning":"Contains a legal suffix","sicCode":"7389","sicDescription":"Business Services"}`

func TestOpenAIClient_Classify(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		statusCode int
		wantKind   ErrorKind
		wantErr    bool
	}{
		{
			name:       "successful classification",
			body:       `{"choices":[{"index":0,"message":{"role":"assistant","content":` + quote(classificationJSON) + `}}]}`,
			statusCode: http.StatusOK,
		},
		{
			name:       "fenced content",
			body:       `{"choices":[{"index":0,"message":{"role":"assistant","content":` + quote("```json\n"+classificationJSON+"\n```") + `}}]}`,
			statusCode: http.StatusOK,
		},
		{
			name:       "auth failure",
			body:       `{"error":"bad key"}`,
			statusCode: http.StatusUnauthorized,
			wantErr:    true,
			wantKind:   ErrorKindAuth,
		},
		{
			name:       "no choices",
			body:       `{"choices":[]}`,
			statusCode: http.StatusOK,
			wantErr:    true,
			wantKind:   ErrorKindParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/v1/chat/completions", r.URL.Path)
				assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

				var req map[string]any
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "gpt-4o-mini", req["model"])

				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := newOpenAIClient(Config{APIKey: "test-key", BaseURL: server.URL})
			require.NoError(t, err)

			resp, err := client.Classify(context.Background(), "Test prompt")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, KindOf(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Business", resp.Classification)
			assert.InDelta(t, 91, resp.Confidence, 0.001)
			assert.Equal(t, "7389", resp.SICCode)
		})
	}
}

func TestAnthropicClient_Classify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":` + quote(classificationJSON) + `}]}`))
	}))
	defer server.Close()

	client, err := newAnthropicClient(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := client.Classify(context.Background(), "Test prompt")
	require.NoError(t, err)
	assert.Equal(t, "Business", resp.Classification)
	assert.Equal(t, "Business Services", resp.SICDescription)
}

func TestAnthropicClient_QuotaError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := newAnthropicClient(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Classify(context.Background(), "Test prompt")
	require.Error(t, err)
	assert.Equal(t, ErrorKindQuota, KindOf(err))
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(Config{Provider: "openai"})
	require.Error(t, err, "missing key")

	_, err = NewClient(Config{Provider: "carrier-pigeon", APIKey: "k"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported LLM provider")

	client, err := NewClient(Config{Provider: "Anthropic", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &anthropicClient{}, client)
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
