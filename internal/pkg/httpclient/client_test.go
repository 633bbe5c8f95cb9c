package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reply struct {
	Errors []string `json:"errors"`
}

func serve(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestClient_PostJSON_SendsHeaders(t *testing.T) {
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, BrowserUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "session=abc", r.Header.Get("Cookie"))
		w.Write([]byte(`{"errors":["late"]}`))
	})
	client := New(0, map[string]string{"User-Agent": BrowserUserAgent})

	var out reply
	err := client.PostJSON(context.Background(), url, http.Header{"Cookie": {"session=abc"}}, map[string]int{"a": 1}, &out)

	require.NoError(t, err)
	assert.Equal(t, []string{"late"}, out.Errors)
}

func TestClient_Non2xxIsStatusError(t *testing.T) {
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})

	err := New(0, nil).GetJSON(context.Background(), url, nil, &reply{})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Equal(t, "nope\n", statusErr.Body)
}

func TestClient_Empty2xxIsSuccess(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"no content", http.StatusNoContent},
		{"created without body", http.StatusCreated},
		{"ok without body", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := serve(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			out := reply{}
			err := New(0, nil).PostJSON(context.Background(), url, nil, struct{}{}, &out)

			require.NoError(t, err)
			assert.Empty(t, out.Errors)
		})
	}
}

func TestClient_Malformed2xxIsError(t *testing.T) {
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":`))
	})

	err := New(0, nil).GetJSON(context.Background(), url, nil, &reply{})

	assert.ErrorContains(t, err, "failed to decode response")
}
