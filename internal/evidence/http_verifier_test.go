package evidence

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cumplido-next/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	states []string
}

func (o *recordingObserver) ObserveEvidence(state string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.states = append(o.states, state)
}

func newTestVerifier(t *testing.T, handler http.HandlerFunc, timeoutMS int) (*HTTPVerifier, *recordingObserver) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	observer := &recordingObserver{}
	verifier := NewHTTPVerifier(config.EvidenceConfig{
		BaseURL:   server.URL + "/",
		APIKey:    "secret-key",
		TimeoutMS: timeoutMS,
	}, observer)
	return verifier, observer
}

func TestHTTPVerifierStates(t *testing.T) {
	cases := []struct {
		name      string
		status    int
		body      string
		wantState State
		wantCount int
	}{
		{name: "no media", status: http.StatusOK, body: `{"hasMedia":false,"mediaCount":0}`, wantState: NoEvidence},
		{name: "has media", status: http.StatusOK, body: `{"hasMedia":true,"mediaCount":2}`, wantState: HasEvidence, wantCount: 2},
		{name: "count without flag", status: http.StatusOK, body: `{"mediaCount":1}`, wantState: HasEvidence, wantCount: 1},
		{name: "server error", status: http.StatusInternalServerError, body: `{"hasMedia":false}`, wantState: Unknown},
		{name: "not found", status: http.StatusNotFound, body: ``, wantState: Unknown},
		{name: "garbage body", status: http.StatusOK, body: `not-json`, wantState: Unknown},
		{name: "empty object", status: http.StatusOK, body: `{}`, wantState: Unknown},
		{name: "negative count", status: http.StatusOK, body: `{"hasMedia":false,"mediaCount":-1}`, wantState: Unknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verifier, observer := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/verify-evidence/42", r.URL.Path)
				assert.Equal(t, "secret-key", r.Header.Get("X-API-Key"))
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}, 1000)

			result := verifier.Verify(context.Background(), 42)
			assert.Equal(t, tc.wantState, result.State)
			assert.Equal(t, tc.wantCount, result.MediaCount)
			assert.Equal(t, tc.wantState == NoEvidence, result.PermitsRemoval())
			if tc.wantState == Unknown {
				assert.Error(t, result.Err)
			}
			require.Len(t, observer.states, 1)
			assert.Equal(t, tc.wantState.String(), observer.states[0])
		})
	}
}

func TestHTTPVerifierTimeoutFailsClosed(t *testing.T) {
	release := make(chan struct{})
	verifier, _ := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte(`{"hasMedia":false,"mediaCount":0}`))
	}, 500)
	defer close(release)

	start := time.Now()
	result := verifier.Verify(context.Background(), 1)
	assert.Equal(t, Unknown, result.State)
	assert.False(t, result.PermitsRemoval())
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestHTTPVerifierUnreachableFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	verifier := NewHTTPVerifier(config.EvidenceConfig{BaseURL: baseURL, TimeoutMS: 1000}, nil)
	result := verifier.Verify(context.Background(), 9)
	assert.Equal(t, Unknown, result.State)
	assert.Error(t, result.Err)
}

func TestHTTPVerifierNotConfigured(t *testing.T) {
	verifier := NewHTTPVerifier(config.EvidenceConfig{}, nil)
	result := verifier.Verify(context.Background(), 1)
	assert.Equal(t, Unknown, result.State)
	assert.ErrorIs(t, result.Err, ErrNotConfigured)
}

func TestResolveTimeout(t *testing.T) {
	assert.Equal(t, 3*time.Second, ResolveTimeout(0))
	assert.Equal(t, 3*time.Second, ResolveTimeout(20000))
	assert.Equal(t, 500*time.Millisecond, ResolveTimeout(500))
	assert.Equal(t, 10*time.Second, ResolveTimeout(10000))
}
