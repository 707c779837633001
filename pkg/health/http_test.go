package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHTTPCheckerHealthyEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	checker := NewHTTPChecker(server.URL)
	result := checker.Check(context.Background())

	assert.True(t, result.Healthy, result.Message)
	assert.Equal(t, "healthy", result.Verdict.Status)
	assert.True(t, result.Verdict.ModelLoaded)
	assert.Greater(t, result.Duration, time.Duration(0))
}

func TestHTTPCheckerUnhealthyEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	checker := NewHTTPChecker(server.URL)
	result := checker.Check(context.Background())

	assert.False(t, result.Healthy)
	assert.Equal(t, "unhealthy", result.Verdict.Status)
	assert.Contains(t, result.Verdict.Error, "500")
}

func TestHTTPCheckerUnreachableEndpoint(t *testing.T) {
	// Reserve a port and close it so nothing answers
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	checker := NewHTTPChecker(url)
	result := checker.Check(context.Background())

	assert.False(t, result.Healthy)
	assert.Equal(t, "unhealthy", result.Verdict.Status)
}

func TestHTTPCheckerCustomStatusRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	checker := NewHTTPChecker(server.URL).WithStatusRange(200, 299)
	result := checker.Check(context.Background())

	assert.True(t, result.Healthy, result.Message)
}

func TestHTTPCheckerCustomHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Serving-Token") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	checker := NewHTTPChecker(server.URL).WithHeader("X-Serving-Token", "secret")
	result := checker.Check(context.Background())

	assert.True(t, result.Healthy, result.Message)
}

func TestHTTPCheckerTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	checker := NewHTTPChecker(server.URL).WithTimeout(50 * time.Millisecond)
	result := checker.Check(context.Background())

	assert.False(t, result.Healthy)
	assert.Equal(t, "unhealthy", result.Verdict.Status)
}

func TestHTTPCheckerContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewHTTPChecker(server.URL).Check(ctx)
	assert.False(t, result.Healthy)
}

func TestHTTPCheckerType(t *testing.T) {
	assert.Equal(t, CheckTypeHTTP, NewHTTPChecker("http://127.0.0.1:9000/health").Type())
}
