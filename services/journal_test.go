package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAssertOwnershipAllowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/journals/j1", r.URL.Path)
		assert.Equal(t, "u1", r.URL.Query().Get("userId"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewJournalClient(srv.URL, time.Second, zap.NewNop())
	require.NoError(t, c.AssertOwnership(context.Background(), "j1", "u1"))
}

func TestAssertOwnershipDenied(t *testing.T) {
	for _, status := range []int{http.StatusForbidden, http.StatusNotFound, http.StatusUnauthorized} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))
		c := NewJournalClient(srv.URL, time.Second, zap.NewNop())
		err := c.AssertOwnership(context.Background(), "j1", "u1")
		assert.ErrorIs(t, err, ErrOwnershipDenied, "status %d", status)
		srv.Close()
	}
}

func TestAssertOwnershipServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewJournalClient(srv.URL, time.Second, zap.NewNop())
	err := c.AssertOwnership(context.Background(), "j1", "u1")
	assert.ErrorIs(t, err, ErrJournalUnavailable)
}

func TestAssertOwnershipTimeoutIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewJournalClient(srv.URL, 50*time.Millisecond, zap.NewNop())
	start := time.Now()
	err := c.AssertOwnership(context.Background(), "j1", "u1")
	assert.ErrorIs(t, err, ErrJournalUnavailable)
	assert.Less(t, time.Since(start), 250*time.Millisecond, "the check must not wait out the slow server")
}

func TestAssertOwnershipUnreachableHost(t *testing.T) {
	c := NewJournalClient("http://127.0.0.1:1", 200*time.Millisecond, zap.NewNop())
	err := c.AssertOwnership(context.Background(), "j1", "u1")
	assert.ErrorIs(t, err, ErrJournalUnavailable)
}

func TestAssertOwnershipEmptyJournalSkipsRemoteCall(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewJournalClient(srv.URL, time.Second, zap.NewNop())
	require.NoError(t, c.AssertOwnership(context.Background(), "", "u1"))
	assert.Zero(t, atomic.LoadInt64(&calls))
}
