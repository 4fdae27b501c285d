package payout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/DaviDemarqui/workwise-v1/internal/governance"
	"github.com/DaviDemarqui/workwise-v1/pkg/middleware"
	"github.com/DaviDemarqui/workwise-v1/pkg/response"
)

const (
	alice = governance.Identity("0x00000000000000000000000000000000000000a1")
	bob   = governance.Identity("0x00000000000000000000000000000000000000b2")
)

// memStore is an in-memory Store with the same transition rules as Repository
type memStore struct {
	mu      sync.Mutex
	payouts map[int64]*Payout
	listErr error
}

func newMemStore(payouts ...*Payout) *memStore {
	s := &memStore{payouts: make(map[int64]*Payout)}
	for _, p := range payouts {
		s.payouts[p.ID] = p
	}
	return s
}

func (s *memStore) get(id int64) *Payout {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *s.payouts[id]
	return &c
}

func (s *memStore) GetByID(_ context.Context, id int64) (*Payout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payouts[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (s *memStore) ListByRecipient(_ context.Context, recipient governance.Identity, limit, offset int) ([]*Payout, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Payout
	for _, p := range s.sorted() {
		if p.Recipient == recipient {
			c := *p
			out = append(out, &c)
		}
	}
	total := len(out)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return out[offset:end], total, nil
}

func (s *memStore) ListPending(_ context.Context, limit int) ([]*Payout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []*Payout
	for _, p := range s.sorted() {
		if p.Status == StatusPending && len(out) < limit {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *memStore) MarkSent(_ context.Context, id int64, txRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payouts[id]
	if !ok || p.Status != StatusPending {
		return ErrInvalidStatusChange
	}
	p.Status = StatusSent
	p.Attempts++
	p.TxRef = &txRef
	p.LastError = nil
	return nil
}

func (s *memStore) MarkAttemptFailed(_ context.Context, id int64, reason string, maxAttempts int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payouts[id]
	if !ok || p.Status != StatusPending {
		return ErrInvalidStatusChange
	}
	p.Attempts++
	p.LastError = &reason
	if p.Attempts >= maxAttempts {
		p.Status = StatusFailed
	}
	return nil
}

func (s *memStore) Requeue(_ context.Context, id int64) (*Payout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payouts[id]
	if !ok || p.Status != StatusFailed {
		return nil, ErrInvalidStatusChange
	}
	p.Status = StatusPending
	p.Attempts = 0
	c := *p
	return &c, nil
}

// sorted must be called with mu held
func (s *memStore) sorted() []*Payout {
	out := make([]*Payout, 0, len(s.payouts))
	for _, p := range s.payouts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeTransferer struct {
	mu    sync.Mutex
	fail  map[int64]bool
	calls []int64
	sent  chan int64
}

func (f *fakeTransferer) Transfer(_ context.Context, p *Payout) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, p.ID)
	fail := f.fail[p.ID]
	f.mu.Unlock()

	if fail {
		return "", errors.New("recipient rejected transfer")
	}
	if f.sent != nil {
		f.sent <- p.ID
	}
	return fmt.Sprintf("ref-%d", p.ID), nil
}

type fakeMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func (f *fakeMetrics) RecordPayout(status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts == nil {
		f.counts = make(map[string]int)
	}
	f.counts[status]++
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pending(id int64, to governance.Identity) *Payout {
	return &Payout{
		ID:        id,
		Seq:       id,
		Recipient: to,
		Amount:    100_000_000_000_000,
		Reason:    governance.RefundReasonLeave,
		Status:    StatusPending,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestDispatcher_RunOnce(t *testing.T) {
	store := newMemStore(pending(1, alice), pending(2, bob), pending(3, alice))
	transferer := &fakeTransferer{fail: map[int64]bool{2: true}}
	metrics := &fakeMetrics{}
	d := NewDispatcher(store, transferer, discardLogger(), metrics, DispatcherConfig{BatchSize: 10, MaxAttempts: 2})

	require.NoError(t, d.RunOnce(context.Background()))

	assert.Equal(t, StatusSent, store.get(1).Status)
	require.NotNil(t, store.get(1).TxRef)
	assert.Equal(t, StatusSent, store.get(3).Status)

	failed := store.get(2)
	assert.Equal(t, StatusPending, failed.Status, "attempts remain")
	assert.Equal(t, 1, failed.Attempts)
	require.NotNil(t, failed.LastError)
	assert.Equal(t, "recipient rejected transfer", *failed.LastError)

	require.NoError(t, d.RunOnce(context.Background()))
	assert.Equal(t, StatusFailed, store.get(2).Status)
	assert.Equal(t, 2, store.get(2).Attempts)
	assert.Equal(t, []int64{1, 2, 3, 2}, transferer.calls)
	assert.Equal(t, map[string]int{"SENT": 2, "FAILED": 1}, metrics.counts)

	require.NoError(t, d.RunOnce(context.Background()))
	assert.Len(t, transferer.calls, 4, "failed payouts are not retried automatically")
}

func TestDispatcher_BatchSize(t *testing.T) {
	store := newMemStore(pending(1, alice), pending(2, alice), pending(3, alice))
	transferer := &fakeTransferer{}
	d := NewDispatcher(store, transferer, discardLogger(), nil, DispatcherConfig{BatchSize: 2})

	require.NoError(t, d.RunOnce(context.Background()))
	assert.Equal(t, []int64{1, 2}, transferer.calls)
	assert.Equal(t, StatusPending, store.get(3).Status)
}

func TestDispatcher_ListError(t *testing.T) {
	store := newMemStore()
	store.listErr = errors.New("connection refused")
	d := NewDispatcher(store, &fakeTransferer{}, discardLogger(), nil, DispatcherConfig{})

	assert.EqualError(t, d.RunOnce(context.Background()), "connection refused")
}

func TestDispatcher_StartAndNotify(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := newMemStore()
	transferer := &fakeTransferer{sent: make(chan int64, 1)}
	d := NewDispatcher(store, transferer, discardLogger(), nil, DispatcherConfig{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Start(ctx)
	}()

	store.mu.Lock()
	store.payouts[7] = pending(7, bob)
	store.mu.Unlock()
	d.Notify()
	d.Notify()

	select {
	case id := <-transferer.sent:
		assert.Equal(t, int64(7), id)
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher was not woken")
	}

	cancel()
	<-done
}

func TestService(t *testing.T) {
	ctx := context.Background()

	failedPayout := pending(2, alice)
	failedPayout.Status = StatusFailed
	failedPayout.Attempts = 5
	store := newMemStore(pending(1, alice), failedPayout, pending(3, bob))

	notified := 0
	svc := NewService(store, func() { notified++ })

	t.Run("get own payout", func(t *testing.T) {
		p, err := svc.GetByID(ctx, 1, alice)
		require.NoError(t, err)
		assert.Equal(t, alice, p.Recipient)
	})

	t.Run("get someone else's payout", func(t *testing.T) {
		_, err := svc.GetByID(ctx, 3, alice)
		assert.ErrorIs(t, err, ErrNotRecipient)
	})

	t.Run("get missing payout", func(t *testing.T) {
		_, err := svc.GetByID(ctx, 99, alice)
		assert.ErrorIs(t, err, ErrPayoutNotFound)
	})

	t.Run("list normalizes paging", func(t *testing.T) {
		payouts, total, err := svc.ListByRecipient(ctx, alice, 0, 1000)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, payouts, 2)
	})

	t.Run("list past the last page", func(t *testing.T) {
		payouts, total, err := svc.ListByRecipient(ctx, alice, math.MaxInt, 20)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Empty(t, payouts)
	})

	t.Run("retry pending payout is invalid", func(t *testing.T) {
		_, err := svc.Retry(ctx, 1, alice)
		assert.ErrorIs(t, err, ErrInvalidStatusChange)
		assert.Zero(t, notified)
	})

	t.Run("retry failed payout requeues it", func(t *testing.T) {
		p, err := svc.Retry(ctx, 2, alice)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, p.Status)
		assert.Zero(t, p.Attempts)
		assert.Equal(t, 1, notified)
	})
}

func TestHandler(t *testing.T) {
	failedPayout := pending(2, alice)
	failedPayout.Status = StatusFailed
	store := newMemStore(pending(1, alice), failedPayout, pending(3, bob))

	r := chi.NewRouter()
	r.Use(middleware.IdentityMiddleware)
	r.Mount("/payouts", NewHandler(NewService(store, nil)).Routes())

	do := func(method, path string, caller governance.Identity) (*httptest.ResponseRecorder, response.APIResponse) {
		req := httptest.NewRequest(method, path, nil)
		if caller != "" {
			req.Header.Set(middleware.IdentityHeader, string(caller))
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		var body response.APIResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		return rec, body
	}

	rec, body := do(http.MethodGet, "/payouts", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body = do(http.MethodGet, "/payouts", alice)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 2, body.Meta.Total)

	rec, _ = do(http.MethodGet, "/payouts/3", alice)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = do(http.MethodGet, "/payouts/abc", alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(http.MethodGet, "/payouts/42", alice)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(http.MethodPost, "/payouts/1/retry", alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = do(http.MethodPost, "/payouts/2/retry", alice)
	assert.Equal(t, http.StatusOK, rec.Code)
	data, ok := body.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "PENDING", data["status"])
	assert.Equal(t, float64(100_000_000_000_000), data["amount"])
}
