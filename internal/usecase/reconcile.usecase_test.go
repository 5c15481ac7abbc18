package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"agricure-auth-service/internal/domain"
	xerrors "agricure-auth-service/pkg/xerrors"
)

// memProfiles is an in-memory stand-in for the profiles table, applying the
// same null-coalescing merge the SQL upsert does. failFirst makes the first N
// writes fail to exercise the retry path.
type memProfiles struct {
	mu        sync.Mutex
	rows      map[string]domain.Profile
	calls     int
	failFirst int
	failErr   error
}

func newMemProfiles() *memProfiles {
	return &memProfiles{rows: make(map[string]domain.Profile)}
}

func (m *memProfiles) UpsertMerge(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.calls <= m.failFirst {
		if m.failErr != nil {
			return nil, m.failErr
		}
		return nil, errors.New("relation momentarily unavailable")
	}
	merged := m.rows[p.ID].Merge(*p)
	merged.ID = p.ID
	m.rows[p.ID] = merged
	out := merged
	return &out, nil
}

func (m *memProfiles) get(id string) (domain.Profile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	return p, ok
}

func stagedFixture() *domain.StagedSignup {
	return &domain.StagedSignup{
		FlowID:       "flow-1",
		Stage:        domain.StageOTPPending,
		ProductID:    "DEMO-001",
		FullName:     "Asha Patel",
		MobileNumber: "7877059117",
		Email:        "asha@x.com",
		Password:     "secret1",
		Channel:      domain.ChannelPhone,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func TestReconcileCreatesProfile(t *testing.T) {
	store := newMemProfiles()
	r := NewReconcilerWithRetry(store, 3, time.Second, func(time.Duration) {})

	if err := r.Reconcile(context.Background(), "user-7", stagedFixture()); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	p, ok := store.get("user-7")
	if !ok {
		t.Fatal("profile row missing")
	}
	if deref(p.FullName) != "Asha Patel" || deref(p.Email) != "asha@x.com" || deref(p.ProductID) != "DEMO-001" {
		t.Fatalf("profile fields = %+v", p)
	}
	if deref(p.PhoneNumber) != "+917877059117" {
		t.Fatalf("phone = %q, want canonical form", deref(p.PhoneNumber))
	}
}

func TestReconcileMergesOverTriggerRow(t *testing.T) {
	store := newMemProfiles()
	// The insert trigger got there first with a partial row: raw metadata
	// name, no product, no phone.
	store.rows["user-7"] = domain.Profile{
		ID:       "user-7",
		FullName: domain.StrPtr("Asha"),
		Email:    domain.StrPtr("asha@x.com"),
	}

	r := NewReconcilerWithRetry(store, 3, time.Second, func(time.Duration) {})
	if err := r.Reconcile(context.Background(), "user-7", stagedFixture()); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	p, _ := store.get("user-7")
	if deref(p.FullName) != "Asha Patel" {
		t.Fatalf("incoming non-null must win, got %q", deref(p.FullName))
	}
	if deref(p.ProductID) != "DEMO-001" || deref(p.PhoneNumber) != "+917877059117" {
		t.Fatalf("gaps not filled: %+v", p)
	}
}

func TestReconcileAbsentFieldsPreserveExisting(t *testing.T) {
	store := newMemProfiles()
	store.rows["user-7"] = domain.Profile{
		ID:    "user-7",
		Email: domain.StrPtr("kept@x.com"),
	}

	staged := stagedFixture()
	staged.Email = ""

	r := NewReconcilerWithRetry(store, 3, time.Second, func(time.Duration) {})
	if err := r.Reconcile(context.Background(), "user-7", staged); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	p, _ := store.get("user-7")
	if deref(p.Email) != "kept@x.com" {
		t.Fatalf("absent incoming field clobbered existing value: %q", deref(p.Email))
	}
}

func TestReconcileRetriesThenSucceeds(t *testing.T) {
	store := newMemProfiles()
	store.failFirst = 2
	var sleeps []time.Duration
	r := NewReconcilerWithRetry(store, 3, time.Second, func(d time.Duration) { sleeps = append(sleeps, d) })

	if err := r.Reconcile(context.Background(), "user-7", stagedFixture()); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if store.calls != 3 {
		t.Fatalf("calls = %d, want 3", store.calls)
	}
	// Fixed delay between attempts, unlike the OTP path's linear backoff.
	if len(sleeps) != 2 || sleeps[0] != time.Second || sleeps[1] != time.Second {
		t.Fatalf("sleeps = %v", sleeps)
	}
	if _, ok := store.get("user-7"); !ok {
		t.Fatal("profile row missing after eventual success")
	}
}

func TestReconcileExhaustedRetries(t *testing.T) {
	store := newMemProfiles()
	store.failFirst = 10
	r := NewReconcilerWithRetry(store, 3, time.Second, func(time.Duration) {})

	err := r.Reconcile(context.Background(), "user-7", stagedFixture())
	if !errors.Is(err, xerrors.ErrProfileReconciliation) {
		t.Fatalf("err = %v, want ErrProfileReconciliation", err)
	}
	if store.calls != 3 {
		t.Fatalf("calls = %d, want 3", store.calls)
	}
}

func TestReconcileDropsNonStorablePhone(t *testing.T) {
	store := newMemProfiles()
	staged := stagedFixture()
	staged.MobileNumber = "12345"

	r := NewReconcilerWithRetry(store, 3, time.Second, func(time.Duration) {})
	if err := r.Reconcile(context.Background(), "user-7", staged); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	p, _ := store.get("user-7")
	if p.PhoneNumber != nil {
		t.Fatalf("non-storable phone was written: %q", deref(p.PhoneNumber))
	}
	if deref(p.FullName) != "Asha Patel" {
		t.Fatal("rest of the row should still land")
	}
}

func TestReconcileIdempotent(t *testing.T) {
	store := newMemProfiles()
	r := NewReconcilerWithRetry(store, 3, time.Second, func(time.Duration) {})

	for i := 0; i < 2; i++ {
		if err := r.Reconcile(context.Background(), "user-7", stagedFixture()); err != nil {
			t.Fatalf("Reconcile pass %d: %v", i+1, err)
		}
	}

	p, _ := store.get("user-7")
	if deref(p.FullName) != "Asha Patel" || deref(p.PhoneNumber) != "+917877059117" {
		t.Fatalf("repeated reconciliation changed the row: %+v", p)
	}
}
