package rate

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	xerrors "agricure-auth-service/pkg/xerrors"
)

// memStore mimics the cache surface: values plus the TTL each key was set
// with. TTLs do not tick; tests expire keys by deleting them.
type memStore struct {
	vals map[string]string
	ttls map[string]time.Duration
}

func newMemStore() *memStore {
	return &memStore{vals: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *memStore) Set(ctx context.Context, namespace, key string, value interface{}, ttl time.Duration) error {
	k := namespace + ":" + key
	switch v := value.(type) {
	case string:
		m.vals[k] = v
	default:
		m.vals[k] = "1"
	}
	m.ttls[k] = ttl
	return nil
}

func (m *memStore) Get(ctx context.Context, namespace, key string) (string, error) {
	v, ok := m.vals[namespace+":"+key]
	if !ok {
		return "", errors.New("redis: nil")
	}
	return v, nil
}

func (m *memStore) GetTTL(ctx context.Context, namespace, key string) (time.Duration, error) {
	ttl, ok := m.ttls[namespace+":"+key]
	if !ok {
		return -2, nil
	}
	return ttl, nil
}

func (m *memStore) IncrWithExpire(ctx context.Context, namespace, key string, window time.Duration) (int64, error) {
	k := namespace + ":" + key
	cnt, _ := strconv.Atoi(m.vals[k])
	cnt++
	m.vals[k] = strconv.Itoa(cnt)
	if cnt == 1 {
		m.ttls[k] = window
	}
	return int64(cnt), nil
}

func (m *memStore) expire(namespace, key string) {
	k := namespace + ":" + key
	delete(m.vals, k)
	delete(m.ttls, k)
}

func newTestLimiter(store Store) *Limiter {
	return NewLimiter(store, 10*time.Minute, 5, 60*time.Second)
}

func TestCanRequestDoesNotArmCooldown(t *testing.T) {
	store := newMemStore()
	l := newTestLimiter(store)

	// Repeated checks are free: nothing is consumed until a send succeeds.
	for i := 0; i < 3; i++ {
		if err := l.CanRequest(context.Background(), "flow-1"); err != nil {
			t.Fatalf("CanRequest %d: %v", i+1, err)
		}
	}
	if _, ok := store.vals["otp_rate:last:flow-1"]; ok {
		t.Fatal("a check must not start the cooldown")
	}
	if _, ok := store.vals["otp_rate:count:flow-1"]; ok {
		t.Fatal("a check must not consume a window slot")
	}
	if got := l.CooldownRemaining(context.Background(), "flow-1"); got != 0 {
		t.Fatalf("CooldownRemaining = %v, want 0", got)
	}
}

func TestMarkSentStartsCooldown(t *testing.T) {
	store := newMemStore()
	l := newTestLimiter(store)

	if err := l.MarkSent(context.Background(), "flow-1"); err != nil {
		t.Fatalf("MarkSent: %v", err)
	}
	if store.vals["otp_rate:count:flow-1"] != "1" {
		t.Fatalf("count = %q, want 1", store.vals["otp_rate:count:flow-1"])
	}

	err := l.CanRequest(context.Background(), "flow-1")
	if !errors.Is(err, xerrors.ErrResendTooSoon) {
		t.Fatalf("err = %v, want ErrResendTooSoon", err)
	}
	if got := l.CooldownRemaining(context.Background(), "flow-1"); got != 60*time.Second {
		t.Fatalf("CooldownRemaining = %v", got)
	}
}

func TestCooldownExpiryAllowsNextSend(t *testing.T) {
	store := newMemStore()
	l := newTestLimiter(store)

	l.MarkSent(context.Background(), "flow-1")
	store.expire("otp_rate", "last:flow-1")

	if err := l.CanRequest(context.Background(), "flow-1"); err != nil {
		t.Fatalf("CanRequest after cooldown expiry: %v", err)
	}
}

func TestWindowCapBlocksFlow(t *testing.T) {
	store := newMemStore()
	l := newTestLimiter(store)

	for i := 0; i < 5; i++ {
		if err := l.MarkSent(context.Background(), "flow-1"); err != nil {
			t.Fatalf("MarkSent %d: %v", i+1, err)
		}
		store.expire("otp_rate", "last:flow-1")
	}

	err := l.CanRequest(context.Background(), "flow-1")
	if !errors.Is(err, xerrors.ErrTooManyOTPRequests) {
		t.Fatalf("err = %v, want ErrTooManyOTPRequests", err)
	}
	if _, ok := store.vals["otp_rate:block:flow-1"]; !ok {
		t.Fatal("exceeding the window cap must set the block key")
	}

	// Subsequent checks hit the block directly.
	if err := l.CanRequest(context.Background(), "flow-1"); !errors.Is(err, xerrors.ErrTooManyOTPRequests) {
		t.Fatalf("blocked flow: err = %v", err)
	}
}

func TestLimiterFlowsIndependent(t *testing.T) {
	store := newMemStore()
	l := newTestLimiter(store)

	l.MarkSent(context.Background(), "flow-1")
	if err := l.CanRequest(context.Background(), "flow-2"); err != nil {
		t.Fatalf("unrelated flow blocked: %v", err)
	}
}
