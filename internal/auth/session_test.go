package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/maison-storefront/internal/auth/domain"
	"github.com/jcmexdev/maison-storefront/internal/pkg/kvstore"
)

func newTestSession(t *testing.T, store kvstore.Store) *Session {
	t.Helper()
	s, err := NewSession(context.Background(), store, "browser-1", DefaultVerifier(), SessionOptions{})
	require.NoError(t, err)
	return s
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantOK   bool
		wantTier domain.Tier
	}{
		{name: "standard account", username: "od", password: "password", wantOK: true, wantTier: domain.TierStandard},
		{name: "exclusive account", username: "vip", password: "password", wantOK: true, wantTier: domain.TierExclusive},
		{name: "wrong password", username: "od", password: "nope"},
		{name: "case sensitive username", username: "OD", password: "password"},
		{name: "case sensitive password", username: "vip", password: "Password"},
		{name: "unknown user", username: "ghost", password: "password"},
		{name: "empty", username: "", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, kvstore.NewMemory())

			res, err := s.Login(context.Background(), tt.username, tt.password)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, res.Success)

			id, ok := s.Current()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Empty(t, res.Error)
				assert.Equal(t, tt.username, id.Username)
				assert.Equal(t, tt.wantTier, id.Tier)
			} else {
				assert.NotEmpty(t, res.Error)
				assert.Nil(t, res.Identity)
			}
		})
	}
}

func TestSessionRestore(t *testing.T) {
	store := kvstore.NewMemory()
	s := newTestSession(t, store)

	_, err := s.Login(context.Background(), "vip", "password")
	require.NoError(t, err)

	restored := newTestSession(t, store)
	id, ok := restored.Current()
	require.True(t, ok)
	assert.Equal(t, "vip", id.Username)
	assert.Equal(t, int64(2), restored.EarnMultiplier())
}

func TestSessionRestore_CorruptRecord(t *testing.T) {
	store := kvstore.NewMemory()
	key := kvstore.Key{Namespace: kvstore.NamespaceSessionIdentity, Owner: "browser-1"}
	require.NoError(t, store.Set(context.Background(), key, []byte("{{{")))

	s := newTestSession(t, store)
	_, ok := s.Current()
	assert.False(t, ok)

	_, err := store.Get(context.Background(), key)
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestLogout(t *testing.T) {
	store := kvstore.NewMemory()
	s := newTestSession(t, store)

	var seen []string
	s.OnChange(func(ctx context.Context, identity *domain.Identity) error {
		if identity == nil {
			seen = append(seen, "<none>")
		} else {
			seen = append(seen, identity.Username)
		}
		return nil
	})

	_, err := s.Login(context.Background(), "od", "password")
	require.NoError(t, err)
	require.NoError(t, s.Logout(context.Background()))

	_, ok := s.Current()
	assert.False(t, ok)
	assert.Equal(t, int64(1), s.EarnMultiplier())
	assert.Equal(t, []string{"od", "<none>"}, seen)

	restored := newTestSession(t, store)
	_, ok = restored.Current()
	assert.False(t, ok)
}

func TestLogin_CancelledBeforeLatencyAppliesNothing(t *testing.T) {
	store := kvstore.NewMemory()
	s, err := NewSession(context.Background(), store, "browser-1", DefaultVerifier(), SessionOptions{Latency: time.Hour})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err = s.Login(ctx, "od", "password")
	assert.True(t, errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded), "got %v", err)

	_, ok := s.Current()
	assert.False(t, ok)
}

func TestTierMultiplier(t *testing.T) {
	assert.Equal(t, int64(2), domain.TierExclusive.EarnMultiplier())
	assert.Equal(t, int64(1), domain.TierStandard.EarnMultiplier())
	assert.Equal(t, int64(1), domain.Tier("").EarnMultiplier())
}

func TestLogin_ListenerFailureKeepsPreviousIdentity(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	s := newTestSession(t, store)

	res, err := s.Login(ctx, "od", "password")
	require.NoError(t, err)
	require.True(t, res.Success)

	var seen []string
	s.OnChange(func(_ context.Context, id *domain.Identity) error {
		if id == nil {
			seen = append(seen, "")
		} else {
			seen = append(seen, id.Username)
		}
		return nil
	})
	s.OnChange(func(_ context.Context, id *domain.Identity) error {
		if id != nil && id.Username == "vip" {
			return errors.New("ledger unavailable")
		}
		return nil
	})

	_, err = s.Login(ctx, "vip", "password")
	require.ErrorContains(t, err, "ledger unavailable")

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "od", current.Username)
	assert.Equal(t, []string{"vip", "od"}, seen, "earlier listeners are switched back")

	restored := newTestSession(t, store)
	current, ok = restored.Current()
	require.True(t, ok)
	assert.Equal(t, "od", current.Username)
}

func TestLogin_ListenerFailureFromSignedOut(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	s := newTestSession(t, store)
	s.OnChange(func(context.Context, *domain.Identity) error { return errors.New("boom") })

	_, err := s.Login(ctx, "od", "password")
	require.Error(t, err)

	_, ok := s.Current()
	assert.False(t, ok)
	_, err = store.Get(ctx, kvstore.Key{Namespace: kvstore.NamespaceSessionIdentity, Owner: "browser-1"})
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}
