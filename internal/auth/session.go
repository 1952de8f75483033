package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jcmexdev/maison-storefront/internal/auth/domain"
	"github.com/jcmexdev/maison-storefront/internal/pkg/async"
	"github.com/jcmexdev/maison-storefront/internal/pkg/kvstore"
)

const invalidCredentialsMessage = "Invalid username or password"

// LoginResult is the user-facing outcome of a login attempt. Bad credentials
// are a result, not an error.
type LoginResult struct {
	Success  bool             `json:"success"`
	Error    string           `json:"error,omitempty"`
	Identity *domain.Identity `json:"identity,omitempty"`
}

// ChangeFunc observes identity switches. identity is nil after logout.
type ChangeFunc func(ctx context.Context, identity *domain.Identity) error

// Session holds the identity signed in on one browser.
type Session struct {
	mu        sync.RWMutex
	current   *domain.Identity
	listeners []ChangeFunc

	verifier CredentialVerifier
	store    kvstore.Store
	key      kvstore.Key
	latency  time.Duration
}

type SessionOptions struct {
	// Latency simulates a round trip to an identity provider.
	Latency time.Duration
}

// NewSession restores a persisted identity before returning, so callers never
// observe a signed-out state for a signed-in browser.
func NewSession(ctx context.Context, store kvstore.Store, browserID string, verifier CredentialVerifier, opts SessionOptions) (*Session, error) {
	s := &Session{
		verifier: verifier,
		store:    store,
		key:      kvstore.Key{Namespace: kvstore.NamespaceSessionIdentity, Owner: browserID},
		latency:  opts.Latency,
	}

	var restored domain.Identity
	found, err := kvstore.LoadJSON(ctx, store, s.key, &restored)
	if err != nil {
		return nil, fmt.Errorf("auth: restore session: %w", err)
	}
	if found && restored.Username != "" {
		s.current = &restored
	}
	return s, nil
}

func (s *Session) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Session) Current() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return domain.Identity{}, false
	}
	return *s.current, true
}

// EarnMultiplier is 1 when nobody is signed in.
func (s *Session) EarnMultiplier() int64 {
	id, ok := s.Current()
	if !ok {
		return 1
	}
	return id.Tier.EarnMultiplier()
}

// Login verifies the pair after the configured latency. The returned error is
// reserved for cancellation and storage failures.
func (s *Session) Login(ctx context.Context, username, password string) (LoginResult, error) {
	task := async.After(ctx, s.latency, func(ctx context.Context) (LoginResult, error) {
		identity, err := s.verifier.Verify(ctx, username, password)
		if errors.Is(err, ErrInvalidCredentials) {
			slog.InfoContext(ctx, "login rejected", "username", username)
			return LoginResult{Success: false, Error: invalidCredentialsMessage}, nil
		}
		if err != nil {
			return LoginResult{}, fmt.Errorf("auth: verify: %w", err)
		}

		prev := s.currentPtr()
		if err := s.persist(ctx, &identity); err != nil {
			return LoginResult{}, fmt.Errorf("auth: persist session: %w", err)
		}
		if err := s.setCurrent(ctx, &identity); err != nil {
			s.restorePersisted(ctx, prev)
			return LoginResult{}, err
		}

		slog.InfoContext(ctx, "login succeeded", "username", identity.Username, "tier", identity.Tier)
		return LoginResult{Success: true, Identity: &identity}, nil
	})
	return task.Wait(ctx)
}

// Logout clears the identity. Browser-scoped cart and wishlist are untouched.
func (s *Session) Logout(ctx context.Context) error {
	prev := s.currentPtr()
	if err := s.persist(ctx, nil); err != nil {
		return fmt.Errorf("auth: clear session: %w", err)
	}
	if err := s.setCurrent(ctx, nil); err != nil {
		s.restorePersisted(ctx, prev)
		return err
	}
	return nil
}

func (s *Session) currentPtr() *domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// persist writes identity as the browser's session record; nil deletes it.
func (s *Session) persist(ctx context.Context, identity *domain.Identity) error {
	if identity == nil {
		return s.store.Delete(ctx, s.key)
	}
	return kvstore.SaveJSON(ctx, s.store, s.key, identity)
}

func (s *Session) restorePersisted(ctx context.Context, prev *domain.Identity) {
	if err := s.persist(context.WithoutCancel(ctx), prev); err != nil {
		slog.ErrorContext(ctx, "session record not restored", "error", err)
	}
}

// setCurrent switches the identity and notifies listeners in order. When a
// listener fails the previous identity is put back and the listeners that
// already ran are told about it again.
func (s *Session) setCurrent(ctx context.Context, identity *domain.Identity) error {
	s.mu.Lock()
	prev := s.current
	s.current = identity
	listeners := append([]ChangeFunc(nil), s.listeners...)
	s.mu.Unlock()

	for i, fn := range listeners {
		if err := fn(ctx, identity); err != nil {
			s.mu.Lock()
			s.current = prev
			s.mu.Unlock()

			for _, undo := range listeners[:i] {
				if uerr := undo(context.WithoutCancel(ctx), prev); uerr != nil {
					slog.ErrorContext(ctx, "identity change not reverted", "error", uerr)
				}
			}
			return fmt.Errorf("auth: identity change: %w", err)
		}
	}
	return nil
}
