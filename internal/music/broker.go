package music

import (
	"context"
	"sync"
	"time"

	"tonality/internal/models"
	"tonality/internal/observability"
	"tonality/internal/repository"
)

// TokenRefresher is the slice of the provider client the broker needs.
type TokenRefresher interface {
	RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenResponse, error)
}

// ErrNotConnected reports that the user has no linked provider account.
var ErrNotConnected = models.NewForbiddenError("No music provider account linked")

type tokenEntry struct {
	// mu serializes refreshes for a single user so concurrent requests
	// trigger at most one outbound token call.
	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// TokenBroker caches short-lived provider access tokens per user and
// refreshes them through the stored refresh token when they near expiry.
type TokenBroker struct {
	mu      sync.Mutex
	entries map[uint]*tokenEntry

	refresher TokenRefresher
	users     repository.UserRepository
	margin    time.Duration
	now       func() time.Time
}

// NewTokenBroker creates a broker with the given refresh safety margin.
func NewTokenBroker(refresher TokenRefresher, users repository.UserRepository, margin time.Duration) *TokenBroker {
	return &TokenBroker{
		entries:   make(map[uint]*tokenEntry),
		refresher: refresher,
		users:     users,
		margin:    margin,
		now:       time.Now,
	}
}

func (b *TokenBroker) entry(userID uint) *tokenEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[userID]
	if !ok {
		e = &tokenEntry{}
		b.entries[userID] = e
	}
	return e
}

// AccessToken returns a provider access token with at least the configured
// margin of validity left, refreshing through the provider when needed. A
// provider failure leaves the stored refresh token untouched so the link
// survives transient outages.
func (b *TokenBroker) AccessToken(ctx context.Context, userID uint) (string, error) {
	e := b.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.accessToken != "" && e.expiresAt.After(b.now().Add(b.margin)) {
		observability.TokenCacheHits.WithLabelValues("hit").Inc()
		return e.accessToken, nil
	}
	observability.TokenCacheHits.WithLabelValues("miss").Inc()

	user, err := b.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if !user.HasLinkedProvider() {
		return "", ErrNotConnected
	}

	token, err := b.refresher.RefreshAccessToken(ctx, user.ProviderRefreshToken)
	if err != nil {
		observability.TokenCacheHits.WithLabelValues("refresh_failed").Inc()
		return "", err
	}

	e.accessToken = token.AccessToken
	e.expiresAt = b.now().Add(time.Duration(token.ExpiresIn) * time.Second)

	// Some providers rotate the refresh token on every grant.
	if token.RefreshToken != "" && token.RefreshToken != user.ProviderRefreshToken {
		if err := b.users.UpdateRefreshToken(ctx, userID, token.RefreshToken); err != nil {
			return "", err
		}
	}

	return e.accessToken, nil
}

// Disconnect drops the user's cached token. Called when the provider link
// is removed.
func (b *TokenBroker) Disconnect(userID uint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, userID)
}
