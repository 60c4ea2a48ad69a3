// Package identity maps wallet addresses to user records and issues the
// bearer tokens the rest of the API authenticates with.
package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/healthquest/healthquest/internal/domain"
	"github.com/healthquest/healthquest/internal/event"
	"github.com/healthquest/healthquest/internal/logger"
	"github.com/healthquest/healthquest/internal/repository"
)

// New-user defaults
const (
	StarterGold           = 500
	DefaultUsernamePrefix = "Adventurer-"
	walletPrefixLength    = 6

	cacheSize = 1024
	cacheTTL  = 5 * time.Minute
)

// AuthResult is the outcome of a token request
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
	Created   bool
}

// Service resolves wallet addresses to users and issues tokens
type Service interface {
	// Authenticate returns the user for a wallet, creating it on first
	// sight, along with a fresh bearer token.
	Authenticate(ctx context.Context, wallet string) (*AuthResult, error)
	GetUser(ctx context.Context, wallet string) (*domain.User, error)
	UpdateProfile(ctx context.Context, wallet, username string, profile map[string]string) (*domain.User, error)
	VerifyToken(token string) (string, error)
}

type service struct {
	repo   repository.User
	issuer *TokenIssuer
	bus    event.Bus
	cache  *userCache
}

// NewService creates the identity service
func NewService(repo repository.User, issuer *TokenIssuer, bus event.Bus) Service {
	return &service{
		repo:   repo,
		issuer: issuer,
		bus:    bus,
		cache:  newUserCache(cacheSize, cacheTTL),
	}
}

func (s *service) Authenticate(ctx context.Context, wallet string) (*AuthResult, error) {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return nil, fmt.Errorf("%w: wallet address required", domain.ErrInvalidInput)
	}
	log := logger.FromContext(ctx)

	user := &domain.User{
		WalletAddress: wallet,
		Username:      defaultUsername(wallet),
		Gold:          StarterGold,
	}
	created, err := s.repo.GetOrCreate(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}
	s.cache.Set(wallet, user)

	if created {
		log.Info("User registered", "wallet", wallet, "username", user.Username)
		if err := s.bus.Publish(ctx, event.Event{
			Version: event.EventSchemaVersion,
			Type:    event.Type(domain.EventTypeUserRegistered),
			Payload: map[string]interface{}{"wallet_address": wallet},
		}); err != nil {
			log.Warn("Failed to publish user registered event", "error", err)
		}
	}

	token, expiresAt, err := s.issuer.Issue(wallet)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
		Created:   created,
	}, nil
}

func (s *service) GetUser(ctx context.Context, wallet string) (*domain.User, error) {
	if cached, ok := s.cache.Get(wallet); ok {
		// Gold moves on every purchase, sale, attack, and settlement, so
		// the cached record never serves it; only the stable fields do.
		gold, err := s.repo.GetGold(ctx, wallet)
		if err != nil {
			return nil, err
		}
		user := *cached
		user.Gold = gold
		return &user, nil
	}

	user, err := s.repo.Get(ctx, wallet)
	if err != nil {
		return nil, err
	}
	s.cache.Set(wallet, user)
	return user, nil
}

func (s *service) UpdateProfile(ctx context.Context, wallet, username string, profile map[string]string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username required", domain.ErrInvalidInput)
	}

	user, err := s.repo.UpdateProfile(ctx, wallet, username, profile)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(wallet)
	return user, nil
}

func (s *service) VerifyToken(token string) (string, error) {
	return s.issuer.Verify(token)
}

// defaultUsername derives the placeholder display name from a wallet address
func defaultUsername(wallet string) string {
	prefix := strings.TrimPrefix(wallet, "0x")
	if len(prefix) > walletPrefixLength {
		prefix = prefix[:walletPrefixLength]
	}
	return DefaultUsernamePrefix + prefix
}
