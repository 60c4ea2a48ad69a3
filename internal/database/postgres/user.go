package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthquest/healthquest/internal/domain"
)

// UserRepository implements the user repository for PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// GetOrCreate inserts the user on first sight of the wallet address. The
// unique primary key keeps repeated calls from ever creating duplicates; a
// conflicting insert is treated as success and the existing row is returned.
func (r *UserRepository) GetOrCreate(ctx context.Context, user *domain.User) (bool, error) {
	query := `
		INSERT INTO users (wallet_address, username, gold, profile)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (wallet_address) DO NOTHING
		RETURNING wallet_address, username, gold, profile, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, user.WalletAddress, user.Username, user.Gold, profileOrEmpty(user.Profile)).
		Scan(&user.WalletAddress, &user.Username, &user.Gold, &user.Profile, &user.CreatedAt, &user.UpdatedAt)
	if err == nil {
		return true, nil
	}
	if err != pgx.ErrNoRows {
		return false, fmt.Errorf("failed to insert user: %w", err)
	}

	// Conflict path: the wallet is already known
	existing, err := r.Get(ctx, user.WalletAddress)
	if err != nil {
		return false, err
	}
	*user = *existing
	return false, nil
}

// Get returns the user for a wallet address
func (r *UserRepository) Get(ctx context.Context, wallet string) (*domain.User, error) {
	query := `
		SELECT wallet_address, username, gold, profile, created_at, updated_at
		FROM users
		WHERE wallet_address = $1
	`
	var user domain.User
	err := r.db.QueryRow(ctx, query, wallet).
		Scan(&user.WalletAddress, &user.Username, &user.Gold, &user.Profile, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetGold reads the current gold balance
func (r *UserRepository) GetGold(ctx context.Context, wallet string) (int, error) {
	var gold int
	err := r.db.QueryRow(ctx, `SELECT gold FROM users WHERE wallet_address = $1`, wallet).Scan(&gold)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, domain.ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to get gold: %w", err)
	}
	return gold, nil
}

// UpdateProfile replaces the display name and free-form profile attributes
func (r *UserRepository) UpdateProfile(ctx context.Context, wallet, username string, profile map[string]string) (*domain.User, error) {
	query := `
		UPDATE users
		SET username = $2, profile = $3, updated_at = NOW()
		WHERE wallet_address = $1
		RETURNING wallet_address, username, gold, profile, created_at, updated_at
	`
	var user domain.User
	err := r.db.QueryRow(ctx, query, wallet, username, profileOrEmpty(profile)).
		Scan(&user.WalletAddress, &user.Username, &user.Gold, &user.Profile, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}

func profileOrEmpty(profile map[string]string) map[string]string {
	if profile == nil {
		return map[string]string{}
	}
	return profile
}
