package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthquest/healthquest/internal/domain"
	"github.com/healthquest/healthquest/internal/repository"
)

const itemColumns = `item_id, wallet_address, item_key, item_name, slot, rarity,
	bonuses, equipped, purchase_price, acquired_at`

// InventoryRepository implements repository.Inventory on PostgreSQL
type InventoryRepository struct {
	db *pgxpool.Pool
}

func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) List(ctx context.Context, wallet string) ([]domain.InventoryItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE wallet_address = $1
		ORDER BY equipped DESC, acquired_at DESC
	`
	rows, err := r.db.Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *InventoryRepository) BeginTx(ctx context.Context) (repository.InventoryTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &gameTx{tx: tx}, nil
}

func scanItem(row pgx.Row) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := row.Scan(
		&item.ID, &item.WalletAddress, &item.ItemKey, &item.Name, &item.Slot,
		&item.Rarity, &item.Bonuses, &item.Equipped, &item.PurchasePrice, &item.AcquiredAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to scan inventory item: %w", err)
	}
	return &item, nil
}
