// Package inventory owns item purchases, equipment state, and the derived
// stat bonuses equipped items grant.
package inventory

import (
	"context"
	"fmt"
	"math"

	"github.com/healthquest/healthquest/internal/domain"
	"github.com/healthquest/healthquest/internal/event"
	"github.com/healthquest/healthquest/internal/logger"
	"github.com/healthquest/healthquest/internal/repository"
)

// Service manages owned items and equipment
type Service interface {
	// Catalog returns the purchasable item definitions.
	Catalog() []domain.CatalogItem
	// List returns the wallet's owned items, equipped first.
	List(ctx context.Context, wallet string) ([]domain.InventoryItem, error)
	// Purchase debits the catalog price and inserts an unequipped item.
	Purchase(ctx context.Context, wallet, itemKey string) (*domain.InventoryItem, error)
	// Equip toggles an item's equipped state, swapping out any item already
	// occupying the slot. Stat bonuses are applied as one atomic adjustment.
	Equip(ctx context.Context, wallet, itemID string) (*domain.InventoryItem, error)
	// Sell deletes an unequipped item and credits 80% of its purchase price.
	Sell(ctx context.Context, wallet, itemID string) (goldCredited int, err error)
}

type service struct {
	repo    repository.Inventory
	catalog *Catalog
	bus     event.Bus
}

// NewService creates the inventory service
func NewService(repo repository.Inventory, catalog *Catalog, bus event.Bus) Service {
	return &service{repo: repo, catalog: catalog, bus: bus}
}

func (s *service) Catalog() []domain.CatalogItem {
	return s.catalog.Items()
}

func (s *service) List(ctx context.Context, wallet string) ([]domain.InventoryItem, error) {
	return s.repo.List(ctx, wallet)
}

func (s *service) Purchase(ctx context.Context, wallet, itemKey string) (*domain.InventoryItem, error) {
	log := logger.FromContext(ctx)

	catalogItem, ok := s.catalog.Lookup(itemKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemKey)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	if _, err := tx.DebitGold(ctx, wallet, catalogItem.Price); err != nil {
		return nil, err
	}

	item := &domain.InventoryItem{
		WalletAddress: wallet,
		ItemKey:       catalogItem.Key,
		Name:          catalogItem.Name,
		Slot:          catalogItem.Slot,
		Rarity:        catalogItem.Rarity,
		Bonuses:       catalogItem.Bonuses,
		PurchasePrice: catalogItem.Price,
	}
	if err := tx.InsertItem(ctx, item); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit purchase: %w", err)
	}

	log.Info("Item purchased", "wallet", wallet, "item", itemKey, "price", catalogItem.Price)
	if err := s.bus.Publish(ctx, event.NewItemTradeEvent(domain.EventTypeItemBought, wallet, itemKey, catalogItem.Price)); err != nil {
		log.Warn("Failed to publish item bought event", "error", err)
	}

	return item, nil
}

func (s *service) Equip(ctx context.Context, wallet, itemID string) (*domain.InventoryItem, error) {
	log := logger.FromContext(ctx)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	item, err := tx.GetItemForUpdate(ctx, wallet, itemID)
	if err != nil {
		return nil, err
	}

	// Accumulate every stat change into one delta set so concurrent readers
	// never observe a half-swapped state.
	deltas := make(map[string]int)

	if item.Equipped {
		if err := tx.SetEquipped(ctx, item.ID, false); err != nil {
			return nil, err
		}
		item.Equipped = false
		subtractBonuses(deltas, item.Bonuses)
	} else {
		current, err := tx.GetEquippedInSlot(ctx, wallet, item.Slot)
		if err != nil {
			return nil, err
		}
		if current != nil {
			if err := tx.SetEquipped(ctx, current.ID, false); err != nil {
				return nil, err
			}
			subtractBonuses(deltas, current.Bonuses)
		}

		if err := tx.SetEquipped(ctx, item.ID, true); err != nil {
			return nil, err
		}
		item.Equipped = true
		addBonuses(deltas, item.Bonuses)
	}

	if err := tx.ApplyStatDeltas(ctx, wallet, deltas); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit equip: %w", err)
	}

	log.Info("Equipment changed", "wallet", wallet, "item", item.ItemKey, "equipped", item.Equipped)
	return item, nil
}

func (s *service) Sell(ctx context.Context, wallet, itemID string) (int, error) {
	log := logger.FromContext(ctx)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	item, err := tx.GetItemForUpdate(ctx, wallet, itemID)
	if err != nil {
		return 0, err
	}
	if item.Equipped {
		return 0, fmt.Errorf("%w: unequip before selling", domain.ErrItemEquipped)
	}

	credit := int(math.Floor(float64(item.PurchasePrice) * domain.SellRate))

	if err := tx.DeleteItem(ctx, item.ID); err != nil {
		return 0, err
	}
	if _, err := tx.CreditGold(ctx, wallet, credit); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit sale: %w", err)
	}

	log.Info("Item sold", "wallet", wallet, "item", item.ItemKey, "credit", credit)
	if err := s.bus.Publish(ctx, event.NewItemTradeEvent(domain.EventTypeItemSold, wallet, item.ItemKey, credit)); err != nil {
		log.Warn("Failed to publish item sold event", "error", err)
	}

	return credit, nil
}

func addBonuses(deltas map[string]int, bonuses map[string]int) {
	for stat, bonus := range bonuses {
		deltas[stat] += bonus
	}
}

func subtractBonuses(deltas map[string]int, bonuses map[string]int) {
	for stat, bonus := range bonuses {
		deltas[stat] -= bonus
	}
}
