package domain

import "time"

// ItemSlot is the equipment slot an item occupies. At most one equipped
// item per (user, slot) pair.
type ItemSlot string

const (
	SlotWeapon    ItemSlot = "weapon"
	SlotArmor     ItemSlot = "armor"
	SlotHelmet    ItemSlot = "helmet"
	SlotBoots     ItemSlot = "boots"
	SlotAccessory ItemSlot = "accessory"
)

// ValidSlots is the equipment slot allow-list
var ValidSlots = map[ItemSlot]bool{
	SlotWeapon:    true,
	SlotArmor:     true,
	SlotHelmet:    true,
	SlotBoots:     true,
	SlotAccessory: true,
}

// Rarity represents an item's rarity tier
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// CatalogItem is a purchasable item definition from the fixed catalog
type CatalogItem struct {
	Key         string         `json:"key"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Slot        ItemSlot       `json:"slot"`
	Rarity      Rarity         `json:"rarity"`
	Price       int            `json:"price"`
	Bonuses     map[string]int `json:"bonuses"`
}

// InventoryItem is an item owned by a user
type InventoryItem struct {
	ID            string         `json:"id"`
	WalletAddress string         `json:"wallet_address"`
	ItemKey       string         `json:"item_key"`
	Name          string         `json:"name"`
	Slot          ItemSlot       `json:"slot"`
	Rarity        Rarity         `json:"rarity"`
	Bonuses       map[string]int `json:"bonuses"`
	Equipped      bool           `json:"equipped"`
	PurchasePrice int            `json:"purchase_price"`
	AcquiredAt    time.Time      `json:"acquired_at"`
}

// SellRate is the fraction of the purchase price credited on sale
const SellRate = 0.8
