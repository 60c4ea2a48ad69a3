package inventory

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/healthquest/healthquest/internal/domain"
	"github.com/healthquest/healthquest/internal/validation"
)

//go:embed catalog.json
var catalogJSON []byte

//go:embed catalog.schema.json
var catalogSchema []byte

// Catalog is the fixed set of purchasable items
type Catalog struct {
	items map[string]domain.CatalogItem
	order []string
}

// LoadCatalog parses the embedded item catalog after checking it against
// its JSON schema, so a malformed catalog fails at startup rather than at
// first purchase.
func LoadCatalog() (*Catalog, error) {
	if err := validation.NewSchemaValidator().ValidateEmbedded(catalogJSON, catalogSchema, "catalog.schema.json"); err != nil {
		return nil, fmt.Errorf("item catalog rejected: %w", err)
	}

	var items []domain.CatalogItem
	if err := json.Unmarshal(catalogJSON, &items); err != nil {
		return nil, fmt.Errorf("failed to parse item catalog: %w", err)
	}

	c := &Catalog{items: make(map[string]domain.CatalogItem, len(items))}
	for _, item := range items {
		if _, dup := c.items[item.Key]; dup {
			return nil, fmt.Errorf("duplicate catalog key %q", item.Key)
		}
		if !domain.ValidSlots[item.Slot] {
			return nil, fmt.Errorf("catalog item %q has unknown slot %q", item.Key, item.Slot)
		}
		c.items[item.Key] = item
		c.order = append(c.order, item.Key)
	}
	return c, nil
}

// Lookup returns the catalog item for a key
func (c *Catalog) Lookup(key string) (domain.CatalogItem, bool) {
	item, ok := c.items[key]
	return item, ok
}

// Items returns all catalog items in file order
func (c *Catalog) Items() []domain.CatalogItem {
	out := make([]domain.CatalogItem, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.items[key])
	}
	return out
}
