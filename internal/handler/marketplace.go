package handler

import (
	"net/http"

	"github.com/healthquest/healthquest/internal/auth"
	"github.com/healthquest/healthquest/internal/inventory"
	"github.com/healthquest/healthquest/internal/logger"
)

// BuyItemRequest purchases a catalog item for the caller
type BuyItemRequest struct {
	ItemKey string `json:"item_key" validate:"required,min=1,max=64"`
}

// SellItemResponse reports the gold credited by a sale
type SellItemResponse struct {
	GoldCredited int `json:"gold_credited"`
}

// HandleGetCatalog returns the purchasable item definitions
// @Summary Marketplace catalog
// @Tags marketplace
// @Produce json
// @Success 200 {object} DataResponse
// @Router /api/v1/marketplace/catalog [get]
func HandleGetCatalog(inventoryService inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, DataResponse{Data: inventoryService.Catalog()})
	}
}

// HandleBuyItem purchases a catalog item
// @Summary Buy an item
// @Tags marketplace
// @Accept json
// @Produce json
// @Param request body BuyItemRequest true "Catalog item key"
// @Success 201 {object} domain.InventoryItem
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/marketplace/buy [post]
func HandleBuyItem(inventoryService inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := auth.WalletFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, ErrMsgUnauthorizedError)
			return
		}

		var req BuyItemRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Buy item"); err != nil {
			return
		}

		item, err := inventoryService.Purchase(r.Context(), wallet, req.ItemKey)
		if err != nil {
			respondServiceError(w, r, "Buy item", err)
			return
		}

		logger.FromContext(r.Context()).Info("Item bought", "wallet", wallet, "item", req.ItemKey)
		respondJSON(w, http.StatusCreated, item)
	}
}

// HandleListItems returns a wallet's owned items, equipped first
// @Summary List owned items
// @Tags marketplace
// @Produce json
// @Param wallet path string true "Wallet address"
// @Success 200 {object} DataResponse
// @Router /api/v1/users/{wallet}/items [get]
func HandleListItems(inventoryService inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := GetWalletParam(r, w)
		if !ok {
			return
		}

		items, err := inventoryService.List(r.Context(), wallet)
		if err != nil {
			respondServiceError(w, r, "List items", err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: items})
	}
}

// HandleEquipItem toggles an item's equipped state
// @Summary Equip or unequip an item
// @Tags marketplace
// @Produce json
// @Param wallet path string true "Wallet address"
// @Param id path string true "Item ID"
// @Success 200 {object} domain.InventoryItem
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/users/{wallet}/items/{id}/equip [post]
func HandleEquipItem(inventoryService inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := GetWalletParam(r, w)
		if !ok {
			return
		}
		itemID, ok := GetURLParam(r, w, "id")
		if !ok {
			return
		}

		item, err := inventoryService.Equip(r.Context(), wallet, itemID)
		if err != nil {
			respondServiceError(w, r, "Equip item", err)
			return
		}

		respondJSON(w, http.StatusOK, item)
	}
}

// HandleSellItem sells an unequipped item back to the marketplace
// @Summary Sell an item
// @Tags marketplace
// @Produce json
// @Param wallet path string true "Wallet address"
// @Param id path string true "Item ID"
// @Success 200 {object} SellItemResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/users/{wallet}/items/{id}/sell [post]
func HandleSellItem(inventoryService inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := GetWalletParam(r, w)
		if !ok {
			return
		}
		itemID, ok := GetURLParam(r, w, "id")
		if !ok {
			return
		}

		credited, err := inventoryService.Sell(r.Context(), wallet, itemID)
		if err != nil {
			respondServiceError(w, r, "Sell item", err)
			return
		}

		respondJSON(w, http.StatusOK, SellItemResponse{GoldCredited: credited})
	}
}
