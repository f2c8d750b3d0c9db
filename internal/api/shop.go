package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ─── Shop & Ledger Endpoints ────────────────────────────────────────────────
//
// GET  /equipment                                      — full catalog
// GET  /characters/{id}/equipment                      — owned items
// POST /characters/{id}/equipment/{equipmentID}/purchase
// POST /characters/{id}/equipment/{equipmentID}/equip
// POST /characters/{id}/equipment/{equipmentID}/unequip
// GET  /characters/{id}/transactions                   — coin ledger, newest first

// handleCatalog returns all purchasable equipment.
// GET /equipment
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	items, err := s.shop.Catalog()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"equipment": items,
	})
}

// handleOwnedEquipment returns a character's items with equipped state.
// GET /characters/{id}/equipment
func (s *Server) handleOwnedEquipment(w http.ResponseWriter, r *http.Request) {
	id, ok := characterID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid character id")
		return
	}

	owned, err := s.shop.Owned(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"equipment": owned,
	})
}

// handlePurchase buys a catalog item for a character.
// POST /characters/{id}/equipment/{equipmentID}/purchase
func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := characterID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid character id")
		return
	}

	owned, err := s.shop.Purchase(id, chi.URLParam(r, "equipmentID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, owned)
}

// handleEquip puts an owned item on.
// POST /characters/{id}/equipment/{equipmentID}/equip
func (s *Server) handleEquip(w http.ResponseWriter, r *http.Request) {
	id, ok := characterID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid character id")
		return
	}

	if err := s.shop.Equip(id, chi.URLParam(r, "equipmentID")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "equipped"})
}

// handleUnequip takes an owned item off.
// POST /characters/{id}/equipment/{equipmentID}/unequip
func (s *Server) handleUnequip(w http.ResponseWriter, r *http.Request) {
	id, ok := characterID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid character id")
		return
	}

	if err := s.shop.Unequip(id, chi.URLParam(r, "equipmentID")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unequipped"})
}

// handleTransactions returns the coin ledger for a character.
// GET /characters/{id}/transactions
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := characterID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid character id")
		return
	}
	if _, err := s.characters.GetCharacter(id); err != nil {
		writeDomainError(w, err)
		return
	}

	txs, err := s.ledger.Transactions(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	balance, err := s.ledger.LedgerBalance(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
		"balance":      balance,
	})
}
