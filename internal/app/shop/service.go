// Package shop handles the equipment catalog: purchases, equip/unequip
// toggles, and the color-skin exclusivity rule. Purchases append "spent"
// ledger entries in the same transaction that charges the coins.
package shop

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/studyquest/studyquest/internal/domain"
)

// Service wires the shop operations over the character and equipment stores.
type Service struct {
	characters domain.CharacterStore
	equipment  domain.EquipmentStore
}

// NewService creates the shop service.
func NewService(characters domain.CharacterStore, equipment domain.EquipmentStore) *Service {
	return &Service{characters: characters, equipment: equipment}
}

// Catalog returns all purchasable items.
func (s *Service) Catalog() ([]domain.Equipment, error) {
	return s.equipment.ListEquipment()
}

// Owned returns a character's items with their equipped state.
func (s *Service) Owned(characterID int64) ([]domain.OwnedEquipment, error) {
	if _, err := s.characters.GetCharacter(characterID); err != nil {
		return nil, err
	}
	return s.equipment.OwnedEquipment(characterID)
}

// Purchase buys a catalog item. The coin charge, ownership row, and ledger
// entry land in one transaction; the balance never goes below zero.
func (s *Service) Purchase(characterID int64, equipmentID string) (*domain.OwnedEquipment, error) {
	if _, err := s.characters.GetCharacter(characterID); err != nil {
		return nil, err
	}
	eq, err := s.equipment.GetEquipment(equipmentID)
	if err != nil {
		return nil, err
	}

	entry := domain.CoinTransaction{
		ID:          uuid.NewString(),
		CharacterID: characterID,
		Amount:      -eq.Price,
		Type:        domain.TxSpent,
		Source:      "shop",
		EquipmentID: eq.ID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.equipment.Purchase(characterID, *eq, entry); err != nil {
		return nil, err
	}

	log.Printf("[shop] character %d purchased %s for %d coins", characterID, eq.ID, eq.Price)
	return &domain.OwnedEquipment{Equipment: *eq, PurchasedAt: entry.CreatedAt}, nil
}

// Equip puts an owned item on. Colors are mutually exclusive — equipping a
// color silently replaces any currently equipped color and updates the
// character's current_color. Accessories stack freely.
func (s *Service) Equip(characterID int64, equipmentID string) error {
	if _, err := s.characters.GetCharacter(characterID); err != nil {
		return err
	}
	eq, err := s.equipment.GetEquipment(equipmentID)
	if err != nil {
		return err
	}

	if eq.Category == domain.CategoryColor {
		return s.equipment.EquipColor(characterID, *eq)
	}
	return s.equipment.SetAccessoryEquipped(characterID, equipmentID, true)
}

// Unequip takes an owned item off. Unequipping a color resets current_color
// to the base color.
func (s *Service) Unequip(characterID int64, equipmentID string) error {
	if _, err := s.characters.GetCharacter(characterID); err != nil {
		return err
	}
	eq, err := s.equipment.GetEquipment(equipmentID)
	if err != nil {
		return err
	}

	if eq.Category == domain.CategoryColor {
		return s.equipment.UnequipColor(characterID, equipmentID)
	}
	return s.equipment.SetAccessoryEquipped(characterID, equipmentID, false)
}

// ─── Default Catalog ────────────────────────────────────────────────────────

// DefaultCatalog is the seed data for the equipment table: the five bonus
// accessories and the color skins.
func DefaultCatalog() []domain.Equipment {
	return []domain.Equipment{
		{ID: "hat", Name: "帽子", Category: domain.CategoryAccessory, Price: 50,
			Description: "勉強の基本装備"},
		{ID: "glasses", Name: "眼鏡", Category: domain.CategoryAccessory, Price: 80,
			Description: "コイン獲得+10%"},
		{ID: "book", Name: "本", Category: domain.CategoryAccessory, Price: 120,
			Description: "経験値獲得+5%"},
		{ID: "robe", Name: "ローブ", Category: domain.CategoryAccessory, Price: 200,
			Description: "コイン獲得+15%"},
		{ID: "crown", Name: "王冠", Category: domain.CategoryAccessory, Price: 500,
			Description: "経験値獲得+20%"},

		{ID: "color_green", Name: "グリーン", Category: domain.CategoryColor, Price: 100,
			Description: "グリーンのカラーリング", ColorCode: "#32CD32"},
		{ID: "color_blue", Name: "ブルー", Category: domain.CategoryColor, Price: 100,
			Description: "ブルーのカラーリング", ColorCode: "#4169E1"},
		{ID: "color_red", Name: "レッド", Category: domain.CategoryColor, Price: 100,
			Description: "レッドのカラーリング", ColorCode: "#FF6347"},
		{ID: "color_purple", Name: "パープル", Category: domain.CategoryColor, Price: 150,
			Description: "パープルのカラーリング", ColorCode: "#9370DB"},
		{ID: "color_gold", Name: "ゴールド", Category: domain.CategoryColor, Price: 300,
			Description: "ゴールドのカラーリング", ColorCode: "#FFD700"},
	}
}
