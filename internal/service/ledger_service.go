package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-office-ledger/internal/model"
	"go-office-ledger/internal/repository"
	"go-office-ledger/internal/ws"
	"go-office-ledger/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerService is the stock ledger core: item registration plus atomic
// balance movements with an append-only history. Every balance change
// flows through ApplyMovement, which is what keeps Item.Balance equal to
// the signed sum of the item's movements at all times.
type LedgerService interface {
	RegisterItem(req *model.Item, actor string) error
	ApplyMovement(req *model.Movement) (int, error)
	ListItems(search string) ([]model.Item, error)
	ListHistory(direction model.Direction, search string) ([]model.Movement, error)
	GetMovementByID(id uuid.UUID) (*model.Movement, error)
	MovementSummary(days int) ([]repository.DailyMovement, error)
}

type ledgerService struct {
	itemRepo     repository.ItemRepository
	movementRepo repository.MovementRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewLedgerService(iRepo repository.ItemRepository, mRepo repository.MovementRepository, db *gorm.DB, hub *ws.Hub) LedgerService {
	return &ledgerService{
		itemRepo:     iRepo,
		movementRepo: mRepo,
		db:           db,
		wsHub:        hub,
	}
}

// RegisterItem creates a new item with a zero balance. Duplicate names
// are allowed; no movement is written.
func (s *ledgerService) RegisterItem(req *model.Item, actor string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	// Balance is derived state; whatever the caller submitted is ignored.
	req.Balance = 0
	req.CreatedBy = actor
	req.UpdatedBy = actor

	if err := s.itemRepo.Create(req); err != nil {
		return err
	}

	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": "item_registered",
			"item": map[string]interface{}{
				"id":      req.ID,
				"name":    req.Name,
				"unit":    req.Unit,
				"balance": req.Balance,
			},
			"actor":   actor,
			"message": fmt.Sprintf("%s registered item '%s'", actor, req.Name),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()

	return nil
}

// ApplyMovement adjusts an item's balance and appends the matching
// history entry as one atomic unit. A movement that would drive the
// balance negative is rejected with ErrInsufficientStock and changes
// nothing; clamping is not an option here because the recorded amount
// would then exceed what was actually applied.
func (s *ledgerService) ApplyMovement(req *model.Movement) (int, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		if first.FailedField == "Movement.Amount" {
			return 0, ErrInvalidAmount
		}
		return 0, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	var newBalance int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var item model.Item
		if err := tx.First(&item, "id = ?", req.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		delta := req.Amount
		if req.Direction.Outbound() {
			delta = -delta
		}

		// The guarded update serializes concurrent movements on the row
		// write, so the read above never needs an explicit lock.
		applied, err := s.itemRepo.AdjustBalance(tx, item.ID, delta, req.Actor)
		if err != nil {
			return err
		}
		if !applied {
			return ErrInsufficientStock
		}

		balance, err := s.itemRepo.CurrentBalance(tx, item.ID)
		if err != nil {
			return err
		}

		req.ItemName = item.Name
		req.CreatedBy = req.Actor
		req.UpdatedBy = req.Actor
		if err := tx.Create(req).Error; err != nil {
			return err
		}

		newBalance = balance
		return nil
	})
	if err != nil {
		return 0, err
	}

	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": "movement_applied",
			"movement": map[string]interface{}{
				"id":        req.ID,
				"item_id":   req.ItemID,
				"item_name": req.ItemName,
				"direction": req.Direction,
				"amount":    req.Amount,
			},
			"actor":       req.Actor,
			"new_balance": newBalance,
			"message":     fmt.Sprintf("%s recorded %s %d of '%s'", req.Actor, req.Direction, req.Amount, req.ItemName),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()

	return newBalance, nil
}

func (s *ledgerService) ListItems(search string) ([]model.Item, error) {
	return s.itemRepo.FindAll(search)
}

func (s *ledgerService) ListHistory(direction model.Direction, search string) ([]model.Movement, error) {
	return s.movementRepo.FindAll(direction, search)
}

func (s *ledgerService) GetMovementByID(id uuid.UUID) (*model.Movement, error) {
	return s.movementRepo.FindByID(id)
}

func (s *ledgerService) MovementSummary(days int) ([]repository.DailyMovement, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)
	return s.movementRepo.DailySummary(startDate, endDate)
}
