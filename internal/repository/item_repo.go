package repository

import (
	"strings"

	"go-office-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(item *model.Item) error
	FindAll(search string) ([]model.Item, error)
	FindByID(id uuid.UUID) (*model.Item, error)
	AdjustBalance(tx *gorm.DB, id uuid.UUID, delta int, updatedBy string) (bool, error)
	CurrentBalance(tx *gorm.DB, id uuid.UUID) (int, error)
}

type itemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepository {
	return &itemRepo{db}
}

func (r *itemRepo) Create(item *model.Item) error {
	return r.db.Create(item).Error
}

// FindAll returns items in registration order, optionally narrowed by a
// case-insensitive substring match on the name.
func (r *itemRepo) FindAll(search string) ([]model.Item, error) {
	var items []model.Item
	q := r.db.Order("created_at ASC")
	if search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	err := q.Find(&items).Error
	return items, err
}

func (r *itemRepo) FindByID(id uuid.UUID) (*model.Item, error) {
	var item model.Item
	err := r.db.First(&item, "id = ?", id).Error
	return &item, err
}

// AdjustBalance applies a signed delta in a single guarded statement so
// concurrent movements against the same item cannot lose updates. For a
// negative delta the balance >= |delta| guard enforces the non-negative
// invariant at the store level; zero rows affected means the item was
// missing or had insufficient stock. Runs on the caller's tx so it joins
// the enclosing transaction.
func (r *itemRepo) AdjustBalance(tx *gorm.DB, id uuid.UUID, delta int, updatedBy string) (bool, error) {
	q := tx.Model(&model.Item{}).Where("id = ?", id)
	if delta < 0 {
		q = q.Where("balance >= ?", -delta)
	}
	res := q.Updates(map[string]interface{}{
		"balance":    gorm.Expr("balance + ?", delta),
		"updated_by": updatedBy,
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *itemRepo) CurrentBalance(tx *gorm.DB, id uuid.UUID) (int, error) {
	var balance int
	err := tx.Model(&model.Item{}).Where("id = ?", id).Select("balance").Scan(&balance).Error
	return balance, err
}
