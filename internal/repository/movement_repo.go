package repository

import (
	"strings"
	"time"

	"go-office-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovementRepository interface {
	FindAll(direction model.Direction, search string) ([]model.Movement, error)
	FindByID(id uuid.UUID) (*model.Movement, error)
	SignedTotal(itemID uuid.UUID) (int, error)
	DailySummary(startDate, endDate time.Time) ([]DailyMovement, error)
}

// DailyMovement aggregates one day of ledger activity for the chart.
type DailyMovement struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type movementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) MovementRepository {
	return &movementRepo{db}
}

// FindAll returns movements most recent first. An empty direction or
// search means no filtering on that field; search matches the item-name
// snapshot case-insensitively.
func (r *movementRepo) FindAll(direction model.Direction, search string) ([]model.Movement, error) {
	var movements []model.Movement
	q := r.db.Preload("Item").Order("created_at DESC")
	if direction != "" {
		q = q.Where("direction = ?", direction)
	}
	if search != "" {
		q = q.Where("LOWER(item_name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	err := q.Find(&movements).Error
	return movements, err
}

func (r *movementRepo) FindByID(id uuid.UUID) (*model.Movement, error) {
	var movement model.Movement
	err := r.db.Preload("Item").First(&movement, "id = ?", id).Error
	return &movement, err
}

// SignedTotal recomputes an item's balance from its full history.
// The cached Item.Balance must always agree with this value.
func (r *movementRepo) SignedTotal(itemID uuid.UUID) (int, error) {
	var total int
	err := r.db.Model(&model.Movement{}).
		Where("item_id = ?", itemID).
		Select("COALESCE(SUM(CASE WHEN direction = 'IN' THEN amount ELSE -amount END), 0)").
		Scan(&total).Error
	return total, err
}

func (r *movementRepo) DailySummary(startDate, endDate time.Time) ([]DailyMovement, error) {
	var results []DailyMovement

	rows, err := r.db.Model(&model.Movement{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN direction = 'IN' THEN amount ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN direction IN ('OUT', 'DISPOSE') THEN amount ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data DailyMovement
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}
