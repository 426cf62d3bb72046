package model

import "github.com/google/uuid"

type Direction string

const (
	DirIn      Direction = "IN"
	DirOut     Direction = "OUT"
	DirDispose Direction = "DISPOSE"
)

// Outbound reports whether the direction decreases the balance.
// DISPOSE behaves like OUT for balance purposes but stays distinct in
// the history.
func (d Direction) Outbound() bool {
	return d == DirOut || d == DirDispose
}

// Movement is one append-only ledger entry. Amount is always the
// positive magnitude; the sign is carried by Direction.
type Movement struct {
	BaseModel
	ItemID uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id" form:"item_id" validate:"uuid_required"`
	Item   Item      `json:"item" form:"-" validate:"-"`

	// ItemName is a snapshot of the item's name at movement time, so
	// history search keeps working even if the item is later renamed.
	ItemName  string    `gorm:"type:varchar(255);not null" json:"item_name" form:"-"`
	Direction Direction `gorm:"type:varchar(10);not null" json:"direction" form:"direction" validate:"required,oneof=IN OUT DISPOSE"`
	Amount    int       `gorm:"not null" json:"amount" form:"amount" validate:"required,gt=0"`
	Actor     string    `gorm:"type:varchar(255);not null" json:"actor" form:"actor" validate:"required"`
}
