package model

// Item is a registered office supply. Balance starts at zero and only
// changes through recorded movements, so it always equals the signed sum
// of the item's history.
type Item struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);not null" json:"name" form:"name" validate:"required"`
	Unit    string `gorm:"type:varchar(20);not null" json:"unit" form:"unit" validate:"required"`
	Balance int    `gorm:"not null;default:0" json:"balance"`

	// ImageRef points at an externally stored picture of the item.
	// It is carried verbatim and never interpreted.
	ImageRef string `gorm:"type:varchar(512)" json:"image_ref,omitempty"`

	Movements []Movement `json:"movements,omitempty"`
}
