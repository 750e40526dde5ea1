package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SelectionModel mirrors the 'selections' table. Exactly one of OwnerID and
// AnonymousToken is set. Partial unique indexes on (owner_id) and
// (anonymous_token) where in_order = false keep at most one open cart per
// owner and per visitor token.
type SelectionModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OwnerID        *uuid.UUID      `gorm:"type:uuid;index"`
	AnonymousToken *string         `gorm:"type:varchar(64);index"`
	InOrder        bool            `gorm:"not null;default:false"`
	TotalItems     int             `gorm:"not null;default:0"`
	TotalPrice     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Items []*LineItemModel `gorm:"foreignKey:SelectionID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (SelectionModel) TableName() string {
	return "selections"
}

// LineItemModel mirrors the 'line_items' table. The unique index on
// (selection_id, product_id) guarantees one row per product per selection.
type LineItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	SelectionID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_line_items_selection_product"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_line_items_selection_product"`
	OwnerID     *uuid.UUID      `gorm:"type:uuid"`
	Quantity    int             `gorm:"not null;default:1"`
	LinePrice   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Product *ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName explicitly sets the table name for GORM.
func (LineItemModel) TableName() string {
	return "line_items"
}
