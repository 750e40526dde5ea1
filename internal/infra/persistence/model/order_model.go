package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderModel mirrors the 'orders' table. Status and type are stored as
// short strings matching the entity enums.
type OrderModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	SelectionID uuid.UUID `gorm:"type:uuid;not null;unique"`
	Type        string    `gorm:"type:varchar(20);not null"`
	Status      string    `gorm:"type:varchar(20);not null;default:'new'"`
	Comment     string    `gorm:"type:text"`
	OrderDate   time.Time `gorm:"type:date;not null"`
	CreatedAt   time.Time

	Selection *SelectionModel `gorm:"foreignKey:SelectionID"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}
