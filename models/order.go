package models

import "time"

type Order struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	CustomerID uint     `gorm:"not null;index" json:"customer_id"`
	Customer   Customer `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	OrderNotes string   `gorm:"type:text" json:"order_notes"`
	// OrderTime is assigned by the server on create and never updated.
	OrderTime time.Time   `gorm:"not null" json:"timestamp"`
	Lines     []OrderLine `gorm:"foreignKey:OrderID" json:"-"`
}

func (Order) TableName() string {
	return "customer_orders"
}
