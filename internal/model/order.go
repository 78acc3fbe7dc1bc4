package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Order is an immutable purchase of one or more certificates
type Order struct {
	ID           int64                          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       int64                          `gorm:"not null;index" json:"userId"`
	TotalAmount  decimal.Decimal                `gorm:"type:decimal(14,2);not null" json:"totalAmount"`
	PurchasedAt  time.Time                      `gorm:"not null" json:"purchasedAt"`
	Items        datatypes.JSONSlice[OrderItem] `gorm:"not null" json:"items"`
	Certificates []OrderCertificate             `gorm:"foreignKey:OrderID" json:"-"`
}

// TableName specifies the table name for Order
func (Order) TableName() string {
	return "orders"
}

// OrderItem is the purchase-time snapshot of one certificate
type OrderItem struct {
	CertificateID int64           `json:"certificateId"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
}

// OrderCertificate references a purchased certificate, in purchase order
type OrderCertificate struct {
	OrderID       int64 `gorm:"primaryKey;autoIncrement:false"`
	Position      int   `gorm:"primaryKey;autoIncrement:false"`
	CertificateID int64 `gorm:"not null;index"`
}

// TableName specifies the table name for OrderCertificate
func (OrderCertificate) TableName() string {
	return "order_certificates"
}

// CertificateIDs returns the purchased certificate identities in order
func (o *Order) CertificateIDs() []int64 {
	ids := make([]int64, 0, len(o.Items))
	for _, it := range o.Items {
		ids = append(ids, it.CertificateID)
	}
	return ids
}
