package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Certificate represents a purchasable gift certificate
type Certificate struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Description string          `gorm:"type:varchar(1024);not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Duration    int             `gorm:"not null" json:"duration"` // days
	Active      bool            `gorm:"not null;index" json:"active"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime:false" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime:false" json:"updatedAt"`
	Tags        []Tag           `gorm:"many2many:certificate_tags;" json:"tags"`
}

// TableName specifies the table name for Certificate
func (Certificate) TableName() string {
	return "certificates"
}

// TagIDs returns the identities of the loaded tags
func (c *Certificate) TagIDs() []int64 {
	ids := make([]int64, 0, len(c.Tags))
	for _, t := range c.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// CertificateTag links a certificate to a tag
type CertificateTag struct {
	CertificateID int64 `gorm:"primaryKey;autoIncrement:false"`
	TagID         int64 `gorm:"primaryKey;autoIncrement:false;index"`
}

// TableName specifies the table name for CertificateTag
func (CertificateTag) TableName() string {
	return "certificate_tags"
}

// Certificate column names used by partial updates and sorting
const (
	CertificateColumnName        = "name"
	CertificateColumnDescription = "description"
	CertificateColumnPrice       = "price"
	CertificateColumnDuration    = "duration"
	CertificateColumnActive      = "active"
	CertificateColumnUpdatedAt   = "updated_at"
)
