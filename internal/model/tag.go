package model

// Tag is a named label. Names are unique across the catalog.
type Tag struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
}

// TableName specifies the table name for Tag
func (Tag) TableName() string {
	return "tags"
}
