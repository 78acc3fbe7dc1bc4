package model

// Role values
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an account that can place orders
type User struct {
	BaseModel
	Login        string `gorm:"type:varchar(64);uniqueIndex;not null" json:"login"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	Name         string `gorm:"type:varchar(128);not null" json:"name"`
	Role         string `gorm:"type:varchar(32);not null" json:"role"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
