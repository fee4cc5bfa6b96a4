package models

import (
	"time"
)

type User struct {
	ID        uint       `gorm:"primaryKey;autoIncrement"     json:"id"`
	Username  string     `gorm:"size:80;unique;not null"      json:"username"`
	Password  *string    `gorm:"size:80"                      json:"-"`
	CartItems []CartItem `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"size:120;not null"        json:"name"`
	Price       float64 `gorm:"not null"                 json:"price"`
	Description string  `gorm:"type:text"                json:"description"`
}

// CartItem is one unit of a product in a user's cart. Several rows for the
// same user and product mean several units.
type CartItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"     json:"id"`
	UserID    uint    `gorm:"index;not null"               json:"user_id"`
	ProductID uint    `gorm:"index;not null"               json:"product_id"`
	Product   Product `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

type Session struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    uint      `gorm:"index;not null"     json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"           json:"expires_at"`
	Revoked   bool      `gorm:"default:false"      json:"revoked"`
}

// All lists every table the service owns, in migration order.
func All() []any {
	return []any{&User{}, &Product{}, &CartItem{}, &Session{}}
}
