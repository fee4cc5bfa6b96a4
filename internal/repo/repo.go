package repo

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrUserAlreadyExist = errors.New("user already exist")
	ErrUserNotFound     = fmt.Errorf("user: %w", gorm.ErrRecordNotFound)
	ErrProductNotFound  = fmt.Errorf("product: %w", gorm.ErrRecordNotFound)
	ErrCartItemNotFound = fmt.Errorf("cart item: %w", gorm.ErrRecordNotFound)
)

type GormRepo struct {
	DB *gorm.DB
}
