package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/minishop/internal/models"
)

func exists(tx *gorm.DB, model any, id uint) (bool, error) {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddToCart inserts one unit of productID into userID's cart.
func (r *GormRepo) AddToCart(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	item := models.CartItem{UserID: userID, ProductID: productID}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &models.User{}, userID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserNotFound
		}

		ok, err = exists(tx, &models.Product{}, productID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrProductNotFound
		}

		return tx.Omit(clause.Associations).Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveFromCart deletes the oldest cart row for the pair, leaving any other
// units in place.
func (r *GormRepo) RemoveFromCart(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	var item models.CartItem

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND product_id = ?", userID, productID).
			Order("id ASC").
			First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartItemNotFound
			}
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CartProducts lists the product behind every cart row of userID, one entry
// per row, in the order the rows were added.
func (r *GormRepo) CartProducts(ctx context.Context, userID uint) ([]models.Product, error) {
	prods := []models.Product{}
	if err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Select("products.*").
		Joins("JOIN cart_items ON cart_items.product_id = products.id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.id ASC").
		Find(&prods).Error; err != nil {
		return nil, err
	}
	return prods, nil
}
