package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/minishop/internal/apperr"
	"github.com/Skotchmaster/minishop/internal/events"
	"github.com/Skotchmaster/minishop/internal/models"
	"github.com/Skotchmaster/minishop/internal/repo"
)

type CartService struct {
	Repo      *repo.GormRepo
	Publisher events.Publisher
}

func (s *CartService) Add(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	item, err := s.Repo.AddToCart(ctx, userID, productID)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrUserNotFound):
			return nil, apperr.Validation("User not found")
		case errors.Is(err, repo.ErrProductNotFound):
			return nil, apperr.Validation(msgProductNotFound)
		}
		return nil, apperr.Internal(err)
	}

	publish(ctx, s.Publisher, events.TopicCart, fmt.Sprint(userID), events.Event{
		"type":       "cart_item_added",
		"userID":     userID,
		"productID":  productID,
		"cartItemID": item.ID,
	})
	return item, nil
}

// Remove takes one unit of productID out of the user's cart.
func (s *CartService) Remove(ctx context.Context, userID, productID uint) error {
	item, err := s.Repo.RemoveFromCart(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, repo.ErrCartItemNotFound) {
			return apperr.Validation("Item not found in the cart")
		}
		return apperr.Internal(err)
	}

	publish(ctx, s.Publisher, events.TopicCart, fmt.Sprint(userID), events.Event{
		"type":       "cart_item_removed",
		"userID":     userID,
		"productID":  productID,
		"cartItemID": item.ID,
	})
	return nil
}

func (s *CartService) View(ctx context.Context, userID uint) ([]models.Product, error) {
	prods, err := s.Repo.CartProducts(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return prods, nil
}
