package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/minishop/internal/apperr"
	"github.com/Skotchmaster/minishop/internal/events"
	"github.com/Skotchmaster/minishop/internal/logging"
	"github.com/Skotchmaster/minishop/internal/models"
	"github.com/Skotchmaster/minishop/internal/repo"
	"github.com/Skotchmaster/minishop/internal/search"
	"github.com/Skotchmaster/minishop/internal/transport"
)

const (
	msgInvalidProduct  = "Invalid product data"
	msgProductNotFound = "Product not found"
)

type CatalogService struct {
	Repo      *repo.GormRepo
	Index     search.Index
	Fallback  search.Index
	Publisher events.Publisher
}

func (s *CatalogService) Add(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Name == nil || req.Price == nil {
		return nil, apperr.Validation(msgInvalidProduct)
	}

	prod := &models.Product{
		Name:  *req.Name,
		Price: *req.Price,
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}

	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		return nil, apperr.Internal(fmt.Errorf("create product: %w", err))
	}

	s.reindex(ctx, *prod)
	publish(ctx, s.Publisher, events.TopicProduct, fmt.Sprint(prod.ID), events.Event{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	return prod, nil
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			return nil, apperr.NotFound(msgProductNotFound)
		}
		return nil, apperr.Internal(err)
	}
	return prod, nil
}

func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	items, err := s.Repo.ListProducts(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return items, nil
}

func (s *CatalogService) Update(ctx context.Context, id uint, req transport.UpdateProductRequest) (*models.Product, error) {
	prod, err := s.Repo.PatchProduct(ctx, id, req)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			return nil, apperr.NotFound(msgProductNotFound)
		}
		return nil, apperr.Internal(err)
	}

	s.reindex(ctx, *prod)
	publish(ctx, s.Publisher, events.TopicProduct, fmt.Sprint(prod.ID), events.Event{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	return prod, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			return apperr.NotFound(msgProductNotFound)
		}
		return apperr.Internal(err)
	}

	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_remove_failed", "productID", id, "error", err)
		}
	}
	publish(ctx, s.Publisher, events.TopicProduct, fmt.Sprint(id), events.Event{
		"type":      "product_deleted",
		"productID": id,
	})
	return nil
}

// Search queries the index and falls back to the store when the index fails.
func (s *CatalogService) Search(ctx context.Context, query string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("query is required")
	}

	if s.Index != nil {
		items, err := s.Index.Search(ctx, query)
		if err == nil {
			return items, nil
		}
		if s.Fallback == nil {
			return nil, apperr.Internal(err)
		}
		logging.FromContext(ctx).Warn("search_index_failed", "reason", "falling back to store", "error", err)
	}

	if s.Fallback == nil {
		return nil, apperr.Internal(errors.New("no search index configured"))
	}
	items, err := s.Fallback.Search(ctx, query)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return items, nil
}

func (s *CatalogService) reindex(ctx context.Context, p models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Put(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "productID", p.ID, "error", err)
	}
}
