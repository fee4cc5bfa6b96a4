package search

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/minishop/internal/models"
)

// Index keeps a searchable copy of the catalog.
type Index interface {
	Put(ctx context.Context, p models.Product) error
	Remove(ctx context.Context, id uint) error
	Search(ctx context.Context, query string) ([]models.Product, error)
}

// StoreIndex searches the products table directly. Put and Remove are no-ops
// because the table is the index.
type StoreIndex struct {
	DB *gorm.DB
}

func (s *StoreIndex) Put(context.Context, models.Product) error { return nil }

func (s *StoreIndex) Remove(context.Context, uint) error { return nil }

// likeEscaper makes the query match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *StoreIndex) Search(ctx context.Context, query string) ([]models.Product, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(query))) + "%"

	items := []models.Product{}
	if err := s.DB.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
