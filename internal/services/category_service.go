package services

import (
	"context"
	"fmt"
	"log/slog"

	"patrimonio/internal/core"
	applog "patrimonio/internal/log"
	"patrimonio/internal/storage"
)

// CategoryService owns the asset classification taxonomy. Categories
// are reference data: accounts point at them and deletion is blocked
// while any reference remains.
type CategoryService struct {
	storage *storage.SQLiteRepository
}

func NewCategoryService(storage *storage.SQLiteRepository) *CategoryService {
	return &CategoryService{storage: storage}
}

func (s *CategoryService) List(ctx context.Context) ([]core.Category, error) {
	return s.storage.ListCategories(ctx)
}

func (s *CategoryService) ListWithStats(ctx context.Context) ([]core.CategoryStats, error) {
	return s.storage.ListCategoriesWithStats(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id int64) (core.Category, error) {
	return s.storage.GetCategory(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, c core.Category) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrValidation, err)
	}
	id, err := s.storage.CreateCategory(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}
	slog.InfoContext(ctx, "Category created", applog.FieldCategoryID, id, "name", c.Name)
	return id, nil
}

func (s *CategoryService) Update(ctx context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("%w: %w", core.ErrValidation, err)
	}
	if err := s.storage.UpdateCategory(ctx, c); err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	slog.InfoContext(ctx, "Category updated", applog.FieldCategoryID, c.ID)
	return nil
}

// Delete removes a category; it fails with core.ErrCategoryInUse while
// any account still references it.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.storage.DeleteCategory(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Category deleted", applog.FieldCategoryID, id)
	return nil
}
