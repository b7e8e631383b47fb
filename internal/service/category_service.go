package service

import (
	"context"
	"errors"

	"github.com/sajjadaliuos1/Pharmasys/internal/dto"
	"github.com/sajjadaliuos1/Pharmasys/internal/model"
	"github.com/sajjadaliuos1/Pharmasys/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryService defines business operations for categories and subcategories.
type CategoryService interface {
	Create(ctx context.Context, req dto.CreateCategoryRequest) (dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (dto.CategoryResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error

	CreateSubcategory(ctx context.Context, categoryID uuid.UUID, req dto.CreateSubcategoryRequest) (dto.SubcategoryResponse, error)
	ListSubcategories(ctx context.Context, categoryID uuid.UUID) ([]dto.SubcategoryResponse, error)
	ListAllSubcategories(ctx context.Context) ([]dto.SubcategoryResponse, error)
	UpdateSubcategory(ctx context.Context, id uuid.UUID, req dto.UpdateSubcategoryRequest) (dto.SubcategoryResponse, error)
	DeactivateSubcategory(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo    repository.CategoryRepository
	subRepo repository.SubcategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository, subRepo repository.SubcategoryRepository) CategoryService {
	return &categoryService{repo: repo, subRepo: subRepo}
}

func mapCategory(c model.Category) dto.CategoryResponse {
	resp := dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Active:      c.Active,
	}
	for _, sub := range c.Subcategories {
		resp.Subcategories = append(resp.Subcategories, mapSubcategory(sub))
	}
	return resp
}

func mapSubcategory(s model.Subcategory) dto.SubcategoryResponse {
	return dto.SubcategoryResponse{
		ID:          s.ID,
		CategoryID:  s.CategoryID,
		Name:        s.Name,
		Description: s.Description,
		Active:      s.Active,
	}
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (dto.CategoryResponse, error) {
	existing, err := s.repo.FindByName(ctx, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CategoryResponse{}, err
	}
	if existing != nil {
		return dto.CategoryResponse{}, errors.New("a category with that name already exists")
	}

	c := &model.Category{
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return dto.CategoryResponse{}, err
	}
	return mapCategory(*c), nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategory(c))
	}
	return result, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CategoryResponse{}, errors.New("category not found")
		}
		return dto.CategoryResponse{}, err
	}

	if req.Name != nil {
		if *req.Name != c.Name {
			existing, err := s.repo.FindByName(ctx, *req.Name)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.CategoryResponse{}, err
			}
			if existing != nil && existing.ID != id {
				return dto.CategoryResponse{}, errors.New("a category with that name already exists")
			}
		}
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = req.Description
	}
	if req.Active != nil {
		c.Active = *req.Active
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return dto.CategoryResponse{}, err
	}
	return mapCategory(*c), nil
}

func (s *categoryService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("category not found")
		}
		return err
	}
	return s.repo.Deactivate(ctx, id)
}

func (s *categoryService) CreateSubcategory(ctx context.Context, categoryID uuid.UUID, req dto.CreateSubcategoryRequest) (dto.SubcategoryResponse, error) {
	if _, err := s.repo.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubcategoryResponse{}, errors.New("category not found")
		}
		return dto.SubcategoryResponse{}, err
	}

	sub := &model.Subcategory{
		CategoryID:  categoryID,
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return dto.SubcategoryResponse{}, err
	}
	return mapSubcategory(*sub), nil
}

func (s *categoryService) ListSubcategories(ctx context.Context, categoryID uuid.UUID) ([]dto.SubcategoryResponse, error) {
	list, err := s.subRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.SubcategoryResponse, 0, len(list))
	for _, sub := range list {
		result = append(result, mapSubcategory(sub))
	}
	return result, nil
}

func (s *categoryService) ListAllSubcategories(ctx context.Context) ([]dto.SubcategoryResponse, error) {
	list, err := s.subRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.SubcategoryResponse, 0, len(list))
	for _, sub := range list {
		result = append(result, mapSubcategory(sub))
	}
	return result, nil
}

func (s *categoryService) UpdateSubcategory(ctx context.Context, id uuid.UUID, req dto.UpdateSubcategoryRequest) (dto.SubcategoryResponse, error) {
	sub, err := s.subRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubcategoryResponse{}, errors.New("subcategory not found")
		}
		return dto.SubcategoryResponse{}, err
	}

	if req.Name != nil {
		sub.Name = *req.Name
	}
	if req.Description != nil {
		sub.Description = req.Description
	}
	if req.Active != nil {
		sub.Active = *req.Active
	}

	if err := s.subRepo.Update(ctx, sub); err != nil {
		return dto.SubcategoryResponse{}, err
	}
	return mapSubcategory(*sub), nil
}

func (s *categoryService) DeactivateSubcategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.subRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("subcategory not found")
		}
		return err
	}
	return s.subRepo.Deactivate(ctx, id)
}
