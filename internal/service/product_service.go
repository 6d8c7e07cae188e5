package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/ozodbekAI/service/internal/entity"
	"github.com/ozodbekAI/service/internal/repository"
	"go.uber.org/zap"
)

// ProductService manages the product catalog, categories and images.
// Stock movements go through InventoryService, not here.
type ProductService struct {
	repo   *repository.ProductRepository
	logger *zap.Logger
}

func NewProductService(repo *repository.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

type ProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	CategoryID  *string `json:"category_id"`
}

func (s *ProductService) Create(ctx context.Context, req ProductRequest) (*entity.Product, error) {
	if req.Quantity < 0 {
		return nil, validation("Quantity cannot be negative")
	}
	if req.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}
	p := &entity.Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		CategoryID:  req.CategoryID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id string, req ProductRequest) (*entity.Product, error) {
	if req.Quantity < 0 {
		return nil, validation("Quantity cannot be negative")
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}
	p.Name = req.Name
	p.Description = req.Description
	p.Price = req.Price
	p.Quantity = req.Quantity
	p.CategoryID = req.CategoryID
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *ProductService) Get(ctx context.Context, id string) (*entity.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, search string) ([]entity.Product, error) {
	return s.repo.FindAll(ctx, search)
}

// LowStock lists products under the restock threshold, scarcest first.
func (s *ProductService) LowStock(ctx context.Context) ([]entity.Product, error) {
	return s.repo.FindLowStock(ctx)
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *ProductService) CreateCategory(ctx context.Context, req CategoryRequest) (*entity.ProductCategory, error) {
	c := &entity.ProductCategory{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ProductService) UpdateCategory(ctx context.Context, id string, req CategoryRequest) (*entity.ProductCategory, error) {
	c, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = req.Name
	c.Description = req.Description
	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ProductService) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteCategory(ctx, id)
}

func (s *ProductService) Categories(ctx context.Context) ([]entity.ProductCategory, error) {
	return s.repo.FindCategories(ctx)
}

// AttachImage stores an uploaded image URL. Promoting an image to main
// demotes the previous main image first.
func (s *ProductService) AttachImage(ctx context.Context, productID, url string, isMain bool) (*entity.ProductImage, error) {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	if isMain {
		if err := s.repo.ClearMainImage(ctx, productID); err != nil {
			return nil, err
		}
	}
	img := &entity.ProductImage{
		ID:        uuid.New().String(),
		ProductID: productID,
		URL:       url,
		IsMain:    isMain,
	}
	if err := s.repo.CreateImage(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *ProductService) Images(ctx context.Context, productID string) ([]entity.ProductImage, error) {
	return s.repo.FindImages(ctx, productID)
}
