package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invoicing/internal/model"
	"invoicing/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateProductRequest struct {
	Name     string `json:"name" binding:"required"`
	HSN      string `json:"hsn"`
	Category string `json:"category" binding:"required"`
	Price    string `json:"price"`
	Unit     string `json:"unit"`
}

type UpdateProductRequest struct {
	Name     *string `json:"name"`
	HSN      *string `json:"hsn"`
	Category *string `json:"category"`
	Price    *string `json:"price"`
	Unit     *string `json:"unit"`
}

type ProductResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	HSN       string    `json:"hsn"`
	Category  string    `json:"category"`
	Price     string    `json:"price"`
	Unit      string    `json:"unit"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- Interface ---

// ProductService exposes create/read/list/update. Products are templates for
// invoice line items and are never deleted.
type ProductService interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (ProductResponse, error)
	GetProduct(ctx context.Context, id string) (ProductResponse, error)
	ListProducts(ctx context.Context, category, search string, page, limit int) ([]ProductResponse, int64, error)
	UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (ProductResponse, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// --- Validation helpers ---

var validCategories = map[string]bool{
	model.CategoryGoods:   true,
	model.CategoryService: true,
}

func toProductResponse(product *model.Product) ProductResponse {
	return ProductResponse{
		ID:        product.ID,
		Name:      product.Name,
		HSN:       product.HSN,
		Category:  product.Category,
		Price:     product.Price.StringFixed(2),
		Unit:      product.Unit,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}

// --- Implementation ---

func (s *productService) CreateProduct(ctx context.Context, req CreateProductRequest) (ProductResponse, error) {
	if !validCategories[req.Category] {
		return ProductResponse{}, fmt.Errorf("category must be one of: %s, %s", model.CategoryGoods, model.CategoryService)
	}
	price, err := parseAmount(req.Price, "price")
	if err != nil {
		return ProductResponse{}, err
	}
	if price.IsNegative() {
		return ProductResponse{}, fmt.Errorf("price must not be negative")
	}

	product := model.Product{
		Name:     req.Name,
		HSN:      req.HSN,
		Category: req.Category,
		Price:    price,
		Unit:     req.Unit,
	}
	if err := s.productRepo.Create(ctx, &product); err != nil {
		return ProductResponse{}, fmt.Errorf("failed to create product: %w", err)
	}
	return toProductResponse(&product), nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (ProductResponse, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("invalid product id: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductResponse{}, ErrProductNotFound
		}
		return ProductResponse{}, err
	}
	return toProductResponse(product), nil
}

func (s *productService) ListProducts(ctx context.Context, category, search string, page, limit int) ([]ProductResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if category != "" && !validCategories[category] {
		return nil, 0, fmt.Errorf("invalid category filter: %s", category)
	}

	products, total, err := s.productRepo.List(ctx, category, search, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	result := make([]ProductResponse, 0, len(products))
	for i := range products {
		result = append(result, toProductResponse(&products[i]))
	}
	return result, total, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (ProductResponse, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("invalid product id: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductResponse{}, ErrProductNotFound
		}
		return ProductResponse{}, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return ProductResponse{}, fmt.Errorf("name cannot be empty")
		}
		product.Name = *req.Name
	}
	if req.Category != nil {
		if !validCategories[*req.Category] {
			return ProductResponse{}, fmt.Errorf("category must be one of: %s, %s", model.CategoryGoods, model.CategoryService)
		}
		product.Category = *req.Category
	}
	if req.HSN != nil {
		product.HSN = *req.HSN
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.Price != nil {
		price, parseErr := parseAmount(*req.Price, "price")
		if parseErr != nil {
			return ProductResponse{}, parseErr
		}
		if price.IsNegative() {
			return ProductResponse{}, fmt.Errorf("price must not be negative")
		}
		product.Price = price
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return ProductResponse{}, fmt.Errorf("failed to update product: %w", err)
	}
	return toProductResponse(product), nil
}
