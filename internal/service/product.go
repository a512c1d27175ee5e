package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/farmconnect/farmconnect-api/internal/dto"
	"github.com/farmconnect/farmconnect-api/internal/model"
	"github.com/farmconnect/farmconnect-api/internal/repository"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNotProductOwner = errors.New("product belongs to another farmer")
)

const productCacheTTL = 60 * time.Second

type ProductService struct {
	productRepo repository.ProductRepository
	redisClient *redis.Client
}

func NewProductService(productRepo repository.ProductRepository, redisClient *redis.Client) *ProductService {
	return &ProductService{productRepo: productRepo, redisClient: redisClient}
}

func (s *ProductService) Create(ctx context.Context, farmerID uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	grade := req.QualityGrade
	if grade == "" {
		grade = "B"
	}
	product := &model.Product{
		FarmerID:     farmerID,
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		PricePerUnit: req.PricePerUnit,
		Unit:         req.Unit,
		Quantity:     req.Quantity,
		Organic:      req.Organic,
		QualityGrade: grade,
		Status:       model.ProductAvailable,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	cacheKey := "product:" + id.String()

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.ProductResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	resp := ToProductResponse(product)

	if s.redisClient != nil {
		if data, err := json.Marshal(resp); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, productCacheTTL)
		}
	}
	return &resp, nil
}

func (s *ProductService) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]dto.ProductResponse, error) {
	products, err := s.productRepo.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, fmt.Errorf("list farmer products: %w", err)
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, ToProductResponse(&products[i]))
	}
	return out, nil
}

func (s *ProductService) Marketplace(ctx context.Context, q dto.MarketplaceQuery) (*dto.ProductListResponse, error) {
	offset := (q.Page - 1) * q.Limit
	products, total, err := s.productRepo.ListMarketplace(ctx, repository.MarketplaceFilter{
		Search:   q.Search,
		Category: q.Category,
		Location: q.Location,
		Limit:    q.Limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list marketplace: %w", err)
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, ToProductResponse(&products[i]))
	}
	return &dto.ProductListResponse{Products: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

// GetForEdit returns the farmer's own product for the edit form; other
// farmers' products are rejected.
func (s *ProductService) GetForEdit(ctx context.Context, farmerID, productID uuid.UUID) (*dto.ProductResponse, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.FarmerID != farmerID {
		return nil, ErrNotProductOwner
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

func (s *ProductService) Update(ctx context.Context, farmerID, productID uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.FarmerID != farmerID {
		return nil, ErrNotProductOwner
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.PricePerUnit != nil {
		product.PricePerUnit = *req.PricePerUnit
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
		if product.Quantity > 0 && product.Status == model.ProductSold {
			product.Status = model.ProductAvailable
		}
	}
	if req.Organic != nil {
		product.Organic = *req.Organic
	}
	if req.QualityGrade != nil {
		product.QualityGrade = *req.QualityGrade
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.invalidateCache(ctx, productID)
	resp := ToProductResponse(product)
	return &resp, nil
}

func (s *ProductService) Delete(ctx context.Context, farmerID, productID uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return ErrProductNotFound
	}
	if product.FarmerID != farmerID {
		return ErrNotProductOwner
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidateCache(ctx, productID)
	return nil
}

func (s *ProductService) SetImagePath(ctx context.Context, farmerID, productID uuid.UUID, imagePath string) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return ErrProductNotFound
	}
	if product.FarmerID != farmerID {
		return ErrNotProductOwner
	}

	if err := s.productRepo.UpdateImagePath(ctx, productID, imagePath); err != nil {
		return fmt.Errorf("update image path: %w", err)
	}
	s.invalidateCache(ctx, productID)
	return nil
}

func (s *ProductService) invalidateCache(ctx context.Context, id uuid.UUID) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, "product:"+id.String())
	}
}

func ToProductResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:             p.ID,
		FarmerID:       p.FarmerID,
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category,
		PricePerUnit:   p.PricePerUnit,
		Unit:           p.Unit,
		Quantity:       p.Quantity,
		Organic:        p.Organic,
		QualityGrade:   p.QualityGrade,
		Status:         p.Status,
		ImagePath:      p.ImagePath,
		FarmerName:     p.FarmerName,
		FarmerPhone:    p.FarmerPhone,
		FarmerLocation: p.FarmerLocation,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
