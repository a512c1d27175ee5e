package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/farmconnect/farmconnect-api/internal/dto"
	"github.com/farmconnect/farmconnect-api/internal/repository"
)

var ErrAlreadyFavorite = errors.New("already in favorites")

type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
	productRepo  repository.ProductRepository
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, productRepo repository.ProductRepository) *FavoriteService {
	return &FavoriteService{favoriteRepo: favoriteRepo, productRepo: productRepo}
}

func (s *FavoriteService) Add(ctx context.Context, buyerID, productID uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return ErrProductNotFound
	}

	exists, err := s.favoriteRepo.Exists(ctx, buyerID, productID)
	if err != nil {
		return fmt.Errorf("check favorite: %w", err)
	}
	if exists {
		return ErrAlreadyFavorite
	}

	if err := s.favoriteRepo.Add(ctx, buyerID, productID); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (s *FavoriteService) Remove(ctx context.Context, buyerID, productID uuid.UUID) error {
	if err := s.favoriteRepo.Remove(ctx, buyerID, productID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

func (s *FavoriteService) List(ctx context.Context, buyerID uuid.UUID) ([]dto.ProductResponse, error) {
	products, err := s.favoriteRepo.ListProducts(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, ToProductResponse(&products[i]))
	}
	return out, nil
}
