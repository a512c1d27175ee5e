package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farmconnect/farmconnect-api/internal/dto"
	"github.com/farmconnect/farmconnect-api/internal/middleware"
	"github.com/farmconnect/farmconnect-api/internal/service"
)

type MarketplaceHandler struct {
	productService  *service.ProductService
	favoriteService *service.FavoriteService
}

func NewMarketplaceHandler(productService *service.ProductService, favoriteService *service.FavoriteService) *MarketplaceHandler {
	return &MarketplaceHandler{productService: productService, favoriteService: favoriteService}
}

func (h *MarketplaceHandler) Browse(c *gin.Context) {
	var q dto.MarketplaceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.productService.Marketplace(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *MarketplaceHandler) GetProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *MarketplaceHandler) AddFavorite(c *gin.Context) {
	buyerID := middleware.GetUserID(c)

	var req dto.FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.favoriteService.Add(c.Request.Context(), buyerID, req.ProductID); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if errors.Is(err, service.ErrAlreadyFavorite) {
			c.JSON(http.StatusConflict, gin.H{"error": "product already in favorites"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "added to favorites"})
}

func (h *MarketplaceHandler) RemoveFavorite(c *gin.Context) {
	buyerID := middleware.GetUserID(c)

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	if err := h.favoriteService.Remove(c.Request.Context(), buyerID, productID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "removed from favorites"})
}

func (h *MarketplaceHandler) ListFavorites(c *gin.Context) {
	buyerID := middleware.GetUserID(c)

	products, err := h.favoriteService.List(c.Request.Context(), buyerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, dto.ProductListResponse{Products: products, Total: len(products)})
}
