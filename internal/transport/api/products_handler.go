package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/layzzbe/market/internal/domain"
)

type ProductsHandler struct {
	svs ProductServicer
}

func NewProductsHandler(svs ProductServicer) *ProductsHandler {
	return &ProductsHandler{
		svs: svs,
	}
}

func (h *ProductsHandler) Index(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	products, err := h.svs.GetAll(ctx)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, newProductListResponse(products))
}

func (h *ProductsHandler) Show(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	product, err := h.svs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Mahsulot topilmadi"})
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, newProductResponse(*product))
}

type ProductParams struct {
	Title       string   `binding:"required,max=255" json:"title"`
	Description string   `json:"description"`
	Price       string   `binding:"required,max=32"  json:"price"`
	Image       string   `json:"image"`
	Category    string   `json:"category"`
	TechStack   []string `json:"techStack"`
	Features    []string `json:"features"`
}

func (p ProductParams) toDomain(id int64) domain.Product {
	return domain.Product{
		ID:          id,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		TechStack:   p.TechStack,
		Features:    p.Features,
	}
}

// Create POST админского роута каталога.
func (h *ProductsHandler) Create(c *gin.Context) {
	var params ProductParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	product, err := h.svs.Create(ctx, params.toDomain(0))
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusCreated, newProductResponse(*product))
}

func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var params ProductParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	product, err := h.svs.Update(ctx, params.toDomain(id))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Mahsulot topilmadi"})
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, newProductResponse(*product))
}

func (h *ProductsHandler) Destroy(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.svs.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Mahsulot topilmadi"})
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Mahsulot o'chirildi"})
}
