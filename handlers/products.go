package handlers

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dankdeals/dankdeals-backend-go/database"
	"github.com/dankdeals/dankdeals-backend-go/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const productCacheTTL = 60 * time.Second

// GetProducts lists active catalog rows with optional filters.
func GetProducts(c echo.Context) error {
	ctx := c.Request().Context()

	category := c.QueryParam("category")
	strain := c.QueryParam("strain")
	search := c.QueryParam("q")
	featured := c.QueryParam("featured") == "true"
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}

	if category != "" && !models.ProductCategory(category).Valid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid category"})
	}

	cacheKey := productListCacheKey(category, strain, search, featured, limit, offset)
	if cached, err := cache.Get(ctx, cacheKey).Result(); err == nil {
		var products []models.Product
		if json.Unmarshal([]byte(cached), &products) == nil {
			return c.JSON(http.StatusOK, products)
		}
	}

	query := `SELECT * FROM products WHERE is_active`
	args := []interface{}{}
	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if strain != "" {
		args = append(args, strain)
		query += fmt.Sprintf(" AND strain_type = $%d", len(args))
	}
	if featured {
		query += " AND is_featured"
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	products := []models.Product{}
	if err := database.DB.SelectContext(ctx, &products, query, args...); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch products"})
	}

	if encoded, err := json.Marshal(products); err == nil {
		if err := cache.Set(ctx, cacheKey, encoded, productCacheTTL).Err(); err != nil {
			logger.Debug("product cache set failed", zap.Error(err))
		}
	}

	return c.JSON(http.StatusOK, products)
}

func GetProduct(c echo.Context) error {
	productID := c.Param("id")
	if _, err := uuid.Parse(productID); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	var product models.Product
	err := database.DB.GetContext(c.Request().Context(), &product,
		`SELECT * FROM products WHERE id = $1`, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch product"})
	}

	return c.JSON(http.StatusOK, product)
}

type productRequest struct {
	Title          string             `json:"title"`
	Description    *string            `json:"description"`
	Category       string             `json:"category"`
	StrainType     *models.StrainType `json:"strain_type"`
	THCPotency     *float64           `json:"thc_potency"`
	CBDPotency     *float64           `json:"cbd_potency"`
	Price          float64            `json:"price"`
	CompareAtPrice *float64           `json:"compare_at_price"`
	Stock          int                `json:"stock"`
	BatchLot       *string            `json:"batch_lot"`
	Images         models.StringList  `json:"images"`
	WeightGrams    *float64           `json:"weight_grams"`
	IsActive       bool               `json:"is_active"`
	IsFeatured     bool               `json:"is_featured"`
	Tags           models.StringList  `json:"tags"`
}

func (r *productRequest) validate() error {
	if len(r.Title) < 2 || len(r.Title) > 200 {
		return errors.New("Title must be between 2 and 200 characters")
	}
	if !models.ProductCategory(r.Category).Valid() {
		return errors.New("Invalid category")
	}
	if r.Price <= 0 {
		return errors.New("Price must be greater than 0")
	}
	if r.Stock < 0 {
		return errors.New("Stock cannot be negative")
	}
	return nil
}

// CreateProduct adds a catalog row (admin only).
func CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	now := time.Now()
	product := models.Product{
		ID:             uuid.New().String(),
		Title:          req.Title,
		Description:    req.Description,
		Category:       models.ProductCategory(req.Category),
		StrainType:     req.StrainType,
		THCPotency:     req.THCPotency,
		CBDPotency:     req.CBDPotency,
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
		Stock:          req.Stock,
		BatchLot:       req.BatchLot,
		Images:         req.Images,
		WeightGrams:    req.WeightGrams,
		IsActive:       req.IsActive,
		IsFeatured:     req.IsFeatured,
		Tags:           req.Tags,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := database.DB.NamedExecContext(c.Request().Context(), `
		INSERT INTO products (
			id, title, description, category, strain_type, thc_potency, cbd_potency,
			price, compare_at_price, stock, batch_lot, images, weight_grams,
			is_active, is_featured, tags, created_at, updated_at
		) VALUES (
			:id, :title, :description, :category, :strain_type, :thc_potency, :cbd_potency,
			:price, :compare_at_price, :stock, :batch_lot, :images, :weight_grams,
			:is_active, :is_featured, :tags, :created_at, :updated_at
		)`, product)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create product"})
	}

	invalidateProductCache(c.Request().Context())
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct replaces a catalog row's editable fields (admin only).
func UpdateProduct(c echo.Context) error {
	productID := c.Param("id")
	if _, err := uuid.Parse(productID); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := database.DB.ExecContext(c.Request().Context(), `
		UPDATE products SET
			title = $2, description = $3, category = $4, strain_type = $5,
			thc_potency = $6, cbd_potency = $7, price = $8, compare_at_price = $9,
			stock = $10, batch_lot = $11, images = $12, weight_grams = $13,
			is_active = $14, is_featured = $15, tags = $16, updated_at = NOW()
		WHERE id = $1`,
		productID, req.Title, req.Description, req.Category, req.StrainType,
		req.THCPotency, req.CBDPotency, req.Price, req.CompareAtPrice,
		req.Stock, req.BatchLot, req.Images, req.WeightGrams,
		req.IsActive, req.IsFeatured, req.Tags)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update product"})
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
	}

	invalidateProductCache(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]string{"message": "Product updated successfully"})
}

// DeleteProduct deactivates a catalog row (admin only). Order items keep
// their snapshots, so rows are never physically removed.
func DeleteProduct(c echo.Context) error {
	productID := c.Param("id")
	if _, err := uuid.Parse(productID); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	result, err := database.DB.ExecContext(c.Request().Context(),
		`UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, productID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete product"})
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
	}

	invalidateProductCache(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

func productListCacheKey(category, strain, search string, featured bool, limit, offset int) string {
	raw := fmt.Sprintf("%s|%s|%s|%t|%d|%d", category, strain, search, featured, limit, offset)
	return fmt.Sprintf("products:list:%x", md5.Sum([]byte(raw)))
}

func invalidateProductCache(ctx context.Context) {
	iter := cache.Scan(ctx, 0, "products:list:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := cache.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Debug("product cache invalidation failed", zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		logger.Debug("product cache scan failed", zap.Error(err))
	}
}
