package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/dankdeals/dankdeals-backend-go/database"
	"github.com/dankdeals/dankdeals-backend-go/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// GetCart retrieves the user's cart with current product rows attached.
func GetCart(c echo.Context) error {
	userID := c.Get("userID").(string)
	ctx := c.Request().Context()

	items := []models.CartItem{}
	err := database.DB.SelectContext(ctx, &items,
		`SELECT * FROM cart_items WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch cart"})
	}

	for i := range items {
		var product models.Product
		err := database.DB.GetContext(ctx, &product,
			`SELECT * FROM products WHERE id = $1`, items[i].ProductID)
		if err == nil {
			items[i].Product = &product
		}
	}

	return c.JSON(http.StatusOK, items)
}

// AddToCart adds a product to the cart, merging quantities for repeat adds.
// The stored quantity is clamped to current stock.
func AddToCart(c echo.Context) error {
	userID := c.Get("userID").(string)

	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if _, err := uuid.Parse(req.ProductID); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	ctx := c.Request().Context()

	var product models.Product
	err := database.DB.GetContext(ctx, &product,
		`SELECT * FROM products WHERE id = $1 AND is_active`, req.ProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch product"})
	}

	_, err = database.DB.ExecContext(ctx, `
		INSERT INTO cart_items (id, user_id, product_id, quantity)
		VALUES ($1, $2, $3, LEAST($4, $5))
		ON CONFLICT (user_id, product_id) DO UPDATE SET
			quantity = LEAST(cart_items.quantity + $4, $5),
			updated_at = NOW()`,
		uuid.New().String(), userID, req.ProductID, req.Quantity, product.Stock)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to add item to cart"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Item added to cart"})
}

// UpdateCartItemQuantity sets an item's quantity; zero or less removes it.
func UpdateCartItemQuantity(c echo.Context) error {
	userID := c.Get("userID").(string)

	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if _, err := uuid.Parse(req.ProductID); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	ctx := c.Request().Context()

	if req.Quantity <= 0 {
		_, err := database.DB.ExecContext(ctx,
			`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
			userID, req.ProductID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update cart"})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Item removed from cart"})
	}

	result, err := database.DB.ExecContext(ctx, `
		UPDATE cart_items SET
			quantity = LEAST($3, (SELECT stock FROM products WHERE id = $2)),
			updated_at = NOW()
		WHERE user_id = $1 AND product_id = $2`,
		userID, req.ProductID, req.Quantity)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update cart"})
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Item not found in cart"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Quantity updated successfully"})
}

// RemoveFromCart removes an item from the cart
func RemoveFromCart(c echo.Context) error {
	userID := c.Get("userID").(string)
	productID := c.Param("productId")
	if _, err := uuid.Parse(productID); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	result, err := database.DB.ExecContext(c.Request().Context(),
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update cart"})
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Item not found in cart"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Item removed from cart"})
}
