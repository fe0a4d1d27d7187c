package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dankdeals/dankdeals-backend-go/database"
	"github.com/dankdeals/dankdeals-backend-go/metrics"
	"github.com/dankdeals/dankdeals-backend-go/models"
	"github.com/dankdeals/dankdeals-backend-go/notify"
	"github.com/dankdeals/dankdeals-backend-go/pricing"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type createOrderRequest struct {
	Items                []pricing.Line `json:"items"`
	DeliveryAddress      models.Address `json:"delivery_address"`
	DeliverySlot         string         `json:"delivery_slot"`
	DeliveryInstructions string         `json:"delivery_instructions"`
	DeliveryFee          float64        `json:"delivery_fee"`
	Tip                  float64        `json:"tip"`
	PromoCode            string         `json:"promo_code"`
}

// CreateOrder recomputes the order total from stored product rows and
// persists the order, its item snapshots, and the stock decrements in a
// single transaction. Client-supplied prices and totals are ignored.
func CreateOrder(c echo.Context) error {
	userID := c.Get("userID").(string)

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	addr := req.DeliveryAddress
	if addr.Street == "" || addr.City == "" || addr.State == "" || addr.Zip == "" {
		metrics.OrdersRejected.Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "A complete delivery address is required"})
	}

	slot, err := time.Parse(time.RFC3339, req.DeliverySlot)
	if err != nil {
		metrics.OrdersRejected.Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid delivery slot"})
	}

	ctx := c.Request().Context()

	products, err := fetchProducts(ctx, req.Items)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create order"})
	}

	var promo *models.PromoCode
	if req.PromoCode != "" {
		promo, err = fetchPromo(ctx, req.PromoCode)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create order"})
		}
		if promo == nil {
			metrics.OrdersRejected.Inc()
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown promo code"})
		}
	}

	// The delivery fee comes from the matched zone; a client-supplied fee is
	// only honored (clamped) when no zone covers the address.
	zone, err := matchZone(ctx, addr.City)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create order"})
	}
	fee := req.DeliveryFee
	if zone != nil {
		fee = zone.DeliveryFee
	}

	totals, err := pricing.PriceOrder(req.Items, products, pricing.Options{
		SalesTaxRate:  cfg.Tax.SalesRate,
		ExciseTaxRate: cfg.Tax.ExciseRate,
		DeliveryFee:   fee,
		Tip:           req.Tip,
		Promo:         promo,
		Now:           time.Now(),
	})
	if err != nil {
		var verr *pricing.ValidationError
		if errors.As(err, &verr) {
			metrics.OrdersRejected.Inc()
			return c.JSON(http.StatusBadRequest, map[string]string{"error": verr.Msg})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create order"})
	}

	if zone != nil && totals.Subtotal < zone.MinOrder {
		metrics.OrdersRejected.Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Order is below the minimum for your delivery zone"})
	}

	now := time.Now()
	order := models.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Status:          models.OrderStatusPending,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		DeliveryFee:     totals.DeliveryFee,
		Tip:             totals.Tip,
		Discount:        totals.Discount,
		Total:           totals.Total,
		DeliveryAddress: addr,
		DeliverySlot:    slot,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.DeliveryInstructions != "" {
		order.DeliveryInstructions = &req.DeliveryInstructions
	}
	if promo != nil {
		order.PromoCode = &promo.Code
	}

	if err := persistOrder(ctx, &order, totals.Items, promo); err != nil {
		var verr *pricing.ValidationError
		if errors.As(err, &verr) {
			metrics.OrdersRejected.Inc()
			return c.JSON(http.StatusBadRequest, map[string]string{"error": verr.Msg})
		}
		logger.Error("failed to persist order", zap.String("user_id", userID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create order"})
	}

	metrics.OrdersCreated.Inc()
	publishOrderEvent(order, notify.EventOrderCreated)

	return c.JSON(http.StatusCreated, order)
}

func fetchProducts(ctx context.Context, lines []pricing.Line) (map[string]*models.Product, error) {
	products := make(map[string]*models.Product, len(lines))
	if len(lines) == 0 || len(lines) > pricing.MaxOrderLines {
		// The pricing guard rejects these; no point hitting the database.
		return products, nil
	}

	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	query, args, err := sqlx.In(`SELECT * FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	query = database.DB.Rebind(query)

	rows := []models.Product{}
	if err := database.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	for i := range rows {
		products[rows[i].ID] = &rows[i]
	}
	return products, nil
}

func fetchPromo(ctx context.Context, code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := database.DB.GetContext(ctx, &promo,
		`SELECT * FROM promo_codes WHERE code = $1`, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &promo, nil
}

func matchZone(ctx context.Context, city string) (*models.DeliveryZone, error) {
	zones := []models.DeliveryZone{}
	err := database.DB.SelectContext(ctx, &zones,
		`SELECT * FROM delivery_zones WHERE is_active`)
	if err != nil {
		return nil, err
	}
	for i := range zones {
		if zones[i].Matches(city) {
			return &zones[i], nil
		}
	}
	return nil, nil
}

// persistOrder writes the order, item snapshots, stock decrements, promo
// use count, and cart cleanup atomically. A failed conditional stock update
// aborts the whole transaction.
func persistOrder(ctx context.Context, order *models.Order, items []models.OrderItem, promo *models.PromoCode) error {
	tx, err := database.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO orders (
			id, user_id, status, subtotal, tax, delivery_fee, tip, discount, total,
			delivery_address, delivery_slot, delivery_instructions, promo_code,
			created_at, updated_at
		) VALUES (
			:id, :user_id, :status, :subtotal, :tax, :delivery_fee, :tip, :discount, :total,
			:delivery_address, :delivery_slot, :delivery_instructions, :promo_code,
			:created_at, :updated_at
		)`, order)
	if err != nil {
		return err
	}

	for i := range items {
		items[i].ID = uuid.New().String()
		items[i].OrderID = order.ID
		items[i].CreatedAt = order.CreatedAt

		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, price_at_purchase, product_title, created_at)
			VALUES (:id, :order_id, :product_id, :quantity, :price_at_purchase, :product_title, :created_at)`,
			items[i])
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - $1, updated_at = NOW()
			 WHERE id = $2 AND stock >= $1`,
			items[i].Quantity, items[i].ProductID)
		if err != nil {
			return err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return &pricing.ValidationError{Msg: "insufficient stock for " + items[i].ProductTitle}
		}
	}

	if promo != nil {
		result, err := tx.ExecContext(ctx,
			`UPDATE promo_codes SET current_uses = current_uses + 1
			 WHERE id = $1 AND (max_uses IS NULL OR current_uses < max_uses)`,
			promo.ID)
		if err != nil {
			return err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return &pricing.ValidationError{Msg: "promo code " + promo.Code + " has reached its usage limit"}
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1`, order.UserID); err != nil {
		return err
	}

	order.Items = items
	return tx.Commit()
}

// publishOrderEvent queues the customer notification for an order. The
// request has already been answered by the time this runs; failures only
// get logged.
func publishOrderEvent(order models.Order, eventType string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var profile models.Profile
		if err := database.DB.GetContext(ctx, &profile,
			`SELECT * FROM profiles WHERE id = $1`, order.UserID); err != nil {
			logger.Error("failed to load profile for notification",
				zap.String("order_id", order.ID), zap.Error(err))
			return
		}

		payload := notify.OrderEventPayload{
			Order:      order,
			Email:      profile.Email,
			WantsEmail: profile.NotificationEmail,
			WantsSMS:   profile.NotificationSMS,
		}
		if profile.FullName != nil {
			payload.CustomerName = *profile.FullName
		}
		if profile.Phone != nil {
			payload.Phone = *profile.Phone
		}

		switch eventType {
		case notify.EventOrderCreated:
			publisher.OrderCreated(ctx, payload)
		case notify.EventOrderStatusChanged:
			publisher.OrderStatusChanged(ctx, payload)
		}
	}()
}

// GetMyOrders lists the caller's orders, newest first, with items.
func GetMyOrders(c echo.Context) error {
	userID := c.Get("userID").(string)
	ctx := c.Request().Context()

	orders := []models.Order{}
	err := database.DB.SelectContext(ctx, &orders,
		`SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch orders"})
	}

	if err := attachItems(ctx, orders); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch orders"})
	}

	return c.JSON(http.StatusOK, orders)
}

// GetOrder returns one order. Customers can only read their own; admins can
// read any.
func GetOrder(c echo.Context) error {
	orderID := c.Param("id")
	if _, err := uuid.Parse(orderID); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	ctx := c.Request().Context()

	var order models.Order
	err := database.DB.GetContext(ctx, &order, `SELECT * FROM orders WHERE id = $1`, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch order"})
	}

	userID := c.Get("userID").(string)
	role, _ := c.Get("role").(models.UserRole)
	if order.UserID != userID && role != models.RoleAdmin {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden"})
	}

	orders := []models.Order{order}
	if err := attachItems(ctx, orders); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch order"})
	}

	return c.JSON(http.StatusOK, orders[0])
}

// GetOrderStatus is the lightweight polling endpoint.
func GetOrderStatus(c echo.Context) error {
	orderID := c.Param("id")
	if _, err := uuid.Parse(orderID); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	var order models.Order
	err := database.DB.GetContext(c.Request().Context(), &order,
		`SELECT * FROM orders WHERE id = $1`, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch order"})
	}

	userID := c.Get("userID").(string)
	role, _ := c.Get("role").(models.UserRole)
	if order.UserID != userID && role != models.RoleAdmin {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": string(order.Status)})
}

// ListOrders is the back-office order list with optional status filtering.
func ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	limit := parseIntParam(c.QueryParam("limit"), 50, 200)
	offset := parseIntParam(c.QueryParam("offset"), 0, 1<<30)

	query := `SELECT * FROM orders`
	args := []interface{}{}
	if status := c.QueryParam("status"); status != "" {
		if !models.OrderStatus(status).Valid() {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid status filter"})
		}
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, offset)

	orders := []models.Order{}
	if err := database.DB.SelectContext(ctx, &orders, query, args...); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch orders"})
	}
	if err := attachItems(ctx, orders); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch orders"})
	}

	return c.JSON(http.StatusOK, orders)
}

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// UpdateOrderStatus advances an order one step in its lifecycle, or cancels
// it. Skipping steps and leaving a terminal state are both rejected.
func UpdateOrderStatus(c echo.Context) error {
	orderID := c.Param("id")
	if _, err := uuid.Parse(orderID); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if !req.Status.Valid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid status"})
	}

	ctx := c.Request().Context()

	var order models.Order
	err := database.DB.GetContext(ctx, &order, `SELECT * FROM orders WHERE id = $1`, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update order"})
	}

	if !order.Status.CanTransitionTo(req.Status) {
		return c.JSON(http.StatusConflict, map[string]string{
			"error": fmt.Sprintf("cannot move order from %s to %s", order.Status, req.Status)})
	}

	// Guard against a concurrent update between the read and the write.
	result, err := database.DB.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		req.Status, orderID, order.Status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update order"})
	}
	if rows, err := result.RowsAffected(); err != nil || rows == 0 {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Order was updated concurrently"})
	}

	order.Status = req.Status
	publishOrderEvent(order, notify.EventOrderStatusChanged)

	return c.JSON(http.StatusOK, order)
}

func parseIntParam(raw string, def, max int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

func attachItems(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	query, args, err := sqlx.In(`SELECT * FROM order_items WHERE order_id IN (?)`, ids)
	if err != nil {
		return err
	}
	query = database.DB.Rebind(query)

	items := []models.OrderItem{}
	if err := database.DB.SelectContext(ctx, &items, query, args...); err != nil {
		return err
	}

	byOrder := make(map[string][]models.OrderItem, len(orders))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
	}
	return nil
}
