package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/dankdeals/dankdeals-backend-go/database"
	"github.com/dankdeals/dankdeals-backend-go/models"
	"github.com/labstack/echo/v4"
)

type dailyRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type topProduct struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Units     int     `json:"units"`
	Revenue   float64 `json:"revenue"`
}

type dashboardResponse struct {
	ProductCount     int              `json:"product_count"`
	CustomerCount    int              `json:"customer_count"`
	Revenue30d       float64          `json:"revenue_30d"`
	Revenue7d        float64          `json:"revenue_7d"`
	Orders30d        int              `json:"orders_30d"`
	AvgOrderValue    float64          `json:"avg_order_value"`
	StatusCounts     map[string]int   `json:"status_counts"`
	FulfillmentRate  float64          `json:"fulfillment_rate"`
	DailyRevenue     []dailyRevenue   `json:"daily_revenue"`
	TopProducts      []topProduct     `json:"top_products"`
	LowStockProducts []models.Product `json:"low_stock_products"`
	RecentOrders     []models.Order   `json:"recent_orders"`
	WaitlistTotal    int              `json:"waitlist_total"`
}

// GetDashboard aggregates the last 30 days of orders into the back-office
// overview. Cancelled orders are excluded from revenue but counted in the
// status breakdown.
func GetDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	now := time.Now()
	since := now.AddDate(0, 0, -30)

	orders := []models.Order{}
	err := database.DB.SelectContext(ctx, &orders,
		`SELECT * FROM orders WHERE created_at >= $1 ORDER BY created_at DESC`, since)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load dashboard"})
	}

	resp := dashboardResponse{
		StatusCounts: map[string]int{},
		DailyRevenue: []dailyRevenue{},
		TopProducts:  []topProduct{},
	}

	weekAgo := now.AddDate(0, 0, -7)
	daily := map[string]*dailyRevenue{}
	for d := 13; d >= 0; d-- {
		date := now.AddDate(0, 0, -d).Format("2006-01-02")
		daily[date] = &dailyRevenue{Date: date}
	}

	delivered, cancelled := 0, 0
	for _, o := range orders {
		resp.StatusCounts[string(o.Status)]++
		switch o.Status {
		case models.OrderStatusDelivered:
			delivered++
		case models.OrderStatusCancelled:
			cancelled++
			continue
		}

		resp.Revenue30d += o.Total
		resp.Orders30d++
		if o.CreatedAt.After(weekAgo) {
			resp.Revenue7d += o.Total
		}
		if entry, ok := daily[o.CreatedAt.Format("2006-01-02")]; ok {
			entry.Revenue += o.Total
			entry.Orders++
		}
	}

	for d := 13; d >= 0; d-- {
		date := now.AddDate(0, 0, -d).Format("2006-01-02")
		resp.DailyRevenue = append(resp.DailyRevenue, *daily[date])
	}

	if resp.Orders30d > 0 {
		resp.AvgOrderValue = resp.Revenue30d / float64(resp.Orders30d)
	}
	if delivered+cancelled > 0 {
		resp.FulfillmentRate = float64(delivered) / float64(delivered+cancelled)
	}

	if err := topProducts(c, since, &resp); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load dashboard"})
	}

	resp.LowStockProducts = []models.Product{}
	err = database.DB.SelectContext(ctx, &resp.LowStockProducts,
		`SELECT * FROM products WHERE is_active AND stock <= 10 ORDER BY stock ASC LIMIT 5`)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load dashboard"})
	}

	resp.RecentOrders = orders
	if len(resp.RecentOrders) > 10 {
		resp.RecentOrders = resp.RecentOrders[:10]
	}
	if err := attachItems(ctx, resp.RecentOrders); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load dashboard"})
	}

	counts := []struct {
		dest  *int
		query string
	}{
		{&resp.ProductCount, `SELECT COUNT(*) FROM products WHERE is_active`},
		{&resp.CustomerCount, `SELECT COUNT(*) FROM profiles WHERE role = 'customer'`},
		{&resp.WaitlistTotal, `SELECT COUNT(*) FROM waitlist_entries`},
	}
	for _, q := range counts {
		if err := database.DB.GetContext(ctx, q.dest, q.query); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load dashboard"})
		}
	}

	return c.JSON(http.StatusOK, resp)
}

func topProducts(c echo.Context, since time.Time, resp *dashboardResponse) error {
	rows := []struct {
		ProductID string  `db:"product_id"`
		Title     string  `db:"product_title"`
		Units     int     `db:"units"`
		Revenue   float64 `db:"revenue"`
	}{}

	err := database.DB.SelectContext(c.Request().Context(), &rows, `
		SELECT oi.product_id, oi.product_title,
		       SUM(oi.quantity) AS units,
		       SUM(oi.quantity * oi.price_at_purchase) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.created_at >= $1 AND o.status <> 'cancelled'
		GROUP BY oi.product_id, oi.product_title`, since)
	if err != nil {
		return err
	}

	for _, r := range rows {
		resp.TopProducts = append(resp.TopProducts, topProduct{
			ProductID: r.ProductID,
			Title:     r.Title,
			Units:     r.Units,
			Revenue:   r.Revenue,
		})
	}
	sort.Slice(resp.TopProducts, func(i, j int) bool {
		return resp.TopProducts[i].Revenue > resp.TopProducts[j].Revenue
	})
	if len(resp.TopProducts) > 5 {
		resp.TopProducts = resp.TopProducts[:5]
	}
	return nil
}
