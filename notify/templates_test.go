package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/dankdeals/dankdeals-backend-go/models"
)

func testOrder() *models.Order {
	instructions := "Ring the bell"
	return &models.Order{
		ID:       "a1b2c3d4-5678-90ab-cdef-1234567890ab",
		Status:   models.OrderStatusPending,
		Subtotal: 25.98,
		Tax:      4.38,
		DeliveryFee: 5,
		Tip:         3,
		Total:       38.36,
		DeliveryAddress: models.Address{
			Street: "123 Main St", Apt: "Apt 4", City: "Minneapolis", State: "MN", Zip: "55401",
		},
		DeliverySlot:         time.Date(2025, 6, 14, 16, 0, 0, 0, time.UTC),
		DeliveryInstructions: &instructions,
		Items: []models.OrderItem{
			{ProductTitle: "Blue Dream 3.5g", Quantity: 2, PriceAtPurchase: 12.99},
		},
	}
}

func TestOrderRef(t *testing.T) {
	if got := OrderRef("a1b2c3d4-5678"); got != "A1B2C3D4" {
		t.Errorf("OrderRef = %q, want A1B2C3D4", got)
	}
	if got := OrderRef("abc"); got != "ABC" {
		t.Errorf("OrderRef short id = %q, want ABC", got)
	}
}

func TestConfirmationSubject(t *testing.T) {
	got := ConfirmationSubject(testOrder())
	if got != "Order Confirmed - A1B2C3D4" {
		t.Errorf("subject = %q", got)
	}
}

func TestConfirmationHTML(t *testing.T) {
	order := testOrder()
	body := ConfirmationHTML(order, "Jane Doe")

	for _, want := range []string{
		"Hi Jane",
		"A1B2C3D4",
		"Blue Dream 3.5g",
		"Qty: 2",
		"$25.98",
		"$38.36",
		"123 Main St, Apt 4",
		"Minneapolis, MN 55401",
		"Ring the bell",
		"Cash on Delivery",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("confirmation missing %q", want)
		}
	}

	if strings.Contains(body, "Discount") {
		t.Error("confirmation should omit discount line when zero")
	}
}

func TestConfirmationHTMLEscapesProductTitle(t *testing.T) {
	order := testOrder()
	order.Items[0].ProductTitle = `<script>alert("x")</script>`

	body := ConfirmationHTML(order, "")
	if strings.Contains(body, "<script>") {
		t.Error("product title was not escaped")
	}
	if !strings.Contains(body, "Hi there") {
		t.Error("empty name should fall back to generic greeting")
	}
}

func TestStatusSubject(t *testing.T) {
	order := testOrder()
	order.Status = models.OrderStatusOutForDelivery

	if got := StatusSubject(order); got != "Out for Delivery - A1B2C3D4" {
		t.Errorf("subject = %q", got)
	}
}

func TestStatusHTMLOutForDeliveryReminder(t *testing.T) {
	order := testOrder()
	order.Status = models.OrderStatusOutForDelivery

	body := StatusHTML(order, "Jane")
	if !strings.Contains(body, "ready in cash") {
		t.Error("out_for_delivery email should carry the cash reminder")
	}
	if !strings.Contains(body, "$38.36") {
		t.Error("reminder should include the order total")
	}
}

func TestDeliverySMSIncludesRefAndTotal(t *testing.T) {
	msg := DeliverySMS(testOrder())
	if !strings.Contains(msg, "A1B2C3D4") || !strings.Contains(msg, "$38.36") {
		t.Errorf("sms = %q", msg)
	}
}
