package notify

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dankdeals/dankdeals-backend-go/models"
)

const companyName = "DankDeals"

// OrderRef is the short order number shown to customers: the first eight
// characters of the order id, uppercased.
func OrderRef(orderID string) string {
	ref := orderID
	if len(ref) > 8 {
		ref = ref[:8]
	}
	return strings.ToUpper(ref)
}

func formatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

func formatSlot(t time.Time) string {
	return t.Format("Monday, January 2 at 3:04 PM")
}

func greeting(fullName string) string {
	if fullName == "" {
		return "Hi there"
	}
	first := strings.Fields(fullName)[0]
	return "Hi " + first
}

// ConfirmationSubject returns the subject line for an order confirmation.
func ConfirmationSubject(order *models.Order) string {
	return "Order Confirmed - " + OrderRef(order.ID)
}

// ConfirmationHTML builds the order confirmation email body.
func ConfirmationHTML(order *models.Order, customerName string) string {
	var rows strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&rows,
			`<tr><td>%s<br><span>Qty: %d</span></td><td align="right">%s</td></tr>`,
			html.EscapeString(item.ProductTitle), item.Quantity,
			formatCurrency(item.PriceAtPurchase*float64(item.Quantity)))
	}

	var totals strings.Builder
	fmt.Fprintf(&totals, `<p>Subtotal: %s</p>`, formatCurrency(order.Subtotal))
	if order.Discount > 0 {
		fmt.Fprintf(&totals, `<p>Discount: -%s</p>`, formatCurrency(order.Discount))
	}
	fmt.Fprintf(&totals, `<p>Tax: %s</p>`, formatCurrency(order.Tax))
	fmt.Fprintf(&totals, `<p>Delivery Fee: %s</p>`, formatCurrency(order.DeliveryFee))
	if order.Tip > 0 {
		fmt.Fprintf(&totals, `<p>Tip: %s</p>`, formatCurrency(order.Tip))
	}
	fmt.Fprintf(&totals, `<p><strong>Total: %s</strong></p>`, formatCurrency(order.Total))

	addr := order.DeliveryAddress
	addrLine := html.EscapeString(addr.Street)
	if addr.Apt != "" {
		addrLine += ", " + html.EscapeString(addr.Apt)
	}

	instructions := ""
	if order.DeliveryInstructions != nil && *order.DeliveryInstructions != "" {
		instructions = fmt.Sprintf(`<p><em>%q</em></p>`, html.EscapeString(*order.DeliveryInstructions))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html><body>
<h1>%s</h1>
<h2>%s, your order is confirmed!</h2>
<p>Thank you for your order. We're preparing your items for delivery and will notify you when your driver is on the way.</p>
<p>Order Number: <strong>%s</strong><br>Delivery Time: %s</p>
<table width="100%%">%s</table>
%s
<h3>Delivery Address</h3>
<p>%s<br>%s, %s %s</p>
%s
<h3>Payment Method</h3>
<p>Cash on Delivery. Please have %s ready for your driver.</p>
<p>%s | Minneapolis-St. Paul, MN</p>
</body></html>`,
		companyName,
		greeting(customerName),
		OrderRef(order.ID),
		formatSlot(order.DeliverySlot),
		rows.String(),
		totals.String(),
		addrLine, html.EscapeString(addr.City), html.EscapeString(addr.State), html.EscapeString(addr.Zip),
		instructions,
		formatCurrency(order.Total),
		companyName,
	)
}

var statusMessages = map[models.OrderStatus]struct {
	Title   string
	Message string
}{
	models.OrderStatusConfirmed:      {"Order Confirmed", "We've received your order and it's being prepared."},
	models.OrderStatusPreparing:      {"Preparing Your Order", "Your items are being carefully prepared for delivery."},
	models.OrderStatusOutForDelivery: {"Out for Delivery", "Your driver is on the way! Please have payment ready."},
	models.OrderStatusDelivered:      {"Delivered", "Your order has been delivered. Enjoy!"},
	models.OrderStatusCancelled:      {"Order Cancelled", "Your order has been cancelled. Contact us if you have questions."},
}

// StatusSubject returns the subject line for a status update email.
func StatusSubject(order *models.Order) string {
	info, ok := statusMessages[order.Status]
	if !ok {
		return "Order Update - " + OrderRef(order.ID)
	}
	return info.Title + " - " + OrderRef(order.ID)
}

// StatusHTML builds the order status update email body.
func StatusHTML(order *models.Order, customerName string) string {
	info, ok := statusMessages[order.Status]
	if !ok {
		info.Title = "Order Update"
		info.Message = "Your order status is now: " + string(order.Status)
	}

	reminder := ""
	if order.Status == models.OrderStatusOutForDelivery {
		reminder = fmt.Sprintf(
			`<p><strong>Scheduled Delivery: %s</strong><br>Please have %s ready in cash.</p>`,
			formatSlot(order.DeliverySlot), formatCurrency(order.Total))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html><body>
<h1>%s</h1>
<h2>%s</h2>
<p>%s, %s</p>
<p>Order Number: <strong>%s</strong></p>
%s
<p>%s | Minneapolis-St. Paul, MN</p>
</body></html>`,
		companyName,
		info.Title,
		greeting(customerName), info.Message,
		OrderRef(order.ID),
		reminder,
		companyName,
	)
}

// DeliverySMS is the text sent alongside the out-for-delivery email.
func DeliverySMS(order *models.Order) string {
	return fmt.Sprintf("%s: your driver is on the way! Order %s, please have %s ready in cash.",
		companyName, OrderRef(order.ID), formatCurrency(order.Total))
}

// WelcomeSMS greets a new waitlist signup.
func WelcomeSMS() string {
	return companyName + ": you're on the list! We'll text you as soon as delivery opens in your area. Reply STOP to opt out."
}
