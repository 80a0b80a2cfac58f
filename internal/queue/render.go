package queue

import (
	"fmt"
	"strings"
)

// Subject returns the email subject line for an event.
func (ev NotificationEvent) Subject() string {
	switch ev.Kind {
	case KindBookingCreated:
		return fmt.Sprintf("Booking request received — #%d", ev.BookingID)
	case KindStatusChanged:
		return fmt.Sprintf("Booking #%d is now %s", ev.BookingID, ev.NewStatus)
	case KindPaymentRecorded:
		return fmt.Sprintf("Payment received for booking #%d", ev.BookingID)
	case KindBookingCancelled:
		return fmt.Sprintf("Booking #%d cancelled", ev.BookingID)
	case KindContactReceived:
		return "New contact inquiry"
	default:
		return fmt.Sprintf("Notification: %s", ev.Kind)
	}
}

// StaffSubject returns the subject of the internal copy sent to the
// staff inbox when a new booking request arrives.
func (ev NotificationEvent) StaffSubject() string {
	return fmt.Sprintf("New booking request #%d — %s", ev.BookingID, ev.EventDate)
}

// StaffHTMLBody renders the internal copy of a new booking request.
func (ev NotificationEvent) StaffHTMLBody(companyName string) string {
	var b strings.Builder
	b.WriteString("<html><body style=\"font-family:Arial,sans-serif\">")
	b.WriteString("<h2>New booking request</h2>")
	b.WriteString("<table>")
	row(&b, "Booking", fmt.Sprintf("#%d", ev.BookingID))
	row(&b, "Client", fmt.Sprintf("%s &lt;%s&gt;", ev.ClientName, ev.ClientEmail))
	row(&b, "Event", ev.EventName)
	row(&b, "Type", ev.EventType)
	row(&b, "Date", ev.EventDate)
	row(&b, "Total", cents(ev.TotalPriceCents))
	row(&b, "Balance due", cents(ev.BalanceDueCents))
	b.WriteString("</table>")
	fmt.Fprintf(&b, "<p>— %s</p>", companyName)
	b.WriteString("</body></html>")
	return b.String()
}

// HTMLBody renders a small HTML email for an event. Layout follows
// one pattern for every kind: greeting, a details table, sign-off.
func (ev NotificationEvent) HTMLBody(companyName string) string {
	var b strings.Builder
	b.WriteString("<html><body style=\"font-family:Arial,sans-serif\">")
	switch ev.Kind {
	case KindBookingCreated:
		fmt.Fprintf(&b, "<h2>Thank you, %s!</h2>", ev.ClientName)
		b.WriteString("<p>We received your booking request and will confirm it shortly.</p>")
		b.WriteString("<table>")
		row(&b, "Booking", fmt.Sprintf("#%d", ev.BookingID))
		row(&b, "Event", ev.EventName)
		row(&b, "Date", ev.EventDate)
		row(&b, "Total", cents(ev.TotalPriceCents))
		row(&b, "Balance due", cents(ev.BalanceDueCents))
		b.WriteString("</table>")
	case KindStatusChanged:
		fmt.Fprintf(&b, "<h2>Hello %s,</h2>", ev.ClientName)
		fmt.Fprintf(&b, "<p>Your booking <b>#%d</b> moved from %s to <b>%s</b>.</p>",
			ev.BookingID, ev.OldStatus, ev.NewStatus)
		if ev.EventDate != "" {
			fmt.Fprintf(&b, "<p>Event date: %s</p>", ev.EventDate)
		}
	case KindPaymentRecorded:
		fmt.Fprintf(&b, "<h2>Hello %s,</h2>", ev.ClientName)
		fmt.Fprintf(&b, "<p>We recorded a payment of <b>%s</b> on booking #%d.</p>",
			cents(ev.AmountCents), ev.BookingID)
		fmt.Fprintf(&b, "<p>Remaining balance: <b>%s</b></p>", cents(ev.BalanceDueCents))
	case KindBookingCancelled:
		fmt.Fprintf(&b, "<h2>Hello %s,</h2>", ev.ClientName)
		fmt.Fprintf(&b, "<p>Your booking <b>#%d</b> has been cancelled.</p>", ev.BookingID)
		if ev.CancellationFeeCents > 0 {
			fmt.Fprintf(&b, "<p>A cancellation fee of <b>%s</b> applies.</p>", cents(ev.CancellationFeeCents))
		}
	case KindContactReceived:
		b.WriteString("<h2>New inquiry</h2>")
		b.WriteString("<table>")
		row(&b, "From", fmt.Sprintf("%s &lt;%s&gt;", ev.ClientName, ev.ClientEmail))
		row(&b, "Event type", ev.EventType)
		row(&b, "Message", ev.Message)
		b.WriteString("</table>")
	default:
		fmt.Fprintf(&b, "<p>%s</p>", ev.Kind)
	}
	fmt.Fprintf(&b, "<p>— %s</p>", companyName)
	b.WriteString("</body></html>")
	return b.String()
}

func row(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "<tr><td><b>%s</b></td><td>%s</td></tr>", label, value)
}

// cents formats integer cents as a dollar amount.
func cents(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/100, v%100)
}
