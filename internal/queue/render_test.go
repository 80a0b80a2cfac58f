package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectPerKind(t *testing.T) {
	cases := []struct {
		ev   NotificationEvent
		want string
	}{
		{NotificationEvent{Kind: KindBookingCreated, BookingID: 12}, "Booking request received — #12"},
		{NotificationEvent{Kind: KindStatusChanged, BookingID: 12, NewStatus: "CONFIRMED"}, "Booking #12 is now CONFIRMED"},
		{NotificationEvent{Kind: KindPaymentRecorded, BookingID: 12}, "Payment received for booking #12"},
		{NotificationEvent{Kind: KindBookingCancelled, BookingID: 12}, "Booking #12 cancelled"},
		{NotificationEvent{Kind: KindContactReceived}, "New contact inquiry"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.ev.Subject())
	}
}

func TestHTMLBodyBookingCreated(t *testing.T) {
	ev := NotificationEvent{
		Kind:            KindBookingCreated,
		BookingID:       7,
		ClientName:      "Amina",
		EventName:       "Odhiambo Wedding",
		EventDate:       "2025-04-09",
		TotalPriceCents: 75000,
		BalanceDueCents: 70000,
	}
	body := ev.HTMLBody("Ignux Fireworks")
	assert.Contains(t, body, "Thank you, Amina!")
	assert.Contains(t, body, "$750.00")
	assert.Contains(t, body, "$700.00")
	assert.Contains(t, body, "Ignux Fireworks")
}

func TestHTMLBodyCancelledOmitsZeroFee(t *testing.T) {
	ev := NotificationEvent{Kind: KindBookingCancelled, BookingID: 3, ClientName: "Bo"}
	assert.NotContains(t, ev.HTMLBody("Ignux"), "cancellation fee")

	ev.CancellationFeeCents = 12550
	assert.Contains(t, ev.HTMLBody("Ignux"), "$125.50")
}

func TestCentsFormatting(t *testing.T) {
	assert.Equal(t, "$0.00", cents(0))
	assert.Equal(t, "$0.05", cents(5))
	assert.Equal(t, "$1.00", cents(100))
	assert.Equal(t, "$1234.56", cents(123456))
	assert.Equal(t, "-$1.50", cents(-150))
}
