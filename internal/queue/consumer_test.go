package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailsForBookingCreatedFansOutToStaff(t *testing.T) {
	ev := NotificationEvent{
		Kind:        KindBookingCreated,
		BookingID:   42,
		ClientName:  "Amina",
		ClientEmail: "amina@example.com",
		EventName:   "Odhiambo Wedding",
		EventDate:   "2025-04-09",
	}

	out := mailsFor(ev, "staff@ignux.example", "Ignux Fireworks")
	require.Len(t, out, 2)

	assert.Equal(t, "amina@example.com", out[0].to)
	assert.Equal(t, "Booking request received — #42", out[0].subject)

	assert.Equal(t, "staff@ignux.example", out[1].to)
	assert.Equal(t, "New booking request #42 — 2025-04-09", out[1].subject)
	assert.Contains(t, out[1].body, "amina@example.com")
	assert.Contains(t, out[1].body, "Odhiambo Wedding")
}

func TestMailsForBookingCreatedWithoutStaffInbox(t *testing.T) {
	ev := NotificationEvent{Kind: KindBookingCreated, ClientEmail: "amina@example.com"}

	out := mailsFor(ev, "", "Ignux")
	require.Len(t, out, 1)
	assert.Equal(t, "amina@example.com", out[0].to)
}

func TestMailsForContactReceivedGoesToStaffOnly(t *testing.T) {
	ev := NotificationEvent{
		Kind:        KindContactReceived,
		ClientName:  "Bo",
		ClientEmail: "bo@example.com",
		Message:     "Do you cover lake venues?",
	}

	out := mailsFor(ev, "staff@ignux.example", "Ignux")
	require.Len(t, out, 1)
	assert.Equal(t, "staff@ignux.example", out[0].to)
	assert.Equal(t, "New contact inquiry", out[0].subject)

	assert.Empty(t, mailsFor(ev, "", "Ignux"))
}

func TestMailsForStatusChangeMailsClientOnly(t *testing.T) {
	ev := NotificationEvent{
		Kind:        KindStatusChanged,
		BookingID:   7,
		ClientEmail: "amina@example.com",
		OldStatus:   "PENDING",
		NewStatus:   "CONFIRMED",
	}

	out := mailsFor(ev, "staff@ignux.example", "Ignux")
	require.Len(t, out, 1)
	assert.Equal(t, "amina@example.com", out[0].to)
}
