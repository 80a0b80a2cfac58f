package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogOnlyModeWhenNoHost(t *testing.T) {
	m := New(Config{}, nil)
	assert.False(t, m.Enabled())

	// Without an SMTP host delivery is suppressed, not failed.
	require.NoError(t, m.Send("client@example.com", "subject", "<p>hi</p>"))
}

func TestSendRejectsEmptyRecipient(t *testing.T) {
	m := New(Config{}, nil)
	assert.Error(t, m.Send("", "subject", "body"))
}

func TestCompanyNameDefault(t *testing.T) {
	m := New(Config{AdminEmail: "staff@example.com"}, nil)
	assert.Equal(t, "staff@example.com", m.AdminEmail())
	assert.Equal(t, "Ignux Fireworks", m.cfg.CompanyName)
}
