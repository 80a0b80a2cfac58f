package handler

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(echo.GET, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestGetUserID(t *testing.T) {
	c := newTestContext(t, "/")

	_, err := getUserID(c)
	assert.Error(t, err, "missing user_id should be rejected")

	// JWT numeric claims decode as float64.
	c.Set("user_id", float64(42))
	id, err := getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	c.Set("user_id", "17")
	id, err = getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(17), id)

	c.Set("user_id", "not-a-number")
	_, err = getUserID(c)
	assert.Error(t, err)
}

func TestCurrentEmailNormalizes(t *testing.T) {
	c := newTestContext(t, "/")
	assert.Equal(t, "", currentEmail(c))

	c.Set("email", "  Amina@Example.COM ")
	assert.Equal(t, "amina@example.com", currentEmail(c))
}

func TestPathID(t *testing.T) {
	c := newTestContext(t, "/")
	c.SetParamNames("id")

	c.SetParamValues("19")
	id, err := pathID(c, "id")
	require.NoError(t, err)
	assert.Equal(t, uint64(19), id)

	for _, bad := range []string{"0", "-4", "abc", ""} {
		c.SetParamValues(bad)
		_, err := pathID(c, "id")
		assert.Error(t, err, "value %q should be rejected", bad)
	}
}

func TestParseDateParam(t *testing.T) {
	c := newTestContext(t, "/?from=2025-04-09&bad=09/04/2025")

	d, err := parseDateParam(c, "from")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.April, 9, 0, 0, 0, 0, time.UTC), d)

	d, err = parseDateParam(c, "missing")
	require.NoError(t, err)
	assert.True(t, d.IsZero(), "absent parameter yields zero time")

	_, err = parseDateParam(c, "bad")
	assert.Error(t, err)
}
