package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	t.Setenv("SHOP_TEST_VALUE", "   ")
	assert.Equal(t, "fallback", Get("SHOP_TEST_VALUE", "fallback"))

	t.Setenv("SHOP_TEST_VALUE", " console ")
	assert.Equal(t, "console", Get("SHOP_TEST_VALUE", "fallback"))

	assert.Equal(t, "fallback", Get("SHOP_TEST_UNSET_VALUE", "fallback"))
}

func TestGetDuration(t *testing.T) {
	for _, tc := range []struct {
		raw  string
		want time.Duration
	}{
		{raw: "90s", want: 90 * time.Second},
		{raw: "soon", want: time.Second},
		{raw: "", want: time.Second},
	} {
		t.Setenv("SHOP_TEST_DURATION", tc.raw)
		assert.Equal(t, tc.want, GetDuration("SHOP_TEST_DURATION", time.Second), tc.raw)
	}
}
