package num_test

import (
	"testing"

	"github.com/tidemark/tradecore/num"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateToIncrement(t *testing.T) {
	t.Run("floors to the increment", testTruncateFloors)
	t.Run("never rounds up", testTruncateNeverRoundsUp)
	t.Run("non positive increment is a no-op", testTruncateNoIncrement)
}

func testTruncateFloors(t *testing.T) {
	cases := []struct {
		v, inc, want string
	}{
		{"30045.0225", "0.01", "30045.02"},
		{"30045.0225", "1", "30045"},
		{"0.010599", "0.0001", "0.0105"},
		{"0.01", "0.0001", "0.01"},
		{"29985.5", "0.5", "29985.5"},
	}
	for _, c := range cases {
		got := num.TruncateToIncrement(num.MustDecimalFromString(c.v), num.MustDecimalFromString(c.inc))
		assert.True(t, num.MustDecimalFromString(c.want).Equal(got),
			"truncate(%s, %s) = %s, want %s", c.v, c.inc, got.String(), c.want)
	}
}

func testTruncateNeverRoundsUp(t *testing.T) {
	inc := num.MustDecimalFromString("0.001")
	for _, s := range []string{"1.0009999", "2.5", "0.0001", "123456.789"} {
		v := num.MustDecimalFromString(s)
		got := num.TruncateToIncrement(v, inc)
		assert.True(t, got.LessThanOrEqual(v), "truncate(%s) = %s > input", s, got.String())
	}
}

func testTruncateNoIncrement(t *testing.T) {
	v := num.MustDecimalFromString("42.42")
	assert.True(t, v.Equal(num.TruncateToIncrement(v, num.DecimalZero())))
}

func TestDecimalFromString(t *testing.T) {
	d, err := num.DecimalFromString("30045.02")
	require.NoError(t, err)
	assert.Equal(t, "30045.02", d.String())

	_, err = num.DecimalFromString("not a number")
	require.Error(t, err)
}
