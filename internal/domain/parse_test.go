package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrder(t *testing.T) {
	items, err := ParseOrder("  bigmac cheese\tbigmac  bulgogi\n", 0)
	require.NoError(t, err)
	assert.Equal(t, []Item{BigMac, Cheese, BigMac, Bulgogi}, items)
}

func TestParseOrder_Errors(t *testing.T) {
	_, err := ParseOrder("   \n", 0)
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = ParseOrder("bigmac whopper", 0)
	assert.ErrorIs(t, err, ErrUnknownItem)
	assert.Contains(t, err.Error(), `"whopper"`)

	_, err = ParseOrder("Cheese", 0)
	assert.ErrorIs(t, err, ErrUnknownItem)

	_, err = ParseOrder(strings.Repeat("chicken ", MaxItems+1), 0)
	assert.ErrorIs(t, err, ErrTooManyItems)

	_, err = ParseOrder("cheese cheese cheese", 2)
	assert.ErrorIs(t, err, ErrTooManyItems)
}

func TestItemNames(t *testing.T) {
	for _, it := range Items {
		got, err := ParseItem(it.String())
		require.NoError(t, err)
		assert.Equal(t, it, got)
		assert.True(t, it.Valid())
	}
	assert.False(t, Item(42).Valid())
	assert.False(t, Item(NumItems).Valid())
	assert.Len(t, Items, NumItems)
	assert.Equal(t, "unknown", Item(-1).String())

	r := Receipt{Items: []Item{Chicken, BigMac}}
	assert.Equal(t, []string{"chicken", "bigmac"}, r.ItemNames())
}
