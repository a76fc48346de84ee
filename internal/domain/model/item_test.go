package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItem_IsCritical(t *testing.T) {
	assert.True(t, Item{Quantity: 4, LowThreshold: 5}.IsCritical())
	assert.True(t, Item{Quantity: 5, LowThreshold: 5}.IsCritical(), "equal to threshold is critical")
	assert.False(t, Item{Quantity: 6, LowThreshold: 5}.IsCritical())
	assert.True(t, Item{Quantity: 0, LowThreshold: 1}.IsCritical())
}

func TestCriticalItems_PreservesOrder(t *testing.T) {
	items := []Item{
		{ID: "a", Quantity: 4, LowThreshold: 5},
		{ID: "b", Quantity: 8, LowThreshold: 10},
		{ID: "c", Quantity: 25, LowThreshold: 15},
		{ID: "d", Quantity: 2, LowThreshold: 7},
	}

	got := CriticalItems(items)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "d"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Empty(t, CriticalItems(nil))
}

func TestClampQuantity(t *testing.T) {
	assert.Equal(t, 0, ClampQuantity(0, -1))
	assert.Equal(t, 0, ClampQuantity(2, -7))
	assert.Equal(t, 6, ClampQuantity(4, 2))
	assert.Equal(t, 4, ClampQuantity(4, 0))
	assert.Equal(t, math.MaxInt, ClampQuantity(5, math.MaxInt))
	assert.Equal(t, math.MaxInt, ClampQuantity(math.MaxInt, 1))
	assert.Equal(t, 0, ClampQuantity(5, math.MinInt))
}

func TestParseThreshold(t *testing.T) {
	tests := map[string]int{
		"5":    5,
		" 12 ": 12,
		"0":    1,
		"-3":   1,
		"":     1,
		"abc":  1,
		"2.5":  1,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseThreshold(in), "input %q", in)
	}
}

func TestCreateItemRequest_Validate(t *testing.T) {
	req := CreateItemRequest{Name: "  Salt ", LowThreshold: -3}
	require.NoError(t, req.Validate())
	assert.Equal(t, "Salt", req.Name)
	assert.Equal(t, 1, req.LowThreshold)
	assert.Equal(t, DefaultIcon, req.Emoji)

	req = CreateItemRequest{Name: "سس قارچ", LowThreshold: 3, Emoji: "🍄"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "🍄", req.Emoji)

	empty := CreateItemRequest{Name: "   "}
	assert.Error(t, empty.Validate())
}

func TestIconOptions(t *testing.T) {
	icons := IconOptions()
	require.Len(t, icons, 24)
	assert.Equal(t, DefaultIcon, icons[0])
	assert.Contains(t, icons, "🧄")
	assert.NotContains(t, icons, "📦")

	icons[0] = "x"
	assert.Equal(t, DefaultIcon, IconOptions()[0], "callers must not mutate the shared set")
}
