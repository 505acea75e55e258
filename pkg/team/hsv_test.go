package team

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterRanges(t *testing.T) {
	blue := BlueFilter("France").Ranges()
	assert.Equal(t, [][2]HSV{{{H: 100, S: 80, V: 50}, {H: 130, S: 255, V: 255}}}, blue)

	red := RedFilter("Croatia").Ranges()
	if assert.Len(t, red, 2, "red wraps around 180") {
		assert.Equal(t, [2]HSV{{H: 170, S: 100, V: 80}, {H: 180, S: 255, V: 255}}, red[0])
		assert.Equal(t, [2]HSV{{H: 0, S: 100, V: 80}, {H: 10, S: 255, V: 255}}, red[1])
	}
}

func TestFiltersForMatch(t *testing.T) {
	for key, names := range map[string][]string{
		"chelsea_man_city":      {"Chelsea", "Man City"},
		"real_madrid_barcelona": {"Real Madrid", "Barcelona"},
		"france_croatia":        {"France", "Croatia"},
		"sunday_league":         {"Home", "Away"},
	} {
		filters := FiltersForMatch(key)
		if assert.Len(t, filters, 2, key) {
			assert.Equal(t, names[0], filters[0].Name)
			assert.Equal(t, names[1], filters[1].Name)
		}
	}
}
