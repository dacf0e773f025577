package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testCatalog() []Product {
	return []Product{
		{ID: "1", Name: "Widget", Description: "A small widget", Price: decimal.RequireFromString("9.99")},
		{ID: "2", Name: "Gadget", Description: "Useful for widgets", Price: decimal.NewFromInt(20)},
		{ID: "3", Name: "Headphones", Description: "Noise cancelling", Price: decimal.NewFromInt(50)},
	}
}

func TestFind(t *testing.T) {
	p, ok := Find(testCatalog(), "2")
	assert.True(t, ok)
	assert.Equal(t, "Gadget", p.Name)

	_, ok = Find(testCatalog(), "missing")
	assert.False(t, ok)
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty query returns all", query: "", want: []string{"1", "2", "3"}},
		{name: "whitespace query returns all", query: "  ", want: []string{"1", "2", "3"}},
		{name: "matches name and description", query: "WIDGET", want: []string{"1", "2"}},
		{name: "description only", query: "noise", want: []string{"3"}},
		{name: "no match", query: "shirt", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, p := range Search(testCatalog(), tt.query) {
				got = append(got, p.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
