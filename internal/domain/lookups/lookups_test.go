package lookups_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"exhibitions/internal/domain/lookups"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Mumbai", "mumbai"},
		{"New Delhi", "new-delhi"},
		{"Food & Beverage", "food-beverage"},
		{"  Trade   Show  ", "trade-show"},
		{"Arts/Crafts!", "artscrafts"},
		{"-already-dashed-", "already-dashed"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, lookups.Slugify(tt.in), "input %q", tt.in)
	}
}
