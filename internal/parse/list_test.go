package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoodList(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "Standard array",
			raw:      `["Cookies", "Juice"]`,
			expected: []string{"Cookies", "Juice"},
		},
		{
			name:     "Whitespace and blanks are dropped",
			raw:      ` [" Pizza ", "", "Salad"] `,
			expected: []string{"Pizza", "Salad"},
		},
		{
			name:     "Duplicates are dropped",
			raw:      `["Pizza", "Pizza"]`,
			expected: []string{"Pizza"},
		},
		{
			name:     "Empty input",
			raw:      "",
			expected: []string{},
		},
		{
			name:     "Invalid JSON",
			raw:      "{not valid json]",
			expected: []string{},
		},
		{
			name:     "Object instead of array",
			raw:      `{"food": "Pizza"}`,
			expected: []string{},
		},
		{
			name:     "Array of numbers",
			raw:      `[1, 2]`,
			expected: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FoodList(tc.raw))
		})
	}
}

func TestTags(t *testing.T) {
	testCases := []struct {
		name     string
		values   []string
		expected []string
	}{
		{
			name:     "Comma separated",
			values:   []string{"vegan,halal"},
			expected: []string{"vegan", "halal"},
		},
		{
			name:     "Repeated parameter",
			values:   []string{"vegan", "gluten-free"},
			expected: []string{"vegan", "gluten-free"},
		},
		{
			name:     "Mixed with spaces and duplicates",
			values:   []string{" vegan , kosher", "vegan", ","},
			expected: []string{"vegan", "kosher"},
		},
		{
			name:     "Nothing",
			values:   nil,
			expected: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Tags(tc.values))
		})
	}
}
