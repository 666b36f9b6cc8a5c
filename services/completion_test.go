package services

import (
	"testing"
	"time"

	"funding-application-api/models"

	"github.com/stretchr/testify/assert"
)

func TestFieldCompletion(t *testing.T) {
	cases := []struct {
		name string
		data map[string]interface{}
		want int
	}{
		{"empty document", map[string]interface{}{}, 0},
		{"nil document", nil, 0},
		{"half filled", map[string]interface{}{"name": "Acme", "industry": ""}, 50},
		{"null and empty array unfilled", map[string]interface{}{"a": nil, "b": []interface{}{}, "c": "x"}, 33},
		{"two of three", map[string]interface{}{"a": 1.0, "b": false, "c": ""}, 67},
		{"nested object counts as filled", map[string]interface{}{"address": map[string]interface{}{}}, 100},
		{"non-empty array", map[string]interface{}{"threats": []interface{}{"fx"}}, 100},
		{"typed empty slice unfilled", map[string]interface{}{"a": []string{}, "b": "x"}, 50},
		{"typed slice filled", map[string]interface{}{"a": []string{"fx"}, "b": []int{}}, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FieldCompletion(tc.data))
			// Same input, same score.
			assert.Equal(t, FieldCompletion(tc.data), FieldCompletion(tc.data))
		})
	}
}

func TestResolveCompletion(t *testing.T) {
	draft := map[string]interface{}{"name": "Acme", "industry": ""}
	explicit := 30

	assert.Equal(t, 30, resolveCompletion(draft, true, &explicit), "explicit value wins")
	assert.Equal(t, 100, resolveCompletion(draft, true, nil), "completed forces 100")
	assert.Equal(t, 50, resolveCompletion(draft, false, nil), "draft uses field heuristic")
}

func TestAggregateCompletion(t *testing.T) {
	assert.Equal(t, 0, AggregateCompletion(nil))

	rows := []models.ApplicationSection{
		{CompletionPercentage: 100},
		{CompletionPercentage: 50},
		{CompletionPercentage: 25},
	}
	assert.Equal(t, 58, AggregateCompletion(rows))
}

func TestLatestUpdate(t *testing.T) {
	_, ok := latestUpdate(nil)
	assert.False(t, ok)

	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	got, ok := latestUpdate([]models.ApplicationSection{{UpdatedAt: older}, {UpdatedAt: newer}})
	assert.True(t, ok)
	assert.Equal(t, newer, got)
}
