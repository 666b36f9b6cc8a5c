package services

import (
	"math"
	"reflect"
	"time"

	"funding-application-api/models"
)

// FieldCompletion scores a draft section by the share of its top-level
// fields that hold a value. nil, "" and empty slices count as unfilled.
func FieldCompletion(data map[string]interface{}) int {
	if len(data) == 0 {
		return 0
	}
	filled := 0
	for _, v := range data {
		if isFilled(v) {
			filled++
		}
	}
	return int(math.Round(100 * float64(filled) / float64(len(data))))
}

func isFilled(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice {
		return rv.Len() > 0
	}
	return true
}

// resolveCompletion picks the stored percentage for a save. An explicit
// value must already be within 0..100.
func resolveCompletion(data map[string]interface{}, completed bool, explicit *int) int {
	switch {
	case explicit != nil:
		return *explicit
	case completed:
		return 100
	default:
		return FieldCompletion(data)
	}
}

// AggregateCompletion is the rounded mean percentage of the sections present.
// Sections never saved are not counted.
func AggregateCompletion(sections []models.ApplicationSection) int {
	if len(sections) == 0 {
		return 0
	}
	total := 0
	for _, s := range sections {
		total += s.CompletionPercentage
	}
	return int(math.Round(float64(total) / float64(len(sections))))
}

func latestUpdate(sections []models.ApplicationSection) (time.Time, bool) {
	var latest time.Time
	for _, s := range sections {
		if s.UpdatedAt.After(latest) {
			latest = s.UpdatedAt
		}
	}
	return latest, len(sections) > 0
}
