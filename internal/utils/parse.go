package utils

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/kaptinlin/jsonrepair"
)

// ParseStringAs parses model output into T. Strings pass through untouched;
// everything else goes through JSON unmarshaling, with one repair-and-retry
// pass for the almost-JSON models sometimes produce (single quotes, unquoted
// keys, trailing commas).
func ParseStringAs[T any](content string) (T, error) {
	var result T

	if reflect.TypeFor[T]().Kind() == reflect.String {
		reflect.ValueOf(&result).Elem().SetString(content)
		return result, nil
	}

	err := json.Unmarshal([]byte(content), &result)
	if err == nil {
		return result, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(content)
	if repairErr != nil {
		return result, fmt.Errorf("unmarshal as %T failed (%w) and JSON repair failed: %v", result, err, repairErr)
	}

	if err := json.Unmarshal([]byte(repaired), &result); err != nil {
		return result, fmt.Errorf("unmarshal repaired JSON as %T: %w", result, err)
	}
	return result, nil
}

// TruncateString shortens s to maxLen characters, annotating the cut with the
// original length so log lines stay informative.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", s[:maxLen], len(s))
}
