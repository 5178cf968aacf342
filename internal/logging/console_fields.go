package logging

import (
	"log/slog"
	"strings"
)

type infoField struct {
	label string
	value string
}

const maxInfoValueLen = 120

// infoHighlightKeys are printed first, in this order, when present.
var infoHighlightKeys = []string{
	FieldAlert,
	FieldEventType,
	"title",
	"status",
	"error",
	FieldErrorHint,
	FieldImpact,
	"progress",
	"succeeded",
	"errored",
	"processing",
	"expired",
	"canceled",
	"records",
	"errors",
	"elapsed",
}

// selectInfoFields returns the fields shown at info level and how many were hidden.
func selectInfoFields(attrs []kv) ([]infoField, int) {
	result := make([]infoField, 0, len(attrs))
	used := make(map[string]bool, len(attrs))
	hidden := 0

	add := func(attr kv) {
		used[attr.key] = true
		if skipInfoKey(attr.key) {
			return
		}
		value := formatValueForKey(attr.key, attr.value)
		if isDebugOnlyKey(attr.key) || shouldHideInfoValue(attr.key, value) {
			hidden++
			return
		}
		result = append(result, infoField{label: displayLabel(attr.key), value: value})
	}

	for _, key := range infoHighlightKeys {
		for _, attr := range attrs {
			if attr.key == key && !used[key] {
				add(attr)
			}
		}
	}
	for _, attr := range attrs {
		if !used[attr.key] {
			add(attr)
		}
	}
	return result, hidden
}

func formatValueForKey(key string, v slog.Value) string {
	v = v.Resolve()
	if v.Kind() == slog.KindBool {
		if v.Bool() {
			return "yes"
		}
		return "no"
	}
	value := formatValue(v)
	if key == "error" {
		value = truncateErrorValue(value)
	}
	return value
}

func truncateErrorValue(value string) string {
	value = strings.TrimSpace(value)
	const maxLen = 200
	if len(value) > maxLen {
		value = value[:maxLen] + "..."
	}
	return value
}

func skipInfoKey(key string) bool {
	switch key {
	case "", FieldComponent, FieldURL, FieldBatchID:
		return true
	default:
		return false
	}
}

func isDebugOnlyKey(key string) bool {
	switch key {
	case FieldRunID, "custom_id", "model", "attempt", "raw_response":
		return true
	}
	return strings.HasSuffix(key, "_path") || strings.HasSuffix(key, "_id")
}

func shouldHideInfoValue(key, value string) bool {
	switch key {
	case "error", FieldErrorHint, FieldImpact:
		return false
	}
	return len(value) > maxInfoValueLen
}

func displayLabel(key string) string {
	switch key {
	case FieldAlert:
		return "Alert"
	case FieldEventType:
		return "Event"
	case FieldErrorHint:
		return "Hint"
	case "elapsed":
		return "Elapsed"
	default:
		return titleizeKey(key)
	}
}

func titleizeKey(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	for i, part := range parts {
		parts[i] = capitalizeASCII(part)
	}
	return strings.Join(parts, " ")
}

func capitalizeASCII(value string) string {
	switch len(value) {
	case 0:
		return ""
	case 1:
		return strings.ToUpper(value)
	default:
		lower := strings.ToLower(value)
		return strings.ToUpper(lower[:1]) + lower[1:]
	}
}
