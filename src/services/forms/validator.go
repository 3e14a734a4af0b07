package forms

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"Backend-FormGen/src/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks values against schema and returns one message per invalid field.
// An empty map means the values are accepted.
func Validate(schema models.Schema, values map[string]any) map[string]string {
	errs := map[string]string{}
	for _, field := range schema.Fields {
		value, present := values[field.ID]
		if IsEmpty(value) {
			present = false
		}

		if field.Required && !present {
			errs[field.ID] = field.Label + " is required"
			continue
		}
		if !present {
			continue
		}

		if rule := field.Validation; rule != nil {
			if msg, ok := checkRule(field.Type, rule, value); !ok {
				errs[field.ID] = msg
			}
		}

		if field.Type == models.FieldEmail && !emailPattern.MatchString(FormatValue(value)) {
			errs[field.ID] = "Invalid email address"
		}
	}
	return errs
}

// checkRule evaluates min/max then pattern; later failures overwrite earlier ones.
func checkRule(t models.FieldType, rule *models.ValidationRule, value any) (string, bool) {
	msg, ok := "", true
	fail := func(def string) {
		ok = false
		if rule.Message != "" {
			msg = rule.Message
		} else {
			msg = def
		}
	}

	switch t {
	case models.FieldNumber:
		if n, parsed := toNumber(value); parsed {
			if rule.Min != nil && n < *rule.Min {
				fail("Minimum value is " + formatNumber(*rule.Min))
			}
			if rule.Max != nil && n > *rule.Max {
				fail("Maximum value is " + formatNumber(*rule.Max))
			}
		}
	case models.FieldText, models.FieldTextarea:
		length := float64(utf8.RuneCountInString(FormatValue(value)))
		if rule.Min != nil && length < *rule.Min {
			fail("Minimum length is " + formatNumber(*rule.Min))
		}
		if rule.Max != nil && length > *rule.Max {
			fail("Maximum length is " + formatNumber(*rule.Max))
		}
	}

	if rule.Pattern != "" {
		// a pattern that does not compile constrains nothing
		if re, err := regexp.Compile(`^(?:` + rule.Pattern + `)$`); err == nil {
			if !re.MatchString(FormatValue(value)) {
				fail("Invalid format")
			}
		}
	}
	return msg, ok
}

// IsEmpty reports whether a submitted value counts as not filled in.
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	}
	return false
}

func toNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatValue renders a submitted value as display text. Lists are joined with commas.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return formatNumber(x)
	case float32:
		return formatNumber(float64(x))
	case bool:
		return strconv.FormatBool(x)
	case []string:
		return strings.Join(x, ",")
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = FormatValue(item)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		b, err := MarshalData(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
	return fmt.Sprint(v)
}

// MarshalData encodes a value map with sorted keys and without HTML escaping.
func MarshalData(data map[string]any) ([]byte, error) {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	return []byte(strings.TrimSuffix(sb.String(), "\n")), nil
}

// SortedKeys returns the keys of data in lexical order.
func SortedKeys(data map[string]any) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
