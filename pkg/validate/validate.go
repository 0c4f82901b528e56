// Package validate provides struct-tag validation for request payloads.
//
// Supported rules (pipe-separated in the `validate` tag):
//
//	required            field must not be zero/empty
//	nullable            if empty, skip all remaining rules for this field
//	email               valid email address
//	url                 valid URL (http/https)
//	boolean             "true","false","1","0" (or actual bool)
//	numeric             any number
//	integer             whole number
//	min:N               string: min char length, number: min value
//	max:N               string: max char length, number: max value
//	gte:N               number >= N
//	lte:N               number <= N
//	in:a,b,c            value must be one of the listed items
//
// Example:
//
//	type Input struct {
//	    Name  string  `json:"name"  validate:"required|min:2|max:100"`
//	    Email string  `json:"email" validate:"required|email"`
//	    Qty   int     `json:"qty"   validate:"gte:0"`
//	    Role  string  `json:"role"  validate:"required|in:worker,admin,superadmin"`
//	}
package validate

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ─── Public API ───────────────────────────────────────────────────────────────

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns a map of fieldName → error message; empty map means no errors.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		value := rv.Field(i)

		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		// Rules apply to the pointed-at value; a nil pointer stays as
		// is so `required` can catch it.
		if value.Kind() == reflect.Ptr && !value.IsNil() {
			value = value.Elem()
		}

		name := jsonFieldName(field)
		rules := strings.Split(tag, "|")

		// If `nullable` is present and the field is empty, skip all rules.
		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			if msg := applyRule(rule, name, value); msg != "" {
				errs[name] = msg
				break // first failing rule per field
			}
		}
	}

	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

// ─── Core dispatcher ──────────────────────────────────────────────────────────

func applyRule(rule, field string, v reflect.Value) string {
	raw := fmt.Sprintf("%v", v.Interface())
	key, param, _ := strings.Cut(rule, ":")

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}

	case "email":
		if !emailRe.MatchString(raw) {
			return fmt.Sprintf("The %s field must be a valid email address.", field)
		}

	case "url":
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Sprintf("The %s field must be a valid URL.", field)
		}

	case "boolean":
		switch raw {
		case "true", "false", "1", "0":
		default:
			return fmt.Sprintf("The %s field must be a boolean.", field)
		}

	case "numeric":
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Sprintf("The %s field must be a number.", field)
		}

	case "integer":
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return fmt.Sprintf("The %s field must be an integer.", field)
		}

	case "min":
		want, _ := strconv.ParseFloat(param, 64)
		if n, ok := numericValue(v); ok {
			if n < want {
				return fmt.Sprintf("The %s field must be at least %s.", field, param)
			}
		} else if float64(len([]rune(raw))) < want {
			return fmt.Sprintf("The %s field must be at least %s characters.", field, param)
		}

	case "max":
		want, _ := strconv.ParseFloat(param, 64)
		if n, ok := numericValue(v); ok {
			if n > want {
				return fmt.Sprintf("The %s field must be at most %s.", field, param)
			}
		} else if float64(len([]rune(raw))) > want {
			return fmt.Sprintf("The %s field must be at most %s characters.", field, param)
		}

	case "gte":
		n, ok := numericValue(v)
		want, _ := strconv.ParseFloat(param, 64)
		if !ok || n < want {
			return fmt.Sprintf("The %s field must be greater than or equal to %s.", field, param)
		}

	case "lte":
		n, ok := numericValue(v)
		want, _ := strconv.ParseFloat(param, 64)
		if !ok || n > want {
			return fmt.Sprintf("The %s field must be less than or equal to %s.", field, param)
		}

	case "in":
		options := strings.Split(param, ",")
		for _, o := range options {
			if raw == o {
				return ""
			}
		}
		return fmt.Sprintf("The %s field must be one of: %s.", field, strings.Join(options, ", "))
	}

	return ""
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

func hasRule(rules []string, name string) bool {
	for _, r := range rules {
		if r == name {
			return true
		}
	}
	return false
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}

// numericValue returns the float value for numeric kinds.
func numericValue(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	default:
		return 0, false
	}
}

// jsonFieldName prefers the json tag name, falling back to the Go name.
func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return f.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}
