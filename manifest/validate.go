package manifest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ── Types ────────────────────────────────────────────────────────────────────

// Errors holds validation errors per field.
// JSON output: {"errors": {"field": ["msg1", "msg2"]}}
type Errors struct {
	Bag map[string][]string `json:"errors"`
}

func (e *Errors) add(field, msg string) {
	if e.Bag == nil {
		e.Bag = make(map[string][]string)
	}
	e.Bag[field] = append(e.Bag[field], msg)
}

func (e *Errors) merge(other *Errors) {
	for field, msgs := range other.Bag {
		for _, msg := range msgs {
			e.add(field, msg)
		}
	}
}

// Has returns true if there are any errors.
func (e *Errors) Has() bool { return len(e.Bag) > 0 }

// First returns the first error for a field.
func (e *Errors) First(field string) string {
	if msgs, ok := e.Bag[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Error makes the bag usable as an error cause; one line per field.
func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.Bag))
	for field, msgs := range e.Bag {
		parts = append(parts, field+": "+strings.Join(msgs, "; "))
	}
	return strings.Join(parts, ", ")
}

// ── Validator ────────────────────────────────────────────────────────────────

// Rules is a map of field → pipe-separated rule string.
// e.g. Rules{"module": "required|identifier", "version": "required|version"}
type Rules map[string]string

// Validator validates a flat map of input values.
type Validator struct {
	data   map[string]string
	rules  Rules
	errors *Errors
}

// Make creates a new Validator over a flat field map.
func Make(data map[string]string, rules Rules) *Validator {
	return &Validator{
		data:   data,
		rules:  rules,
		errors: &Errors{},
	}
}

// Fails runs validation and returns true if any rule fails.
func (v *Validator) Fails() bool {
	v.validate()
	return v.errors.Has()
}

// Passes runs validation and returns true if all rules pass.
func (v *Validator) Passes() bool { return !v.Fails() }

// Errors returns the validation error bag.
func (v *Validator) Errors() *Errors { return v.errors }

// ── Core validation loop ─────────────────────────────────────────────────────

func (v *Validator) validate() {
	for field, ruleStr := range v.rules {
		value := v.data[field]
		rules := strings.Split(ruleStr, "|")

		for _, rule := range rules {
			rule = strings.TrimSpace(rule)
			if rule == "" {
				continue
			}

			// Parse rule name and optional parameter: max:128 → name=max, param=128
			name, param, _ := strings.Cut(rule, ":")

			if !v.applyRule(field, value, name, param) {
				break // stop on first failure per field
			}
		}
	}
}

var (
	identifierRe = regexp.MustCompile(`^[a-z][a-z0-9_.]*$`)
	typeNameRe   = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
	versionRe    = regexp.MustCompile(`^[0-9]+\.[0-9]+$`)
)

// applyRule returns true if the rule passes.
func (v *Validator) applyRule(field, value, rule, param string) bool {
	switch rule {
	case "required":
		if strings.TrimSpace(value) == "" {
			v.errors.add(field, fmt.Sprintf("The %s field is required.", field))
			return false
		}

	case "identifier":
		// Module URIs: lowercase dotted identifiers, e.g. "org.analytics".
		if !identifierRe.MatchString(value) {
			v.errors.add(field, fmt.Sprintf("The %s must be a lowercase dotted identifier.", field))
			return false
		}

	case "typename":
		// Type names are exported Go identifiers: UpperCamel.
		if !typeNameRe.MatchString(value) {
			v.errors.add(field, fmt.Sprintf("The %s must be an UpperCamel type name.", field))
			return false
		}

	case "version":
		if !versionRe.MatchString(value) {
			v.errors.add(field, fmt.Sprintf("The %s must look like \"major.minor\".", field))
			return false
		}

	case "min":
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) < n {
			v.errors.add(field, fmt.Sprintf("The %s must be at least %d characters.", field, n))
			return false
		}

	case "max":
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) > n {
			v.errors.add(field, fmt.Sprintf("The %s may not be greater than %d characters.", field, n))
			return false
		}

	}

	return true
}
