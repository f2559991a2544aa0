package domain

import (
	"strconv"
	"strings"
)

// Matches reports whether the rule applies to the given ticket facts.
//
// The rule passes when it is active, scoped to the ticket's organization and
// category, the desired quantity sits inside the rule's bounds, and at least
// one configured field name satisfies the operator. A rule without field
// names matches on quantity alone.
func (r *RoutingRule) Matches(facts TicketFacts) bool {
	if !r.Active {
		return false
	}
	if r.OrgID != facts.OrgID || r.CategoryID != facts.CategoryID {
		return false
	}

	qty := facts.DesiredQuantity
	if r.MinQuantity != nil && qty < *r.MinQuantity {
		return false
	}
	if r.MaxQuantity != nil && qty > *r.MaxQuantity {
		return false
	}

	names := cleanList(r.FieldNames)
	if len(names) == 0 {
		return true
	}

	targets := cleanList(r.FieldValues)
	operator := strings.ToLower(strings.TrimSpace(r.Operator))
	for _, name := range names {
		value := stringify(facts.Attributes[name])
		if evalOperator(operator, value, targets) {
			return true
		}
	}
	return false
}

// evalOperator applies one comparison against the target list. Matching
// operators pass if any target matches. Unknown operators pass
// unconditionally.
func evalOperator(operator, value string, targets []string) bool {
	switch operator {
	case "eq":
		if len(targets) == 0 {
			return value != ""
		}
		for _, target := range targets {
			if value == target {
				return true
			}
		}
		return false
	case "neq":
		// With no targets this passes on any non-empty value, which is
		// not the negation of eq. Existing rules depend on it.
		if len(targets) == 0 {
			return value != ""
		}
		for _, target := range targets {
			if value == target {
				return false
			}
		}
		return true
	case "gt", "gte", "lt", "lte":
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		for _, target := range targets {
			bound, err := strconv.ParseFloat(target, 64)
			if err != nil {
				continue
			}
			if compareNumeric(operator, parsed, bound) {
				return true
			}
		}
		return false
	case "contains":
		if len(targets) == 0 {
			return value != ""
		}
		for _, target := range targets {
			if strings.Contains(value, target) {
				return true
			}
		}
		return false
	case "in":
		for _, target := range targets {
			if value == target {
				return true
			}
		}
		return false
	}
	return true
}

func compareNumeric(operator string, value, bound float64) bool {
	switch operator {
	case "gt":
		return value > bound
	case "gte":
		return value >= bound
	case "lt":
		return value < bound
	case "lte":
		return value <= bound
	}
	return false
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func stringify(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(typed)
	case bool:
		return strconv.FormatBool(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case []string:
		return strings.Join(typed, ",")
	case []any:
		// Multi-select fields flatten to a comma-joined string so contains
		// and eq can still target individual selections.
		parts := make([]string, 0, len(typed))
		for _, element := range typed {
			parts = append(parts, stringify(element))
		}
		return strings.Join(parts, ",")
	}
	return ""
}
