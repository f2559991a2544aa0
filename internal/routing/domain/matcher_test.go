package domain

import (
	"testing"

	"gorm.io/datatypes"
)

func int64ptr(v int64) *int64 { return &v }

func baseRule() RoutingRule {
	return RoutingRule{
		ID:         1,
		OrgID:      10,
		CategoryID: 20,
		Active:     true,
	}
}

func baseFacts() TicketFacts {
	return TicketFacts{
		OrgID:      10,
		CategoryID: 20,
		Attributes: map[string]any{},
	}
}

func TestMatchesScopeGates(t *testing.T) {
	rule := baseRule()
	facts := baseFacts()

	if !rule.Matches(facts) {
		t.Fatal("expected rule without conditions to match")
	}

	inactive := baseRule()
	inactive.Active = false
	if inactive.Matches(facts) {
		t.Fatal("inactive rule must not match")
	}

	otherOrg := baseFacts()
	otherOrg.OrgID = 99
	if rule.Matches(otherOrg) {
		t.Fatal("rule must not match a different organization")
	}

	otherCategory := baseFacts()
	otherCategory.CategoryID = 99
	if rule.Matches(otherCategory) {
		t.Fatal("rule must not match a different category")
	}
}

func TestMatchesQuantityBounds(t *testing.T) {
	rule := baseRule()
	rule.MinQuantity = int64ptr(5)
	rule.MaxQuantity = int64ptr(10)

	tests := []struct {
		name string
		qty  int64
		want bool
	}{
		{"below min", 4, false},
		{"at min", 5, true},
		{"inside", 7, true},
		{"at max", 10, true},
		{"above max", 11, false},
		{"absent quantity defaults to zero", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := baseFacts()
			facts.DesiredQuantity = tt.qty
			if got := rule.Matches(facts); got != tt.want {
				t.Fatalf("qty=%d: got %v, want %v", tt.qty, got, tt.want)
			}
		})
	}
}

func TestMatchesOperators(t *testing.T) {
	tests := []struct {
		name     string
		operator string
		names    []string
		values   []string
		attrs    map[string]any
		want     bool
	}{
		{"eq matches target", "eq", []string{"color"}, []string{"red"}, map[string]any{"color": "red"}, true},
		{"eq no match", "eq", []string{"color"}, []string{"red"}, map[string]any{"color": "blue"}, false},
		{"eq any of several targets", "eq", []string{"color"}, []string{"red", "blue"}, map[string]any{"color": "blue"}, true},
		{"eq no targets passes on presence", "eq", []string{"color"}, nil, map[string]any{"color": "red"}, true},
		{"eq no targets fails on absence", "eq", []string{"color"}, nil, map[string]any{}, false},

		{"neq all targets differ", "neq", []string{"color"}, []string{"red"}, map[string]any{"color": "blue"}, true},
		{"neq equal target fails", "neq", []string{"color"}, []string{"red"}, map[string]any{"color": "red"}, false},
		{"neq no targets passes on non-empty", "neq", []string{"color"}, nil, map[string]any{"color": "red"}, true},
		{"neq no targets fails on empty", "neq", []string{"color"}, nil, map[string]any{}, false},

		{"gt numeric", "gt", []string{"weight"}, []string{"10"}, map[string]any{"weight": 12.0}, true},
		{"gt equal fails", "gt", []string{"weight"}, []string{"10"}, map[string]any{"weight": 10.0}, false},
		{"gte equal passes", "gte", []string{"weight"}, []string{"10"}, map[string]any{"weight": 10.0}, true},
		{"lt numeric", "lt", []string{"weight"}, []string{"10"}, map[string]any{"weight": "9.5"}, true},
		{"lte equal passes", "lte", []string{"weight"}, []string{"10"}, map[string]any{"weight": "10"}, true},
		{"gt any target", "gt", []string{"weight"}, []string{"100", "5"}, map[string]any{"weight": 8.0}, true},
		{"numeric operator on non-numeric value", "gt", []string{"weight"}, []string{"10"}, map[string]any{"weight": "heavy"}, false},
		{"numeric operator skips non-numeric target", "gt", []string{"weight"}, []string{"abc", "5"}, map[string]any{"weight": 8.0}, true},

		{"contains substring", "contains", []string{"notes"}, []string{"urgent"}, map[string]any{"notes": "very urgent order"}, true},
		{"contains no match", "contains", []string{"notes"}, []string{"urgent"}, map[string]any{"notes": "standard"}, false},
		{"contains no targets passes on non-empty", "contains", []string{"notes"}, nil, map[string]any{"notes": "x"}, true},

		{"in membership", "in", []string{"region"}, []string{"eu", "us"}, map[string]any{"region": "us"}, true},
		{"in no membership", "in", []string{"region"}, []string{"eu", "us"}, map[string]any{"region": "apac"}, false},

		{"unknown operator passes", "weird", []string{"color"}, []string{"red"}, map[string]any{}, true},
		{"blank operator passes", "", []string{"color"}, []string{"red"}, map[string]any{}, true},

		{"or across field names", "eq", []string{"color", "size"}, []string{"xl"}, map[string]any{"size": "xl"}, true},
		{"no field yields match", "eq", []string{"color", "size"}, []string{"xl"}, map[string]any{"color": "red"}, false},

		{"contains on multi-select selection", "contains", []string{"finishes"}, []string{"matte"}, map[string]any{"finishes": []any{"gloss", "matte"}}, true},
		{"contains multi-select no match", "contains", []string{"finishes"}, []string{"satin"}, map[string]any{"finishes": []any{"gloss", "matte"}}, false},
		{"eq on single-selection list", "eq", []string{"finishes"}, []string{"matte"}, map[string]any{"finishes": []any{"matte"}}, true},
		{"eq no targets passes on non-empty list", "eq", []string{"finishes"}, nil, map[string]any{"finishes": []string{"gloss"}}, true},
		{"neq no targets fails on empty list", "neq", []string{"finishes"}, nil, map[string]any{"finishes": []any{}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := baseRule()
			rule.Operator = tt.operator
			rule.FieldNames = datatypes.NewJSONSlice(tt.names)
			rule.FieldValues = datatypes.NewJSONSlice(tt.values)

			facts := baseFacts()
			facts.Attributes = tt.attrs

			if got := rule.Matches(facts); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchesEmptyFieldNamesSkipsFieldGate(t *testing.T) {
	rule := baseRule()
	rule.Operator = "eq"
	rule.FieldValues = datatypes.NewJSONSlice([]string{"red"})
	rule.MinQuantity = int64ptr(1)

	facts := baseFacts()
	facts.DesiredQuantity = 3

	if !rule.Matches(facts) {
		t.Fatal("rule without field names should match on quantity alone")
	}
}
