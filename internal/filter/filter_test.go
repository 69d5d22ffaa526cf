package filter

import (
	"strings"
	"testing"
)

func TestParse_AllowListOnly(t *testing.T) {
	clauses := Parse("user=anna;bogus=1;type=Fråga;another_unknown<>NULL")
	if len(clauses) != 2 {
		t.Fatalf("Parse() returned %d clauses, want 2", len(clauses))
	}

	for _, cl := range clauses {
		cond, _, ok := cl.SQL()
		if !ok {
			t.Fatalf("SQL() not ok for clause %+v", cl)
		}
		if !strings.HasPrefix(cond, "entries.") && !strings.HasPrefix(cond, "categories.") {
			t.Errorf("SQL() = %q, want a qualified allow-listed column", cond)
		}
		if strings.Contains(cond, "bogus") || strings.Contains(cond, "another_unknown") {
			t.Errorf("SQL() = %q references a non-allow-listed field", cond)
		}
	}
}

func TestParse_NullSpecialCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"comment<>NULL", "entries.comment IS NOT NULL"},
		{"comment=NULL", "entries.comment IS NULL"},
		// only <> flips to IS NOT NULL; every other operator means IS NULL
		{"comment>=NULL", "entries.comment IS NULL"},
		{"comment<=NULL", "entries.comment IS NULL"},
		{"user=NULL", "entries.user IS NULL"},
	}
	for _, tt := range tests {
		clauses := Parse(tt.in)
		if len(clauses) != 1 {
			t.Fatalf("Parse(%q) returned %d clauses, want 1", tt.in, len(clauses))
		}
		cond, args, ok := clauses[0].SQL()
		if !ok {
			t.Fatalf("SQL() not ok for %q", tt.in)
		}
		if cond != tt.want {
			t.Errorf("Parse(%q).SQL() = %q, want %q", tt.in, cond, tt.want)
		}
		if len(args) != 0 {
			t.Errorf("Parse(%q).SQL() args = %v, want none", tt.in, args)
		}
	}
}

func TestParse_TypedValues(t *testing.T) {
	clauses := Parse("categoryId=3")
	if len(clauses) != 1 {
		t.Fatalf("Parse() returned %d clauses, want 1", len(clauses))
	}
	cond, args, ok := clauses[0].SQL()
	if !ok || cond != "categories.id = ?" {
		t.Errorf("SQL() = %q, want categories.id = ?", cond)
	}
	if len(args) != 1 || args[0] != 3 {
		t.Errorf("SQL() args = %v, want [3]", args)
	}

	clauses = Parse("date>=2024-01-02T00:00:00")
	if len(clauses) != 1 {
		t.Fatalf("Parse(date) returned %d clauses, want 1", len(clauses))
	}
	cond, args, _ = clauses[0].SQL()
	if cond != "entries.question_date >= ?" {
		t.Errorf("SQL() = %q", cond)
	}
	if len(args) != 1 {
		t.Fatalf("SQL() args = %v, want one time value", args)
	}
}

func TestParse_DerivedFields(t *testing.T) {
	clauses := Parse("hour>=14;weekday=1")
	if len(clauses) != 2 {
		t.Fatalf("Parse() returned %d clauses, want 2", len(clauses))
	}
	for _, cl := range clauses {
		if !cl.Derived() {
			t.Errorf("clause %+v should be derived", cl)
		}
	}

	hourCl, weekdayCl := clauses[0], clauses[1]
	if !hourCl.MatchDerived(14, 0) || !hourCl.MatchDerived(15, 0) || hourCl.MatchDerived(13, 0) {
		t.Errorf("hour>=14 matched wrong values")
	}
	if !weekdayCl.MatchDerived(0, 1) || weekdayCl.MatchDerived(0, 2) {
		t.Errorf("weekday=1 matched wrong values")
	}
}

func TestParse_MalformedDropped(t *testing.T) {
	tests := []string{
		"",
		";;;",
		"=5",
		"hour=",
		"hour=abc",
		"weekday=tisdag",
		"date<=not-a-date",
		"no operator here",
	}
	for _, in := range tests {
		if got := Parse(in); len(got) != 0 {
			t.Errorf("Parse(%q) = %v, want no clauses", in, got)
		}
	}

	// a malformed clause does not take its valid neighbours down with it
	clauses := Parse("garbage;hour=14;date<=junk;location=Entréplan")
	if len(clauses) != 2 {
		t.Errorf("Parse() returned %d clauses, want 2", len(clauses))
	}
}

func TestParse_NumericLooking(t *testing.T) {
	// a purely numeric value on a string field still parses, as an int
	clauses := Parse("user=42")
	if len(clauses) != 1 {
		t.Fatalf("Parse() returned %d clauses, want 1", len(clauses))
	}
	_, args, _ := clauses[0].SQL()
	if len(args) != 1 || args[0] != 42 {
		t.Errorf("args = %v, want [42]", args)
	}
}
