// Package filter parses the reporting views' filter expression: a
// semicolon-separated list of field<op>value clauses, combined with AND.
// There is no OR, grouping or nesting. Unknown fields and malformed clauses
// are dropped, never an error, so an odd filter cannot crash a report.
package filter

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Field is the allow-list of filterable logical names.
type Field int

const (
	FieldUser Field = iota
	FieldType
	FieldLocation
	FieldCategory
	FieldWeekday
	FieldDate
	FieldHour
	FieldComment
)

// Op is the supported comparison set.
type Op int

const (
	OpEq Op = iota
	OpGe
	OpLe
	OpNe
)

func (o Op) String() string {
	switch o {
	case OpGe:
		return ">="
	case OpLe:
		return "<="
	case OpNe:
		return "<>"
	default:
		return "="
	}
}

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindTime
	kindNull
)

// Clause is one validated predicate. Values are typed; user input never
// reaches the database other than as a bind parameter.
type Clause struct {
	Field Field
	Op    Op

	kind valueKind
	str  string
	num  int
	date time.Time
}

var fieldNames = map[string]Field{
	"user":       FieldUser,
	"type":       FieldType,
	"location":   FieldLocation,
	"categoryId": FieldCategory,
	"weekday":    FieldWeekday,
	"date":       FieldDate,
	"hour":       FieldHour,
	"comment":    FieldComment,
}

// columns maps column-backed fields to the join's qualified columns.
// Hour and weekday are derived from question_date at projection time and
// have no column here; see Derived.
var columns = map[Field]string{
	FieldUser:     "entries.user",
	FieldType:     "entries.type",
	FieldLocation: "entries.location",
	FieldCategory: "categories.id",
	FieldDate:     "entries.question_date",
	FieldComment:  "entries.comment",
}

var (
	clauseRe  = regexp.MustCompile(`^([^\s=<>]+)\s*(>=|<=|<>|=)(.*)$`)
	numericRe = regexp.MustCompile(`^\d+$`)
)

var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Parse turns a raw where= expression into validated clauses. Clauses that
// do not name an allow-listed field, or whose value does not fit the field's
// type, are silently dropped. Empty input yields nil (match all).
func Parse(s string) []Clause {
	if s == "" {
		return nil
	}
	var clauses []Clause
	for _, raw := range strings.Split(s, ";") {
		if cl, ok := parseClause(raw); ok {
			clauses = append(clauses, cl)
		}
	}
	return clauses
}

func parseClause(raw string) (Clause, bool) {
	m := clauseRe.FindStringSubmatch(raw)
	if m == nil {
		return Clause{}, false
	}
	field, ok := fieldNames[m[1]]
	if !ok {
		return Clause{}, false
	}

	cl := Clause{Field: field}
	switch m[2] {
	case ">=":
		cl.Op = OpGe
	case "<=":
		cl.Op = OpLe
	case "<>":
		cl.Op = OpNe
	default:
		cl.Op = OpEq
	}

	value := m[3]
	if value == "NULL" {
		cl.kind = kindNull
		return cl, true
	}

	switch field {
	case FieldHour, FieldWeekday, FieldCategory:
		if !numericRe.MatchString(value) {
			return Clause{}, false
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return Clause{}, false
		}
		cl.kind = kindInt
		cl.num = n
	case FieldDate:
		t, ok := parseDate(value)
		if !ok {
			return Clause{}, false
		}
		cl.kind = kindTime
		cl.date = t
	default:
		if numericRe.MatchString(value) {
			if n, err := strconv.Atoi(value); err == nil {
				cl.kind = kindInt
				cl.num = n
				return cl, true
			}
		}
		cl.kind = kindString
		cl.str = value
	}
	return cl, true
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Derived reports whether the clause targets a field computed from
// question_date (hour, weekday) rather than a stored column. Derived clauses
// are matched against the projected rows instead of being pushed into SQL.
func (cl Clause) Derived() bool {
	return cl.Field == FieldHour || cl.Field == FieldWeekday
}

// SQL renders a column-backed clause as a parameterized condition. The NULL
// special case is asymmetric on purpose: <>NULL becomes IS NOT NULL, every
// other operator paired with NULL becomes IS NULL.
func (cl Clause) SQL() (cond string, args []interface{}, ok bool) {
	col, ok := columns[cl.Field]
	if !ok {
		return "", nil, false
	}
	if cl.kind == kindNull {
		if cl.Op == OpNe {
			return col + " IS NOT NULL", nil, true
		}
		return col + " IS NULL", nil, true
	}
	cond = col + " " + cl.Op.String() + " ?"
	switch cl.kind {
	case kindInt:
		args = []interface{}{cl.num}
	case kindTime:
		args = []interface{}{cl.date}
	default:
		args = []interface{}{cl.str}
	}
	return cond, args, true
}

// MatchDerived evaluates a derived clause against a row's computed hour and
// weekday.
func (cl Clause) MatchDerived(hour, weekday int) bool {
	if cl.kind != kindInt {
		// <op>NULL on a derived field can never hold; the value always exists.
		return cl.kind == kindNull && cl.Op == OpNe
	}
	v := hour
	if cl.Field == FieldWeekday {
		v = weekday
	}
	switch cl.Op {
	case OpGe:
		return v >= cl.num
	case OpLe:
		return v <= cl.num
	case OpNe:
		return v != cl.num
	default:
		return v == cl.num
	}
}
