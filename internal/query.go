package internal

import (
	"fmt"
	"strings"
)

// Matcher is a pure predicate over an item.
type Matcher func(Item) bool

// Query builds matchers over one item field.
type Query interface {
	Eq(value string) Matcher
	Contains(value string) Matcher
	Lt(value string) Matcher
	Gt(value string) Matcher
	Exist() Matcher
	IsNull() Matcher
	Not() Query
}

// ItemQuery returns the query for the named field. Comparisons are plain
// string comparisons; absent and null fields never satisfy Eq, Contains, Lt
// or Gt.
func ItemQuery(field string) Query {
	return fieldQuery{field: field}
}

type fieldQuery struct {
	field string
}

func (q fieldQuery) text(value string, cmp func(string, string) bool) Matcher {
	return func(item Item) bool {
		s, ok := item.Field(q.field).Value()
		return ok && cmp(s, value)
	}
}

func (q fieldQuery) Eq(value string) Matcher {
	return q.text(value, func(s, v string) bool { return s == v })
}

func (q fieldQuery) Contains(value string) Matcher {
	return q.text(value, strings.Contains)
}

func (q fieldQuery) Lt(value string) Matcher {
	return q.text(value, func(s, v string) bool { return s < v })
}

func (q fieldQuery) Gt(value string) Matcher {
	return q.text(value, func(s, v string) bool { return s > v })
}

func (q fieldQuery) Exist() Matcher {
	return func(item Item) bool {
		f := item.Field(q.field)
		return f.IsPresent() && !f.IsNull()
	}
}

func (q fieldQuery) IsNull() Matcher {
	return func(item Item) bool {
		return item.Field(q.field).IsNull()
	}
}

func (q fieldQuery) Not() Query {
	return notQuery{q: q}
}

type notQuery struct {
	q Query
}

func negate(m Matcher) Matcher {
	return func(item Item) bool { return !m(item) }
}

func (n notQuery) Eq(value string) Matcher       { return negate(n.q.Eq(value)) }
func (n notQuery) Contains(value string) Matcher { return negate(n.q.Contains(value)) }
func (n notQuery) Lt(value string) Matcher       { return negate(n.q.Lt(value)) }
func (n notQuery) Gt(value string) Matcher       { return negate(n.q.Gt(value)) }
func (n notQuery) Exist() Matcher                { return negate(n.q.Exist()) }
func (n notQuery) IsNull() Matcher               { return negate(n.q.IsNull()) }

// Not on a negated query gives back the positive one.
func (n notQuery) Not() Query { return n.q }

// filterOps is ordered so that two-character operators win over their
// one-character prefixes.
var filterOps = []string{"!=", "!~", "!?", "=", "~", "<", ">", "?"}

// ParseFilter turns a CLI filter expression into a matcher:
//
//	kind=bug      eq          kind!=bug     not eq
//	title~fix     contains    title!~fix    not contains
//	title<m       lt          title>m       gt
//	title?        exist       title!?       not exist
//	title=null    is null     title!=null   not null
func ParseFilter(expr string) (Matcher, error) {
	for i := 0; i < len(expr); i++ {
		for _, op := range filterOps {
			if !strings.HasPrefix(expr[i:], op) {
				continue
			}
			field, value := expr[:i], expr[i+len(op):]
			if field == "" {
				return nil, fmt.Errorf("invalid filter %q: missing field", expr)
			}
			return buildFilter(field, op, value)
		}
	}
	return nil, fmt.Errorf("invalid filter %q: missing operator", expr)
}

func buildFilter(field, op, value string) (Matcher, error) {
	q := ItemQuery(field)
	if strings.HasPrefix(op, "!") {
		q = q.Not()
		op = op[1:]
	}

	switch op {
	case "=":
		if value == "null" {
			return q.IsNull(), nil
		}
		return q.Eq(value), nil
	case "~":
		return q.Contains(value), nil
	case "<":
		return q.Lt(value), nil
	case ">":
		return q.Gt(value), nil
	case "?":
		if value != "" {
			return nil, fmt.Errorf("invalid filter: %q takes no value", field+"?")
		}
		return q.Exist(), nil
	}
	return nil, fmt.Errorf("invalid filter operator %q", op)
}
