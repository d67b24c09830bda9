package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []Item {
	return []Item{
		{ID: "1", Title: Text("First"), Description: Text("Some test"), Kind: Text("issue")},
		{ID: "2", Title: Text("Second"), Description: Text("Second description"), Kind: Text("issue")},
		{ID: "3", Title: Text("Third"), Description: Text("Third description"), Kind: Text("feature")},
		{ID: "4", Title: Null(), Description: Text(""), Kind: Text("bug")},
		{ID: "5", Title: Text("Absent kind")},
	}
}

func matching(items []Item, m Matcher) []string {
	var ids []string
	for _, it := range items {
		if m(it) {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

func TestQueryEq(t *testing.T) {
	items := sampleItems()
	assert.Equal(t, []string{"3"}, matching(items, ItemQuery("kind").Eq("feature")))
	assert.Equal(t, []string{"1", "2"}, matching(items, ItemQuery("kind").Eq("issue")))
	assert.Equal(t, []string{"2"}, matching(items, ItemQuery("id").Eq("2")))
	assert.Equal(t, []string{"3", "4", "5"}, matching(items, ItemQuery("kind").Not().Eq("issue")))
}

func TestQueryContains(t *testing.T) {
	items := sampleItems()
	assert.Equal(t, []string{"3"}, matching(items, ItemQuery("title").Contains("Third")))
	assert.Equal(t, []string{"2", "3"}, matching(items, ItemQuery("description").Contains("description")))
	assert.Equal(t, []string{"1", "4", "5"}, matching(items, ItemQuery("description").Not().Contains("description")))
}

func TestQueryLexicographicComparison(t *testing.T) {
	items := []Item{
		{ID: "a", Title: Text("10")},
		{ID: "b", Title: Text("9")},
		{ID: "c", Title: Null()},
	}
	// "10" < "9" as strings
	assert.Equal(t, []string{"a"}, matching(items, ItemQuery("title").Lt("9")))
	assert.Equal(t, []string{"b"}, matching(items, ItemQuery("title").Gt("10")))
	assert.Equal(t, []string{"b", "c"}, matching(items, ItemQuery("title").Not().Lt("9")))
}

func TestQueryExistAndIsNull(t *testing.T) {
	items := sampleItems()

	assert.Equal(t, []string{"1", "2", "3", "5"}, matching(items, ItemQuery("title").Exist()))
	assert.Equal(t, []string{"4"}, matching(items, ItemQuery("title").IsNull()))

	// an absent field neither exists nor is null
	assert.Equal(t, []string{"1", "2", "3", "4"}, matching(items, ItemQuery("kind").Exist()))
	assert.Empty(t, matching(items, ItemQuery("kind").IsNull()))
	assert.Equal(t, []string{"5"}, matching(items, ItemQuery("kind").Not().Exist()))

	// an empty string is a value, not null
	assert.True(t, ItemQuery("description").Exist()(items[3]))
	assert.False(t, ItemQuery("description").IsNull()(items[3]))
}

func TestQueryUnknownFieldIsAbsent(t *testing.T) {
	items := sampleItems()
	assert.Empty(t, matching(items, ItemQuery("status").Exist()))
	assert.Empty(t, matching(items, ItemQuery("status").IsNull()))
	assert.Empty(t, matching(items, ItemQuery("status").Eq("")))
}

func TestQueryNegationIsComplement(t *testing.T) {
	items := sampleItems()
	fields := []string{"id", "title", "description", "kind", "status"}
	values := []string{"", "First", "issue", "description", "M", "3", "null"}

	for _, field := range fields {
		pos := ItemQuery(field)
		neg := pos.Not()
		pairs := map[string][2]Matcher{
			"exist":  {pos.Exist(), neg.Exist()},
			"isNull": {pos.IsNull(), neg.IsNull()},
		}
		for _, v := range values {
			pairs["eq "+v] = [2]Matcher{pos.Eq(v), neg.Eq(v)}
			pairs["contains "+v] = [2]Matcher{pos.Contains(v), neg.Contains(v)}
			pairs["lt "+v] = [2]Matcher{pos.Lt(v), neg.Lt(v)}
			pairs["gt "+v] = [2]Matcher{pos.Gt(v), neg.Gt(v)}
		}

		for name, pair := range pairs {
			for _, it := range items {
				if pair[0](it) == pair[1](it) {
					t.Errorf("%s %s on item %s: not is not the complement", field, name, it.ID)
				}
			}
		}
	}
}

func TestQueryDoubleNegation(t *testing.T) {
	items := sampleItems()
	q := ItemQuery("kind")
	assert.Equal(t, matching(items, q.Eq("issue")), matching(items, q.Not().Not().Eq("issue")))
	assert.Equal(t, matching(items, q.Exist()), matching(items, q.Not().Not().Exist()))
	assert.Equal(t, matching(items, q.Not().IsNull()), matching(items, q.Not().Not().Not().IsNull()))
}

func TestParseFilter(t *testing.T) {
	items := sampleItems()

	cases := []struct {
		expr string
		want []string
	}{
		{"kind=issue", []string{"1", "2"}},
		{"kind!=issue", []string{"3", "4", "5"}},
		{"title~ir", []string{"1", "3"}},
		{"title!~ir", []string{"2", "4", "5"}},
		{"title<S", []string{"1", "5"}},
		{"title>S", []string{"2", "3"}},
		{"kind?", []string{"1", "2", "3", "4"}},
		{"kind!?", []string{"5"}},
		{"title=null", []string{"4"}},
		{"title!=null", []string{"1", "2", "3", "5"}},
		{"description~a=b", nil},
	}

	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			m, err := ParseFilter(tc.expr)
			require.NoError(t, err)
			assert.Equal(t, tc.want, matching(items, m))
		})
	}
}

func TestParseFilterInvalid(t *testing.T) {
	for _, expr := range []string{"", "title", "=issue", "kind?x"} {
		_, err := ParseFilter(expr)
		assert.Error(t, err, "expr %q", expr)
	}
}
