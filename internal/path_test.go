package internal

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePath(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	assert.Equal(t, "1700000000123_abc", GeneratePath("abc", at))
}

func TestParsePathRoundTrip(t *testing.T) {
	at := time.UnixMilli(42)
	p, err := ParsePath(GeneratePath("6f1c-uuid", at))
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.Timestamp)
	assert.Equal(t, "6f1c-uuid", p.ID)
}

func TestParsePathSplitsOnFirstUnderscore(t *testing.T) {
	p, err := ParsePath("10_with_underscores")
	require.NoError(t, err)
	assert.Equal(t, "with_underscores", p.ID)
}

func TestParsePathMalformed(t *testing.T) {
	for _, name := range []string{
		"",
		"README.md",
		"123",
		"123_",
		"abc_def",
		"-5_id",
	} {
		_, err := ParsePath(name)
		if !errors.Is(err, ErrMalformedPath) {
			t.Errorf("ParsePath(%q) expected ErrMalformedPath, got %v", name, err)
		}
	}
}

func TestPathLess(t *testing.T) {
	a := Path{Timestamp: 1, ID: "b"}
	b := Path{Timestamp: 2, ID: "a"}
	c := Path{Timestamp: 2, ID: "b"}

	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.False(t, c.Less(a))
	assert.False(t, a.Less(a))
}
