package topics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchLiteral(t *testing.T) {
	assert.True(t, Match("my/topic/name", "my/topic/name"))
	assert.False(t, Match("my/topic/name", "my/topic/name/but/longer"))
	assert.False(t, Match("my/topic/name", "some/other/topic"))
}

func TestMatchSingleLevelWildcard(t *testing.T) {
	assert.True(t, Match("my/+/name", "my/topic/name"))
	assert.True(t, Match("my/+/name", "my/other/name"))
	assert.False(t, Match("my/+/name", "my/other/id"))
}

func TestMatchMultiLevelWildcard(t *testing.T) {
	assert.True(t, Match("my/topic/#", "my/topic/name"))
	assert.True(t, Match("my/topic/#", "my/topic/name/and/id"))
	assert.True(t, Match("my/topic/#", "my/topic"))
	assert.False(t, Match("my/topic/#", "my/other/name"))
}

func TestMatchShould(t *testing.T) {
	shouldMatch := [][2]string{
		{"foo/bar", "foo/bar"},
		{"foo/+", "foo/bar"},
		{"foo/+/baz", "foo/bar/baz"},
		{"foo/+/#", "foo/bar/baz"},
		{"A/B/+/#", "A/B/B/C"},
		{"#", "foo/bar/baz"},
		{"#", "/foo/bar"},
		{"/#", "/foo/bar"},
		{"$SYS/bar", "$SYS/bar"},
		{"$SYS/#", "$SYS/bar"},
		{"foo/#", "foo/$bar"},
		{"foo/+/baz", "foo/$bar/baz"},
	}
	for _, tc := range shouldMatch {
		assert.True(t, Match(tc[0], tc[1]), "filter %q should match topic %q", tc[0], tc[1])
	}
}

func TestMatchShouldNot(t *testing.T) {
	shouldNotMatch := [][2]string{
		{"test/6/#", "test/3"},
		{"foo/bar", "foo"},
		{"foo/+", "foo/bar/baz"},
		{"foo/+/baz", "foo/bar/bar"},
		{"foo/+/#", "fo2/bar/baz"},
		{"/#", "foo/bar"},
		{"#", "$SYS/bar"},
		{"$BOB/bar", "$SYS/bar"},
		{"+/bar", "$SYS/bar"},
	}
	for _, tc := range shouldNotMatch {
		assert.False(t, Match(tc[0], tc[1]), "filter %q should not match topic %q", tc[0], tc[1])
	}
}

func TestMatchEmpty(t *testing.T) {
	assert.False(t, Match("", "foo"))
	assert.False(t, Match("foo", ""))
	assert.False(t, Match("", ""))
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{"my", "topic", "name"}, Split("my/topic/name"))
	assert.Equal(t, []string{"", "foo"}, Split("/foo"))
	assert.Equal(t, []string{"foo", ""}, Split("foo/"))
}

func TestHasWildcards(t *testing.T) {
	assert.False(t, HasWildcards("my/topic/name"))
	assert.True(t, HasWildcards("some/wild/+/topic"))
	assert.True(t, HasWildcards("some/multi/wild/#"))
}

func TestFilterMatches(t *testing.T) {
	f, err := ParseFilter("foo/+/baz")
	require.NoError(t, err)

	assert.Equal(t, "foo/+/baz", f.String())
	assert.True(t, f.HasWildcards())
	assert.True(t, f.Matches("foo/bar/baz"))
	assert.False(t, f.Matches("foo/bar/qux"))
	assert.False(t, f.Matches(""))
}

func TestMustFilterPanics(t *testing.T) {
	assert.NotPanics(t, func() { MustFilter("a/b/#") })
	assert.Panics(t, func() { MustFilter("a/#/b") })
}

func BenchmarkMatchLiteral(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Match("sensors/kitchen/temperature", "sensors/kitchen/temperature")
	}
}

func BenchmarkMatchWildcard(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Match("sensors/+/temperature/#", "sensors/kitchen/temperature/celsius")
	}
}

func BenchmarkFilterMatches(b *testing.B) {
	f := MustFilter("sensors/+/temperature/#")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Matches("sensors/kitchen/temperature/celsius")
	}
}
