package topics

import "strings"

// Filter is a parsed, validated subscription topic filter. The zero value is
// not usable; construct with ParseFilter or MustFilter. Filters are immutable
// and safe for concurrent use.
type Filter struct {
	raw    string
	levels []string
}

// ParseFilter validates the filter string and returns the parsed filter.
// Invalid wildcard placement is reported as ErrMalformedFilter at
// construction time, never at match time.
func ParseFilter(filter string) (Filter, error) {
	if err := ValidateFilter(filter); err != nil {
		return Filter{}, err
	}
	return Filter{raw: filter, levels: strings.Split(filter, "/")}, nil
}

// MustFilter is like ParseFilter but panics on a malformed filter. Intended
// for filters known valid at compile time.
func MustFilter(filter string) Filter {
	f, err := ParseFilter(filter)
	if err != nil {
		panic(err)
	}
	return f
}

// String returns the original filter string.
func (f Filter) String() string {
	return f.raw
}

// Levels returns the filter's levels. The returned slice must not be
// modified.
func (f Filter) Levels() []string {
	return f.levels
}

// HasWildcards reports whether the filter contains '+' or '#'.
func (f Filter) HasWildcards() bool {
	return HasWildcards(f.raw)
}

// Matches reports whether the given topic name satisfies this filter. See
// Match for the matching rules.
func (f Filter) Matches(topic string) bool {
	if len(f.levels) == 0 || topic == "" {
		return false
	}
	return matchLevels(f.levels, Split(topic))
}
