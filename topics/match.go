package topics

import "strings"

// Match reports whether topic satisfies the wildcard filter according to
// MQTT matching rules:
//   - '+' matches exactly one level, '#' matches the rest of the topic and
//     must be the final level of the filter.
//   - A wildcard in the filter's first level never matches a topic whose
//     first level starts with '$'. The reserved namespace is only guarded at
//     the root: "foo/#" does match "foo/$bar".
//
// Match does not validate the filter; see ValidateFilter.
func Match(filter, topic string) bool {
	if filter == "" || topic == "" {
		return false
	}
	return matchLevels(Split(filter), Split(topic))
}

// Split breaks a topic or filter into its levels. Empty levels are
// preserved, so "/foo" splits to ["", "foo"].
func Split(topic string) []string {
	return strings.Split(topic, "/")
}

// HasWildcards reports whether the filter contains '+' or '#'.
func HasWildcards(filter string) bool {
	return strings.ContainsAny(filter, "+#")
}

func matchLevels(filter, topic []string) bool {
	// Wildcards never implicitly cross into the reserved '$' namespace.
	if strings.HasPrefix(topic[0], "$") && (filter[0] == "+" || filter[0] == "#") {
		return false
	}

	for i, f := range filter {
		if f == "#" {
			// Terminal: matches this and all remaining levels, including none.
			return true
		}
		if i >= len(topic) {
			// Filter has levels beyond the topic and no trailing '#'.
			return false
		}
		if f == "+" {
			continue
		}
		if f != topic[i] {
			return false
		}
	}
	return len(filter) == len(topic)
}
