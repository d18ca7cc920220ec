package topics

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Common validation errors.
var (
	ErrInvalidTopicName = errors.New("invalid topic name: contains wildcards or illegal characters")
	ErrMalformedFilter  = errors.New("malformed topic filter: bad wildcard placement")
)

// ValidateTopicName checks if the topic name is valid for PUBLISH (no wildcards).
func ValidateTopicName(topic string) error {
	if topic == "" {
		return ErrInvalidTopicName
	}
	// "The Topic Name ... MUST NOT contain wildcard characters"
	if strings.ContainsAny(topic, "+#") {
		return ErrInvalidTopicName
	}
	if !utf8.ValidString(topic) {
		return ErrInvalidTopicName
	}
	if strings.Contains(topic, "\x00") {
		return ErrInvalidTopicName
	}
	return nil
}

// ValidateFilter checks if the string is a valid subscription topic filter:
// '+' must occupy a whole level, '#' must occupy a whole level and be the
// final one.
func ValidateFilter(filter string) error {
	if filter == "" || !utf8.ValidString(filter) || strings.Contains(filter, "\x00") {
		return ErrMalformedFilter
	}

	levels := strings.Split(filter, "/")
	for i, level := range levels {
		if strings.Contains(level, "+") && level != "+" {
			return ErrMalformedFilter
		}
		if strings.Contains(level, "#") {
			if level != "#" || i != len(levels)-1 {
				return ErrMalformedFilter
			}
		}
	}
	return nil
}
