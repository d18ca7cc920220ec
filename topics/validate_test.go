package topics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTopicName(t *testing.T) {
	valid := []string{"a", "a/b", "/", "a/b/c", "$SYS/broker/load"}
	for _, topic := range valid {
		assert.NoError(t, ValidateTopicName(topic), "topic %q", topic)
	}

	invalid := []string{"", "a/+/b", "a/#", "+", "#", "a\x00b"}
	for _, topic := range invalid {
		assert.ErrorIs(t, ValidateTopicName(topic), ErrInvalidTopicName, "topic %q", topic)
	}
}

func TestValidateFilter(t *testing.T) {
	valid := []string{"a", "a/b", "+", "#", "a/+/b", "a/b/#", "+/+/+", "/#", "$SYS/#"}
	for _, filter := range valid {
		assert.NoError(t, ValidateFilter(filter), "filter %q", filter)
	}

	invalid := []string{
		"",
		"a/#/b",    // '#' not final
		"a/b#",     // '#' not a whole level
		"#/",       // '#' not final
		"a+/b",     // '+' not a whole level
		"a/+b",     // '+' not a whole level
		"a\x00b", // embedded null
	}
	for _, filter := range invalid {
		assert.ErrorIs(t, ValidateFilter(filter), ErrMalformedFilter, "filter %q", filter)
	}
}

func TestParseFilterRejectsMalformed(t *testing.T) {
	_, err := ParseFilter("sport/tennis#")
	assert.ErrorIs(t, err, ErrMalformedFilter)

	f, err := ParseFilter("sport/tennis/#")
	assert.NoError(t, err)
	assert.Equal(t, []string{"sport", "tennis", "#"}, f.Levels())
}
