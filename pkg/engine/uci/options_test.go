package uci

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSetOptionNameOnly(t *testing.T) {
	name, value, ok := parseSetOption([]string{"name", "Clear", "Hash"})
	assert.True(t, ok)
	assert.Equal(t, "Clear Hash", name)
	assert.Empty(t, value)
}

func TestParseSetOptionNameAndValue(t *testing.T) {
	name, value, ok := parseSetOption([]string{"name", "Move", "Overhead", "[ms]", "value", "50"})
	assert.True(t, ok)
	assert.Equal(t, "Move Overhead [ms]", name)
	assert.Equal(t, "50", value)
}

func TestParseSetOptionMalformed(t *testing.T) {
	_, _, ok := parseSetOption([]string{"Hash", "value", "16"})
	assert.False(t, ok)

	_, _, ok = parseSetOption(nil)
	assert.False(t, ok)
}

func TestOptionAdvertisementsIncludeHash(t *testing.T) {
	found := false
	for _, line := range optionAdvertisements() {
		if line == "option name Hash type spin default 16 min 0 max 4096" {
			found = true
		}
	}
	assert.True(t, found)
}
