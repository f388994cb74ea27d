package util

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestIsSymbol(t *testing.T) {
	testData := []struct {
		symbol string
		valid  bool
	}{
		{"LOOP", true},
		{"Main.main", true},
		{"Sys.init$if_end", true},
		{"_tmp:1", true},
		{".hidden", true},
		{"", false},
		{"1abc", false},
		{"$FALSE.0", false},
		{"a-b", false},
		{"a b", false},
	}
	for _, data := range testData {
		assert.Equal(t, data.valid, IsSymbol(data.symbol), data.symbol)
	}
}

func TestByteClasses(t *testing.T) {
	assert.True(t, IsNumber('7'))
	assert.False(t, IsNumber('a'))
	assert.True(t, IsLetterOrUnderscore('_'))
	assert.True(t, IsLetterOrUnderscoreOrNumber('0'))
	assert.False(t, IsSymbolStart('$'))
	assert.True(t, IsSymbolChar('$'))
}
