package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "empty", line: "", want: nil},
		{name: "blank", line: " \t ", want: nil},
		{name: "words", line: "ih  apple 3", want: []string{"ih", "apple", "3"}},
		{name: "escaped space", line: `ih hello\ world`, want: []string{"ih", "hello world"}},
		{name: "escaped backslash", line: `it a\\b`, want: []string{"it", `a\b`}},
		{name: "empty word", line: `ih "" 2`, want: []string{"ih", "", "2"}},
		{name: "quotes inside word", line: `ih a""b`, want: []string{"ih", `a""b`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.line))
		})
	}
}

func TestEscape(t *testing.T) {
	for _, value := range []string{"", "plain", "two words", `back\slash`, "tab\there", `"quoted"`} {
		t.Run(value, func(t *testing.T) {
			assert.Equal(t, []string{value}, Split(Escape(value)))
		})
	}
}
