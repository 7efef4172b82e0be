package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFenced(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"upper json fence", "```JSON\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"whitespace padded", "  \n{\"a\":1}\n  ", `{"a":1}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ExtractFenced(c.in))
		})
	}
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "hello", Preview("hello", 10))
	assert.Equal(t, "hel...", Preview("hello", 3))
	assert.Equal(t, "", Preview("", 5))
}
