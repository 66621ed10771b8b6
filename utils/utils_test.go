package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Go for Beginners", "go-for-beginners"},
		{"  Advanced   SQL!  ", "advanced-sql"},
		{"C++ & Rust: Systems Programming", "c-rust-systems-programming"},
		{"already-a-slug", "already-a-slug"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in))
	}
}
