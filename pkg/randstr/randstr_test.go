package randstr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomString(t *testing.T) {
	g := New([]byte(Digits))

	for range 100 {
		s := g.GenerateRandomString(6)
		assert.Len(t, s, 6)
		for _, r := range s {
			assert.True(t, strings.ContainsRune(Digits, r), "unexpected symbol %q", r)
		}
	}
}

func TestGenerateRandomStringSingleLetter(t *testing.T) {
	g := New([]byte("x"))
	assert.Equal(t, "xxxx", g.GenerateRandomString(4))
}
