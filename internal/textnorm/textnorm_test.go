package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Rădăcină", "radacina"},
		{"NU EXISTĂ", "nu exista"},
		{"știu", "stiu"},
		{"ţară", "tara"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Fold(tt.in), tt.in)
	}
}

func TestContainsWord(t *testing.T) {
	assert.True(t, ContainsWord("use mrv here", "mrv"))
	assert.True(t, ContainsWord("mrv", "mrv"))
	assert.True(t, ContainsWord("(mrv)", "mrv"))
	assert.False(t, ContainsWord("mrvx", "mrv"))
	assert.False(t, ContainsWord("simple", "si"))
	assert.True(t, ContainsWord("ac-3 is best", "ac-3"))
	assert.False(t, ContainsWord("anything", ""))
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"rând", "1", "coloana", "2"}, Words("Rând 1, coloana 2!"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...", Truncate("abcdef", 2))
}

func TestNumberWord(t *testing.T) {
	v, ok := NumberWord("Două")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = NumberWord("banana")
	assert.False(t, ok)
}
