package service

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"aliasgate/backend/internal/domain"
	"aliasgate/backend/internal/wordlist"
)

func TestGenerator_Generate(t *testing.T) {
	gen := NewGenerator(wordlist.Words())

	t.Run("三词形状", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			local := gen.Generate(3, "-")
			assert.Len(t, strings.Split(local, "-"), 3)
			assert.True(t, domain.ValidAliasShape(local), "unexpected shape: %s", local)
		}
	})

	t.Run("每个词都来自词表", func(t *testing.T) {
		known := make(map[string]struct{})
		for _, word := range wordlist.Words() {
			known[word] = struct{}{}
		}

		local := gen.Generate(3, "-")
		for _, token := range strings.Split(local, "-") {
			_, ok := known[token]
			assert.True(t, ok, "token not in wordlist: %s", token)
		}
	})

	t.Run("固定种子可复现", func(t *testing.T) {
		first := NewGeneratorWithSource(wordlist.Words(), rand.NewSource(42))
		second := NewGeneratorWithSource(wordlist.Words(), rand.NewSource(42))

		for i := 0; i < 10; i++ {
			assert.Equal(t, first.Generate(3, "-"), second.Generate(3, "-"))
		}
	})
}
