package service

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Generator 从词表中随机挑词拼接别名前缀。
type Generator struct {
	words []string

	mu     sync.Mutex
	random *rand.Rand
}

// NewGenerator 创建别名生成器，使用时间种子。
func NewGenerator(words []string) *Generator {
	return NewGeneratorWithSource(words, rand.NewSource(time.Now().UnixNano()))
}

// NewGeneratorWithSource 创建使用指定随机源的生成器，便于测试复现。
func NewGeneratorWithSource(words []string, source rand.Source) *Generator {
	return &Generator{
		words:  words,
		random: rand.New(source),
	}
}

// Generate 生成由 tokenCount 个随机词组成、以 separator 连接的本地部分。
// 允许同一词重复出现，唯一性由分配流程保证而不是生成流程。
func (g *Generator) Generate(tokenCount int, separator string) string {
	tokens := make([]string, tokenCount)

	g.mu.Lock()
	for i := range tokens {
		tokens[i] = g.words[g.random.Intn(len(g.words))]
	}
	g.mu.Unlock()

	return strings.Join(tokens, separator)
}
