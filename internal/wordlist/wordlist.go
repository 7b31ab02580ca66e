// Package wordlist 提供别名生成所用的内置词表。
// 词表在编译期嵌入，运行期不可变；顺序即文件顺序。
package wordlist

import (
	_ "embed"
	"strings"
)

//go:embed words.txt
var raw string

var words = parse(raw)

// Words 返回词表的一个副本。
func Words() []string {
	out := make([]string, len(words))
	copy(out, words)
	return out
}

// Count 返回词表长度。
func Count() int {
	return len(words)
}

func parse(data string) []string {
	lines := strings.Split(data, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		word := strings.TrimSpace(line)
		if word != "" {
			out = append(out, word)
		}
	}
	return out
}
