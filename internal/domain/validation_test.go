package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidAliasShape(t *testing.T) {
	testCases := []struct {
		name  string
		local string
		valid bool
	}{
		{name: "标准三词别名", local: "foo-bar-baz", valid: true},
		{name: "带数字的词", local: "word1-word2-word3", valid: true},
		{name: "带下划线的词", local: "foo_x-bar-baz", valid: true},
		{name: "只有两个词", local: "foo-bar", valid: false},
		{name: "四个词", local: "foo-bar-baz-qux", valid: false},
		{name: "空字符串", local: "", valid: false},
		{name: "空词", local: "foo--baz", valid: false},
		{name: "前后有多余连字符", local: "-foo-bar-baz", valid: false},
		{name: "包含非法字符", local: "foo-bar-b az", valid: false},
		{name: "包含@", local: "foo-bar-baz@x", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, ValidAliasShape(tc.local))
		})
	}
}

func TestAliasAddress(t *testing.T) {
	alias := &Alias{Alias: "foo-bar-baz", Domain: "example.com"}
	assert.Equal(t, "foo-bar-baz@example.com", alias.Address())
}
