package service

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// SuggestionEngine 根据访问站点的主机名推荐别名前缀。
type SuggestionEngine struct {
	gen *Generator
}

// NewSuggestionEngine 创建推荐引擎。
func NewSuggestionEngine(gen *Generator) *SuggestionEngine {
	return &SuggestionEngine{gen: gen}
}

// Suggest 生成别名前缀建议。
// 能从主机名提取出可注册标签时，用 "标签-随机词-随机词"；
// 主机名为空或无法解析时退化为纯随机三词。
func (e *SuggestionEngine) Suggest(hostname string) string {
	hostname = strings.ToLower(strings.TrimSpace(hostname))
	if hostname == "" {
		return e.gen.Generate(aliasTokenCount, aliasSeparator)
	}

	label := registrableLabel(hostname)
	if label == "" {
		return e.gen.Generate(aliasTokenCount, aliasSeparator)
	}

	return label + aliasSeparator + e.gen.Generate(aliasTokenCount-1, aliasSeparator)
}

// registrableLabel 提取主机名中公共后缀之前的那一段并去掉连字符。
// 例如 mail.my-site.co.uk 得到 mysite。
func registrableLabel(hostname string) string {
	etld1, err := publicsuffix.EffectiveTLDPlusOne(hostname)
	if err != nil {
		return ""
	}

	suffix, _ := publicsuffix.PublicSuffix(etld1)
	label := strings.TrimSuffix(etld1, "."+suffix)

	// 连字符是别名的词分隔符，标签里的要去掉
	return strings.ReplaceAll(label, "-", "")
}
