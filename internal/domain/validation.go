package domain

import "regexp"

// 别名本地部分必须是三个词用 - 连接：word-word-word。
// 随机生成和用户自定义的别名都遵循同一形状。
var aliasShapeRe = regexp.MustCompile(`^\w+-\w+-\w+$`)

// ValidAliasShape 校验别名本地部分是否符合三词形状。
func ValidAliasShape(local string) bool {
	return aliasShapeRe.MatchString(local)
}
