package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// Verifier 校验管理接口的共享密钥。
// 配置里只保存 sha256(secret || salt) 的十六进制摘要，
// 校验时对请求方提交的值做同样的摘要再定时安全比较。
type Verifier struct {
	salt     []byte
	expected string
}

// NewVerifier 创建校验器，expected 为预计算摘要的十六进制串。
func NewVerifier(salt, expected string) *Verifier {
	return &Verifier{
		salt:     []byte(salt),
		expected: strings.ToLower(expected),
	}
}

// Verify 判断提交的密钥是否有效。空值一律拒绝。
func (v *Verifier) Verify(secret string) bool {
	if secret == "" {
		return false
	}

	digest := sha256.Sum256(append([]byte(secret), v.salt...))
	actual := hex.EncodeToString(digest[:])

	return subtle.ConstantTimeCompare([]byte(actual), []byte(v.expected)) == 1
}

// Digest 计算 sha256(secret || salt) 的十六进制摘要，供凭据生成工具复用。
func Digest(secret, salt string) string {
	sum := sha256.Sum256(append([]byte(secret), []byte(salt)...))
	return hex.EncodeToString(sum[:])
}
