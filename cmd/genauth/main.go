package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"aliasgate/backend/internal/auth"
)

// main 生成管理接口的共享密钥凭据。
// 输出三行：Hash 和 Salt 写进服务端配置，Secret 交给调用方保管。
func main() {
	salt := token(128)
	secret := token(256)

	fmt.Printf("Hash: %s\n", auth.Digest(secret, salt))
	fmt.Printf("Salt: %s\n", salt)
	fmt.Printf("Secret: %s\n", secret)
}

// token 生成 n 字节随机数的 URL 安全 base64 表示。
func token(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("failed to read random bytes: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
