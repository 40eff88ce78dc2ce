package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// EncodeSHA256 计算内容的 SHA-256 摘要
// 同一内容必定得到同一哈希，用于版本变更检测与跨端内容比对
// 返回值: 64 位十六进制字符串
func EncodeSHA256(content string) string {
	h := sha256.Sum256([]byte(content))
	return hex.EncodeToString(h[:])
}
