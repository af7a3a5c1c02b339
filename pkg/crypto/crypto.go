package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

// 敏感字段落库加密（AES-256-GCM）
//
// 设计说明：
//   - 加密在 Repository 写入边界显式调用，读取边界显式解密，
//     不做任何反射或标签扫描
//   - 密文格式：enc:v1:<base64(nonce||ciphertext)>，带前缀便于识别
//     未加密的存量数据并平滑迁移
//   - Key 为空时返回 Noop 加密器（本地开发模式，明文落库）

const cipherPrefix = "enc:v1:"

var ErrCiphertextInvalid = errors.New("密文格式无效")

// Encryptor 字段加解密接口
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// NewEncryptor 根据 hex 编码的 AES-256 密钥创建加密器
// key 为空时返回 Noop 实现
func NewEncryptor(hexKey string) (Encryptor, error) {
	if hexKey == "" {
		return noopEncryptor{}, nil
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("解析加密密钥失败: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("加密密钥必须为 32 字节，实际 %d 字节", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("初始化 AES 失败: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("初始化 GCM 失败: %w", err)
	}

	return &aesEncryptor{gcm: gcm}, nil
}

type aesEncryptor struct {
	gcm cipher.AEAD
}

func (e *aesEncryptor) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, e.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("生成 nonce 失败: %w", err)
	}
	sealed := e.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return cipherPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

func (e *aesEncryptor) Decrypt(ciphertext string) (string, error) {
	// 兼容未加密的存量数据
	if !strings.HasPrefix(ciphertext, cipherPrefix) {
		return ciphertext, nil
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(ciphertext, cipherPrefix))
	if err != nil {
		return "", ErrCiphertextInvalid
	}
	if len(raw) < e.gcm.NonceSize() {
		return "", ErrCiphertextInvalid
	}
	nonce, sealed := raw[:e.gcm.NonceSize()], raw[e.gcm.NonceSize():]
	plain, err := e.gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrCiphertextInvalid
	}
	return string(plain), nil
}

// noopEncryptor 明文直通（开发模式）
type noopEncryptor struct{}

func (noopEncryptor) Encrypt(plaintext string) (string, error)  { return plaintext, nil }
func (noopEncryptor) Decrypt(ciphertext string) (string, error) { return ciphertext, nil }
