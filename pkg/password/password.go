// Package password 提供单向加盐哈希能力，业务层只依赖 Hash/Verify 两个操作。
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch 密码与哈希不匹配
var ErrMismatch = errors.New("密码不匹配")

// Hasher bcrypt 哈希器
type Hasher struct {
	cost int
}

// NewHasher 创建哈希器，cost 非法时回退为 bcrypt.DefaultCost
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash 生成密码哈希
func (h *Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify 校验明文与哈希，不匹配返回 ErrMismatch
func (h *Hasher) Verify(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}
