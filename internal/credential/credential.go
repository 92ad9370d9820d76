// Package credential はパスワードのハッシュ化と検証を提供する。
package credential

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// hashCost はbcryptのコストパラメータ。
const hashCost = 13

// Hash はパスワードをbcryptでハッシュ化したダイジェストを返す。
func Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify はパスワードがダイジェストと一致するかを検証する。
// タイミング攻撃への耐性はbcrypt.CompareHashAndPasswordに委ねる。
func Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
