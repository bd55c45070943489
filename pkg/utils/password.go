package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword bcrypt 随机盐，同一明文两次结果不同。
// 超过 72 字节 bcrypt 直接报错（ErrPasswordTooLong），不静默截断
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword 哈希串格式不合法时只会返回 false，不会 panic
func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
