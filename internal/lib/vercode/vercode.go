// Package vercode генерирует одноразовые коды подтверждения электронной почты.
package vercode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Generate возвращает равномерно случайный шестизначный код в диапазоне
// 000000–999999, дополненный нулями слева.
func Generate() (string, error) {
	const op = "vercode.Generate"
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
