package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for stored admin passwords
const BcryptCost = 12

// HashPassword hashes a password with BcryptCost
func HashPassword(password string) (string, error) {
	return HashPasswordCost(password, BcryptCost)
}

// HashPasswordCost hashes a password with an explicit work factor
func HashPasswordCost(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword reports whether password matches the stored hash
func CheckPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
