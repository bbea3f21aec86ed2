package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var jwtSecret = []byte("secret")

// SetSecret allows injecting the secret from config
func SetSecret(secret string) {
	jwtSecret = []byte(secret)
}

// UserClaimsKey is the fiber Locals key the auth middleware stores claims under.
const UserClaimsKey = "userClaims"

// Role values carried in tokens.
const (
	RoleAdmin    = "admin"
	RoleSubadmin = "subadmin"
	RoleEmployee = "employee"
)

type UserClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// IsStaff reports whether the claims belong to an admin or subadmin.
func (c *UserClaims) IsStaff() bool {
	return c.Role == RoleAdmin || c.Role == RoleSubadmin
}

// ClaimsFromCtx returns the authenticated user's claims, or nil when absent.
func ClaimsFromCtx(c *fiber.Ctx) *UserClaims {
	claims, _ := c.Locals(UserClaimsKey).(*UserClaims)
	return claims
}

func GenerateToken(userID primitive.ObjectID, role, email, name string) (string, error) {
	claims := UserClaims{
		UserID: userID.Hex(),
		Role:   role,
		Email:  email,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenSignatureInvalid
}
