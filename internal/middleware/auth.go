// Package middleware provides authentication, logging, tracing and
// rate-limiting middleware for the application.
package middleware

import (
	"fmt"
	"time"

	"devlink/internal/config"
	"devlink/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// TokenHeader is the request header carrying the bearer token.
const TokenHeader = "x-auth-token"

// Token issuer/audience values and validity window.
const (
	tokenIssuer   = "devlink-api"
	tokenAudience = "devlink-client"
	tokenTTL      = 100 * time.Hour
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// GenerateToken creates a signed token embedding the given user id.
func GenerateToken(userID bson.ObjectID) (string, error) {
	if cfg == nil || cfg.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID.Hex(),
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"exp": now.Add(tokenTTL).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// VerifyToken validates a token string and returns the embedded user id.
func VerifyToken(tokenString string) (bson.ObjectID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return bson.ObjectID{}, models.NewUnauthorizedError("Token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return bson.ObjectID{}, models.NewUnauthorizedError("Invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return bson.ObjectID{}, models.NewUnauthorizedError("Invalid token subject")
	}

	userID, err := bson.ObjectIDFromHex(sub)
	if err != nil {
		return bson.ObjectID{}, models.NewUnauthorizedError("Invalid user ID in token")
	}

	return userID, nil
}

// AuthRequired enforces authentication for protected routes. The resolved
// user id is attached to the request context as "userID".
func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Get(TokenHeader)
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("No token, authorization denied"))
		}

		userID, err := VerifyToken(tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		c.Locals("userID", userID)
		return c.Next()
	}
}

// UserID returns the authenticated caller's id set by AuthRequired.
func UserID(c *fiber.Ctx) bson.ObjectID {
	id, _ := c.Locals("userID").(bson.ObjectID)
	return id
}
