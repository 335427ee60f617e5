package serverutils

import (
	"fmt"
	"strings"
	"time"

	"cora-leaf-be/internal/entity"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const SessionIdKey = "session_id"

func GenerateSessionToken(secret string, sessionId uuid.UUID, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		SessionIdKey: sessionId.String(),
		"iat":        time.Now().Unix(),
		"exp":        time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseSessionToken(secret, tokenStr string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, entity.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, entity.ErrUnauthorized
	}

	raw, _ := claims[SessionIdKey].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, entity.ErrUnauthorized
	}
	return id, nil
}

// SessionMiddleware accepts a bearer token, or a token query parameter for
// websocket upgrades, and stores the session id in ctx.Locals.
func SessionMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := ""
		if authHeader := ctx.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
		} else {
			tokenStr = ctx.Query("token")
		}
		if tokenStr == "" {
			return entity.ErrUnauthorized
		}

		id, err := ParseSessionToken(secret, tokenStr)
		if err != nil {
			return err
		}

		ctx.Locals(SessionIdKey, id)
		return ctx.Next()
	}
}

// SessionId reads the id stored by SessionMiddleware.
func SessionId(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, ok := ctx.Locals(SessionIdKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, entity.ErrUnauthorized
	}
	return id, nil
}
