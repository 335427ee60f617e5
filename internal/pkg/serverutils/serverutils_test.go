package serverutils

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"cora-leaf-be/internal/entity"
	"cora-leaf-be/pkg/ledger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "serverutils-test-secret"

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", entity.NewValidationError("name", "is required"), 400},
		{"wrapped validation", fmt.Errorf("add: %w", entity.NewValidationError("name", "x")), 400},
		{"not found", entity.NewNotFoundError("customer", "Ghost"), 404},
		{"configuration", &entity.ConfigurationError{Message: "no tier"}, 409},
		{"busy", entity.ErrSessionBusy, 409},
		{"unauthorized", entity.ErrUnauthorized, 401},
		{"expired session", entity.ErrSessionNotFound, 401},
		{"archive", entity.ErrArchiveUnavailable, 503},
		{"delivery", &ledger.DeliveryError{Recipient: "a@b.test", Err: errors.New("down")}, 502},
		{"fiber error", fiber.ErrMethodNotAllowed, 405},
		{"unknown", errors.New("boom"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestSessionToken_RoundTrip(t *testing.T) {
	id := uuid.New()
	token, err := GenerateSessionToken(testSecret, id, time.Hour)
	require.NoError(t, err)

	got, err := ParseSessionToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseSessionToken("another-secret-entirely", token)
	assert.ErrorIs(t, err, entity.ErrUnauthorized)

	expired, err := GenerateSessionToken(testSecret, id, -time.Minute)
	require.NoError(t, err)
	_, err = ParseSessionToken(testSecret, expired)
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
}

func TestSessionMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/me", SessionMiddleware(testSecret), func(ctx *fiber.Ctx) error {
		id, err := SessionId(ctx)
		if err != nil {
			return err
		}
		return ctx.SendString(id.String())
	})

	id := uuid.New()
	token, err := GenerateSessionToken(testSecret, id, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/me?token="+token, nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestValidateRequest(t *testing.T) {
	type request struct {
		Name     string `json:"name" validate:"notblank"`
		Discount *int   `json:"discount_percent" validate:"required,min=0,max=100"`
	}

	ten := 10
	assert.NoError(t, ValidateRequest(request{Name: "Amazon", Discount: &ten}))

	err := ValidateRequest(request{Name: "  ", Discount: &ten})
	var vErr *entity.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "name", vErr.Field)

	tooHigh := 101
	err = ValidateRequest(request{Name: "Amazon", Discount: &tooHigh})
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "discount_percent", vErr.Field)
}
