package service

import (
	"context"
	"testing"

	"tiendapos/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func generarHash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(h), err
}

func TestLoginCredencialesInvalidas(t *testing.T) {
	hash, err := generarHash("tiendapos2026")
	require.NoError(t, err)
	svc := NewAuthService("admin", hash, "secret", 8, &stubSesiones{})

	_, err = svc.Login(context.Background(), dto.LoginRequest{Usuario: "otro", Password: "x"})
	assert.ErrorIs(t, err, ErrCredencialesInvalidas)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Usuario: "admin", Password: "incorrecta"})
	assert.ErrorIs(t, err, ErrCredencialesInvalidas)
}

func TestLoginEmiteTokenYMarcaSesion(t *testing.T) {
	hash, err := generarHash("tiendapos2026")
	require.NoError(t, err)
	sesiones := &stubSesiones{}
	svc := NewAuthService("admin", hash, "secret", 8, sesiones)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Usuario: "admin", Password: "tiendapos2026"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.True(t, sesiones.activa)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", claims["sub"])
	assert.Equal(t, "admin", claims["rol"])
}

func TestLogoutBorraSesion(t *testing.T) {
	sesiones := &stubSesiones{activa: true}
	svc := NewAuthService("admin", "", "secret", 8, sesiones)

	require.NoError(t, svc.Logout(context.Background()))
	assert.False(t, sesiones.activa)
}
