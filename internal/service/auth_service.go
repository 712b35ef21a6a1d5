package service

import (
	"context"
	"errors"
	"time"

	"tiendapos/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrCredencialesInvalidas = errors.New("usuario o password incorrectos")

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context) error
}

type authService struct {
	usuario      string
	passwordHash string
	jwtSecret    []byte
	expiracion   time.Duration
	sesiones     SesionStore
}

func NewAuthService(usuario, passwordHash, jwtSecret string, expirationHours int, sesiones SesionStore) AuthService {
	return &authService{
		usuario:      usuario,
		passwordHash: passwordHash,
		jwtSecret:    []byte(jwtSecret),
		expiracion:   time.Duration(expirationHours) * time.Hour,
		sesiones:     sesiones,
	}
}

// Login validates the single admin credential pair and issues an HS256 token.
// The session flag mirrors the token lifetime so the UI can restore the admin
// view after a reload without re-authenticating.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.Usuario != s.usuario {
		return nil, ErrCredencialesInvalidas
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredencialesInvalidas
	}

	ahora := time.Now()
	claims := jwt.MapClaims{
		"sub": s.usuario,
		"rol": "admin",
		"iat": ahora.Unix(),
		"exp": ahora.Add(s.expiracion).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	if err := s.sesiones.GuardarSesionAdmin(ctx, s.expiracion); err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.expiracion.Seconds()),
	}, nil
}

func (s *authService) Logout(ctx context.Context) error {
	return s.sesiones.BorrarSesionAdmin(ctx)
}
