package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin es el rol que habilita el área de administración.
const RoleAdmin = "admin"

// Claims son los campos del token que el cliente consume para decidir acceso.
// El gating es cosmético del lado cliente: la firma NO se verifica aquí,
// la autoridad real vive en el backend.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

var ErrTokenMalformed = errors.New("token malformed")

type wireClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Parse decodifica el payload del token sin verificar la firma.
// Cualquier fallo de estructura, base64 o JSON (incluido un exp ausente)
// se reporta como ErrTokenMalformed; nunca hace panic.
func Parse(raw string) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Claims{}, ErrTokenMalformed
	}

	var wc wireClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &wc); err != nil {
		return Claims{}, ErrTokenMalformed
	}
	if wc.ExpiresAt == nil {
		return Claims{}, ErrTokenMalformed
	}

	return Claims{
		Subject:   wc.Subject,
		Role:      wc.Role,
		ExpiresAt: wc.ExpiresAt.Time,
	}, nil
}

// Expired indica si el token ya venció respecto al instante dado.
func (c Claims) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

func (c Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
