package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más el alcance de la sesión.
// El middleware reconstruye el alcance (rol + sucursales) sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID           string `json:"user_id"`
	Role             string `json:"role"`                         // super_admin | branch_manager | field_staff | accountant | inventory_staff
	BranchID         string `json:"branch_id,omitempty"`          // sucursal base
	SelectedBranchID string `json:"selected_branch_id,omitempty"` // solo super_admin tras cambiar de sucursal
}

// Session datos propios de la aplicación que viajan en el token.
type Session struct {
	UserID           string
	Role             string
	BranchID         string
	SelectedBranchID string
}

// Generate genera un token JWT firmado con el alcance de la sesión.
func Generate(secret, issuer string, expMinutes int, s Session) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:           s.UserID,
		Role:             s.Role,
		BranchID:         s.BranchID,
		SelectedBranchID: s.SelectedBranchID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve los claims.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}

// Session extrae los datos de sesión de los claims.
func (c *Claims) Session() Session {
	return Session{
		UserID:           c.UserID,
		Role:             c.Role,
		BranchID:         c.BranchID,
		SelectedBranchID: c.SelectedBranchID,
	}
}
