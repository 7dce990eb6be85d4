package http

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHeaderKey es el header que transporta el token de sesión a secas,
// sin esquema bearer.
const AuthHeaderKey = "authorization"

var (
	ErrNoPrincipal      = errors.New("missing authorization header")
	ErrInvalidPrincipal = errors.New("invalid principal id")
)

// PrincipalFromHeader interpreta el valor del header de autorización como
// identidad del principal. Es la única pieza que parsea identidad; todos
// los handlers que necesitan al llamador pasan por acá.
func PrincipalFromHeader(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrNoPrincipal
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return "", ErrInvalidPrincipal
	}
	return id.String(), nil
}

// PrincipalFromRequest deriva la identidad del llamador del request actual.
func PrincipalFromRequest(c *gin.Context) (string, error) {
	return PrincipalFromHeader(c.GetHeader(AuthHeaderKey))
}
