package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// Identity é o resultado da resolução de um token de handshake.
type Identity struct {
	UserID   string
	Username string
}

// Resolver mapeia o token opaco do handshake WebSocket para uma identidade
// verificada. A emissão de tokens é responsabilidade do serviço de auth do
// launcher; aqui só validamos.
//
// Política de implantação: uma falha de resolução NÃO derruba a conexão — o
// cliente prossegue anônimo e pode se identificar via evento 'join'.
type Resolver interface {
	Resolve(token string) (*Identity, error)
}

type arenaClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTResolver valida tokens HMAC emitidos pelo serviço de autenticação.
type JWTResolver struct {
	secret []byte
}

func NewJWTResolver(secret string) *JWTResolver {
	return &JWTResolver{secret: []byte(secret)}
}

func (r *JWTResolver) Resolve(tokenStr string) (*Identity, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKey
		}
		return r.secret, nil
	}

	token, err := jwt.ParseWithClaims(tokenStr, &arenaClaims{}, keyFunc)
	if err != nil {
		return nil, fmt.Errorf("token inválido: %w", err)
	}

	claims, ok := token.Claims.(*arenaClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims do token inválidas")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token sem subject")
	}

	return &Identity{UserID: claims.Subject, Username: claims.Username}, nil
}
