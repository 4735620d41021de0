package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/Alejano1/GestInvLab-proyecto/pkg/roles"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid session token")

// Issuer signs the session cookie that points a browser at its workspace.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

type Claims struct {
	WorkspaceID string
	Username    string
	Role        roles.Role
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl}
}

func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

func (i *Issuer) Issue(ws *Workspace) (string, error) {
	claims := jwt.MapClaims{
		"sid":      ws.ID,
		"username": ws.Username,
		"role":     ws.Role.String(),
		"exp":      ws.CreatedAt.Add(i.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sid, _ := mapClaims["sid"].(string)
	username, _ := mapClaims["username"].(string)
	role, _ := mapClaims["role"].(string)
	if sid == "" {
		return nil, ErrInvalidToken
	}

	return &Claims{WorkspaceID: sid, Username: username, Role: roles.Role(role)}, nil
}
