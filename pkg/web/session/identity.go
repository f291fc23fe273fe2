package session

import (
	"github.com/golang-jwt/jwt/v5"
)

// Identity 导航栏展示用，来自令牌里未校验的声明
type Identity struct {
	Username string
	Role     string
}

// IdentityOf 令牌不是 JWT 或没有相应声明时返回零值，不做签名校验
func IdentityOf(token string) Identity {
	if token == "" {
		return Identity{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}
	}
	id := Identity{}
	if v, ok := claims["username"].(string); ok {
		id.Username = v
	}
	if v, ok := claims["role"].(string); ok {
		id.Role = v
	}
	return id
}
