package authz

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid 令牌无效
var ErrTokenInvalid = errors.New("operator token invalid")

// OperatorClaims 调用方令牌声明（由外部认证服务签发）
type OperatorClaims struct {
	OperatorID uint     `json:"operator_id"`
	Username   string   `json:"username"`
	Roles      []string `json:"roles"`
	jwt.RegisteredClaims
}

// ParseOperatorToken 校验 HS256 令牌并返回声明，issuer 为空时不校验签发方
func ParseOperatorToken(secretKey, issuer, tokenString string) (*OperatorClaims, error) {
	if strings.TrimSpace(secretKey) == "" || strings.TrimSpace(tokenString) == "" {
		return nil, ErrTokenInvalid
	}
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if strings.TrimSpace(issuer) != "" {
		options = append(options, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(options...)
	claims := &OperatorClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil || !token.Valid || claims.OperatorID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// IssueOperatorToken 签发操作员令牌（本地开发与测试使用）
func IssueOperatorToken(secretKey, issuer string, operatorID uint, username string, roles []string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(secretKey) == "" || operatorID == 0 {
		return "", ErrTokenInvalid
	}
	now := time.Now()
	claims := OperatorClaims{
		OperatorID: operatorID,
		Username:   username,
		Roles:      roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}
