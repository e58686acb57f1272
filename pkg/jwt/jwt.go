package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrTokenExpired = errors.New("令牌已过期")
	ErrTokenInvalid = errors.New("令牌无效")
)

// Claims 自定义 JWT 声明
type Claims struct {
	StudentID   string  `json:"student_id"`
	StudentNo   string  `json:"student_no"`
	ProgrammeID *string `json:"programme_id,omitempty"`
	TokenType   string  `json:"token_type"`
	jwt.RegisteredClaims
}

// Manager JWT 签发与解析
type Manager struct {
	secret          []byte
	accessDuration  time.Duration
	refreshDuration time.Duration
	issuer          string
}

func NewManager(secret string, accessDuration, refreshDuration time.Duration) *Manager {
	return &Manager{
		secret:          []byte(secret),
		accessDuration:  accessDuration,
		refreshDuration: refreshDuration,
		issuer:          "degree-compass",
	}
}

// GenerateTokenPair 同时签发 access / refresh 两枚令牌
func (m *Manager) GenerateTokenPair(studentID, studentNo string, programmeID *string) (access, refresh string, err error) {
	access, err = m.generate(studentID, studentNo, programmeID, TokenTypeAccess, m.accessDuration)
	if err != nil {
		return "", "", err
	}
	refresh, err = m.generate(studentID, studentNo, programmeID, TokenTypeRefresh, m.refreshDuration)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (m *Manager) generate(studentID, studentNo string, programmeID *string, tokenType string, d time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		StudentID:   studentID,
		StudentNo:   studentNo,
		ProgrammeID: programmeID,
		TokenType:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Subject:   studentID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken 解析并校验令牌；仅接受 HS256 签名
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("不支持的签名算法: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// AccessDuration access 令牌有效期
func (m *Manager) AccessDuration() time.Duration {
	return m.accessDuration
}

// RefreshDuration refresh 令牌有效期
func (m *Manager) RefreshDuration() time.Duration {
	return m.refreshDuration
}
