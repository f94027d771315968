package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidServiceToken = errors.New("invalid service token")

// ServiceTokenManager signs and checks the HS256 bearer tokens services present to each other.
type ServiceTokenManager struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
}

func NewServiceTokenManager(secret string, ttl time.Duration, issuer string) *ServiceTokenManager {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ServiceTokenManager{Secret: []byte(secret), TTL: ttl, Issuer: issuer}
}

type ServiceClaims struct {
	Service string `json:"svc"`
	jwt.RegisteredClaims
}

func (m *ServiceTokenManager) Generate() (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.TTL)
	claims := &ServiceClaims{
		Service: m.Issuer,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.Issuer,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// Token returns a freshly signed token.
func (m *ServiceTokenManager) Token() (string, error) {
	s, _, err := m.Generate()
	return s, err
}

func (m *ServiceTokenManager) Parse(tokenStr string) (*ServiceClaims, error) {
	claims := &ServiceClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, ErrInvalidServiceToken
	}
	return claims, nil
}
