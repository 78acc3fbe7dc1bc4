package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSecret is returned when an Issuer is built without a signing secret
var ErrNoSecret = errors.New("jwt secret not configured")

// Claims represents JWT claims
type Claims struct {
	UID   int64  `json:"uid"`
	Login string `json:"login"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer. now may be nil.
func NewIssuer(secret, issuer string, ttl time.Duration, now func() time.Time) (*Issuer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if now == nil {
		now = time.Now
	}
	return &Issuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: now}, nil
}

// Generate signs a token for the user and returns it with its expiry
func (i *Issuer) Generate(uid int64, login, role string) (string, time.Time, error) {
	issuedAt := i.now()
	expireAt := issuedAt.Add(i.ttl)

	claims := Claims{
		UID:   uid,
		Login: login,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(uid, 10),
			ExpiresAt: jwt.NewNumericDate(expireAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Issuer:    i.issuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expireAt, nil
}

// Parse validates the token signature, expiry and issuer
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
