package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/uritmix/studio-api/internal/model"
)

// RefreshValidity classifies the outcome of refresh-token resolution.
// Signature or structural problems are Malformed; a well-formed, correctly
// signed token past its expiry is Expired. Never the reverse.
type RefreshValidity int

const (
	RefreshValid RefreshValidity = iota
	RefreshExpired
	RefreshMalformed
)

// TokenOptions carries the signing configuration. The two secrets must
// differ; TTLs are in seconds. Injected at construction, never process-wide.
type TokenOptions struct {
	AccessSecret     string
	RefreshSecret    string
	AccessTTLSecond  int
	RefreshTTLSecond int
}

// TokenIssuer creates and resolves the signed access and refresh tokens.
// It is stateless beyond its options.
type TokenIssuer struct {
	opt TokenOptions
}

func NewTokenIssuer(opt TokenOptions) *TokenIssuer {
	return &TokenIssuer{opt: opt}
}

// CreateAccessToken signs a short-lived HS256 token embedding the person id,
// email, role and a fixed type=access marker.
func (i *TokenIssuer) CreateAccessToken(personID int64, email string, role model.AuthRole) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"type":  "access",
		"sub":   personID,
		"email": email,
		"role":  role.String(),
		"iat":   now.Unix(),
		"exp":   now.Add(time.Duration(i.opt.AccessTTLSecond) * time.Second).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(i.opt.AccessSecret))
}

// CreateRefreshToken signs a longer-lived token carrying the refresh row id
// and a type=refresh marker, under the separate refresh secret.
func (i *TokenIssuer) CreateRefreshToken(email string, tokenID int64) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"type":  "refresh",
		"email": email,
		"tid":   tokenID,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Duration(i.opt.RefreshTTLSecond) * time.Second).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(i.opt.RefreshSecret))
}

// ResolveRefreshToken verifies a refresh token and extracts the embedded row
// id. Invalid input never surfaces as an error: the validity result tells the
// caller what went wrong.
func (i *TokenIssuer) ResolveRefreshToken(raw string) (int64, RefreshValidity) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(i.opt.RefreshSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, RefreshExpired
		}
		return 0, RefreshMalformed
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, RefreshMalformed
	}
	if typ, _ := claims["type"].(string); typ != "refresh" {
		return 0, RefreshMalformed
	}
	tid, ok := claims["tid"].(float64)
	if !ok {
		return 0, RefreshMalformed
	}
	return int64(tid), RefreshValid
}
