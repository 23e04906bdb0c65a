package services

import (
	"HaloBackend/apperrors"
	"context"
	"errors"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier turns a bearer token into the caller's uid.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// IDTokenVerifier is the part of the Firebase Auth client used for verification.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier checks Firebase ID tokens issued to the mobile apps.
type FirebaseVerifier struct {
	Client IDTokenVerifier
}

func NewFirebaseVerifier(client IDTokenVerifier) *FirebaseVerifier {
	return &FirebaseVerifier{Client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperrors.Unauthorized("missing token", nil)
	}
	decoded, err := v.Client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", apperrors.Unauthorized("invalid token", err)
	}
	return decoded.UID, nil
}

// JWTVerifier checks HS256 tokens signed with a shared secret. The uid is read from
// the "uid" claim, falling back to "sub".
type JWTVerifier struct {
	Secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{Secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (string, error) {
	if tokenString == "" {
		return "", apperrors.Unauthorized("missing token", nil)
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", apperrors.Unauthorized("invalid token", err)
	}
	if !token.Valid {
		return "", apperrors.Unauthorized("invalid token", nil)
	}

	if uid, ok := claims["uid"].(string); ok && uid != "" {
		return uid, nil
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", apperrors.Unauthorized("invalid token: missing uid", errors.New("no uid or sub claim"))
	}
	return sub, nil
}
