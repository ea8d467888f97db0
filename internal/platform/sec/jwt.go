// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, JWT signing) from
// the domain logic. Services depend on the small interfaces they need
// (an issuer or a verifier) rather than on [TokenService] itself.
package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the payload embedded inside a JWT access token.
//
// The middleware rebuilds the caller's identity from these claims without a
// store lookup on every request.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// TokenService signs and verifies access tokens with either an HMAC secret
// (HS256) or an RSA key pair (RS256).
type TokenService struct {
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
	issuer    string
}

// NewHMACTokenService creates a TokenService that signs with HS256.
func NewHMACTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: empty JWT secret")
	}
	key := []byte(secret)
	return &TokenService{
		method:    jwt.SigningMethodHS256,
		signKey:   key,
		verifyKey: key,
		issuer:    issuer,
	}, nil
}

// NewRSATokenService creates a TokenService that signs with RS256 using PEM
// keys read from the provided filesystem paths.
func NewRSATokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privateKeyData, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read private key from %s: %w", privateKeyPath, err)
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse private key: %w", err)
	}

	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return newRSA(privateKey, publicKey, issuer), nil
}

// NewRSATokenServiceFromKey creates an RS256 TokenService from an in-memory key.
func NewRSATokenServiceFromKey(privateKey *rsa.PrivateKey, issuer string) *TokenService {
	return newRSA(privateKey, &privateKey.PublicKey, issuer)
}

func newRSA(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, issuer string) *TokenService {
	return &TokenService{
		method:    jwt.SigningMethodRS256,
		signKey:   privateKey,
		verifyKey: publicKey,
		issuer:    issuer,
	}
}

// GenerateAccessToken creates a signed access token carrying the user's id,
// email and role.
func (service *TokenService) GenerateAccessToken(userID, email, role string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID: userID,
		Email:  email,
		Role:   Role(role),
	}

	token := jwt.NewWithClaims(service.method, claims)
	signedToken, err := token.SignedString(service.signKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature, issuer and expiry of a JWT string.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != service.method.Alg() {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.verifyKey, nil
	}, jwt.WithIssuer(service.issuer), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, errors.New("sec: invalid token claims")
	}

	return claims, nil
}
