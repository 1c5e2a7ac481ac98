// Package auth implements the external authenticator spec.md §4.H
// treats as opaque: a bearer-token verifier. Grounded on
// _examples/LerianStudio-midaz's common/net/http/withJWT.go shape
// (bearer-prefix stripping, claims parsing), narrowed to
// golang-jwt/jwt/v5 signature verification only — deliberately not
// coupled to the teacher's Casdoor SSO JWKS-fetch client, since this
// service only needs to know "is this token valid", not who issued it
// (SPEC_FULL.md §4.R).
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/CodAressss/orders-batch-service/pkg/constant"
)

// Principal is the caller identity a successful Authenticate call
// yields (SPEC_FULL.md §4.R). The orchestrator never sees it; only the
// HTTP layer (component H) does, and today discards it too — spec.md
// §4.H treats authentication as an opaque pass/fail predicate, so
// Principal exists for callers that need more than that without
// widening the interface again later.
type Principal struct {
	Subject string
	Scopes  []string
}

// Authenticator validates a bearer token and, on success, reports the
// caller it identifies (SPEC_FULL.md §4.R).
type Authenticator interface {
	Authenticate(ctx context.Context, bearerToken string) (Principal, error)
}

// Verifier is a golang-jwt/jwt/v5-backed Authenticator checking
// signature and expiry against a single shared secret.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Authenticate parses the "Bearer <token>" header value in
// authorizationHeader, verifies its signature and expiry, and returns
// the Principal carried by its claims.
func (v *Verifier) Authenticate(_ context.Context, authorizationHeader string) (Principal, error) {
	token, ok := strings.CutPrefix(authorizationHeader, "Bearer ")
	if !ok || token == "" {
		return Principal{}, constant.ErrUnauthorized
	}

	claims := jwt.MapClaims{}

	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}

		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return Principal{}, constant.ErrUnauthorized
	}

	return Principal{Subject: subjectClaim(claims), Scopes: scopesClaim(claims)}, nil
}

func subjectClaim(claims jwt.MapClaims) string {
	sub, _ := claims.GetSubject()
	return sub
}

// scopesClaim reads an optional "scopes" claim, accepting either a JSON
// array of strings or a single space-separated string, matching the two
// shapes issuers commonly use.
func scopesClaim(claims jwt.MapClaims) []string {
	raw, ok := claims["scopes"]
	if !ok {
		return nil
	}

	switch v := raw.(type) {
	case []any:
		scopes := make([]string, 0, len(v))
		for _, s := range v {
			if str, ok := s.(string); ok {
				scopes = append(scopes, str)
			}
		}

		return scopes
	case string:
		return strings.Fields(v)
	default:
		return nil
	}
}
