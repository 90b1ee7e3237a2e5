package service

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/northwind/storefront/internal/domain/auth"
	apperrors "github.com/northwind/storefront/internal/errors"
)

// tokenParser decodes without verifying signatures: the storefront only
// needs the identity claims, and the remote API owns the signing key.
// Padded base64url payloads are accepted since the token issuer pads.
var tokenParser = jwt.NewParser(jwt.WithPaddingAllowed())

// DecodeToken decodes a three-segment signed token into its claims without
// verifying the signature. It fails with a MalformedToken error when the
// token does not split into exactly three dot-separated segments, when the
// payload segment is not base64url JSON, or when the payload lacks a "sub"
// claim holding a string or number. Numeric subjects are coerced to their
// decimal string form. Side-effect free.
func DecodeToken(token string) (auth.Claims, error) {
	decoded, err := decodeClaims(token)
	if err != nil {
		return auth.Claims{}, err
	}
	if decoded.Subject == "" {
		return auth.Claims{}, apperrors.MalformedToken("auth token payload has no usable sub claim")
	}
	return decoded, nil
}

// decodeClaims decodes the payload without requiring any particular claim.
// Identity resolution scopes storage by whichever claim is present; the
// session path goes through DecodeToken, which insists on a subject.
func decodeClaims(token string) (auth.Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := tokenParser.ParseUnverified(token, claims); err != nil {
		return auth.Claims{}, apperrors.Wrap(err, apperrors.ErrCodeMalformedToken, "decode auth token")
	}

	decoded := auth.Claims{}
	if subject, ok := subjectString(claims["sub"]); ok {
		decoded.Subject = subject
	}
	if username, ok := claims["user"].(string); ok {
		decoded.Username = username
	}
	return decoded, nil
}

// subjectString coerces a decoded "sub" claim to its string form. JSON
// numbers arrive as float64 from the parser.
func subjectString(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int64:
		return strconv.FormatInt(v, 10), true
	default:
		return "", false
	}
}
