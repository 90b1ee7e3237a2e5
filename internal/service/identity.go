package service

// Package service implements the storefront's session and cart layer: token
// decoding, identity resolution, identity-scoped persistence, and the cart
// and session stores that coordinate them.

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/northwind/storefront/internal/domain/auth"
	"github.com/northwind/storefront/internal/ports"
)

// Storage keys within a browser namespace. These names are part of the
// persisted data layout and must stay stable across releases.
const (
	// KeyAuthRecord holds the JSON session record.
	KeyAuthRecord = "auth-storage"
	// KeyRawToken holds the raw auth token string.
	KeyRawToken = "authToken"
)

// nonAlphanumeric matches every character replaced when deriving an identity
// from an email address.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// IdentityResolver derives the stable identity string used to scope
// persisted cart data to a user. Resolution never fails: storage and decode
// problems degrade silently to the anonymous identity.
type IdentityResolver struct {
	kv     ports.KeyValueStore
	logger *slog.Logger
}

// NewIdentityResolver creates a resolver over the given storage namespace.
func NewIdentityResolver(kv ports.KeyValueStore, logger *slog.Logger) *IdentityResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentityResolver{kv: kv, logger: logger}
}

// Resolve returns the active identity. Precedence is a deliberate contract:
// explicit session user data always wins over token re-decoding, and a
// missing or corrupt token degrades to anonymous rather than raising.
//
//  1. a persisted session record that is not yet initialized → anonymous
//  2. session user id
//  3. session username
//  4. session email, non-alphanumerics replaced by "_"
//  5. stored raw token → claims subject, else claims username
//  6. anonymous
func (r *IdentityResolver) Resolve(ctx context.Context) string {
	raw, ok, err := r.kv.Get(ctx, KeyAuthRecord)
	if err != nil {
		r.logger.Warn("read session record failed; resolving as anonymous", "error", err)
		return auth.AnonymousIdentity
	}
	if ok {
		var rec auth.Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			r.logger.Warn("unparseable session record; resolving as anonymous", "error", err)
			return auth.AnonymousIdentity
		}
		// Never read a half-initialized session.
		if !rec.Initialized {
			return auth.AnonymousIdentity
		}
		if id, ok := identityFromUser(rec.User); ok {
			return id
		}
	}

	return r.resolveFromToken(ctx)
}

func identityFromUser(u *auth.User) (string, bool) {
	if u == nil {
		return "", false
	}
	if u.ID != 0 {
		return strconv.FormatInt(u.ID, 10), true
	}
	if u.Username != "" {
		return u.Username, true
	}
	if u.Email != "" {
		return nonAlphanumeric.ReplaceAllString(u.Email, "_"), true
	}
	return "", false
}

func (r *IdentityResolver) resolveFromToken(ctx context.Context) string {
	token, ok, err := r.kv.Get(ctx, KeyRawToken)
	if err != nil {
		r.logger.Warn("read stored token failed; resolving as anonymous", "error", err)
		return auth.AnonymousIdentity
	}
	if !ok || token == "" {
		return auth.AnonymousIdentity
	}

	// Scoping the cart does not authenticate anyone, so a subject is not
	// required here: a token carrying only a username still names an
	// identity worth keeping cart data under.
	claims, err := decodeClaims(token)
	if err != nil {
		r.logger.Debug("stored token did not decode; resolving as anonymous", "error", err)
		return auth.AnonymousIdentity
	}
	if claims.Subject != "" {
		return claims.Subject
	}
	if claims.Username != "" {
		return claims.Username
	}
	return auth.AnonymousIdentity
}
