package auth

// Package auth contains domain-level types for authentication and session
// state. It is pure and free of framework/adapter concerns.

// AnonymousIdentity is the reserved identity shared by all unauthenticated
// sessions. Cart data scoped to it lives in a single shared bucket.
const AnonymousIdentity = "anonymous"

// Status represents the session lifecycle state.
// Valid transitions: uninitialized → initializing → {authenticated, anonymous},
// authenticated → anonymous on logout. Once initialized, re-initialization is
// a no-op.
type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusInitializing  Status = "initializing"
	StatusAuthenticated Status = "authenticated"
	StatusAnonymous     Status = "anonymous"
)

// User is the normalized profile produced once at the session boundary.
// Adapters map the remote store's heterogeneous user records into this shape;
// resolver logic never sees raw provider payloads.
type User struct {
	ID        int64  `json:"id,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Claims is the decoded payload of an authentication token. Ephemeral and
// derived; never persisted independently of the raw token.
type Claims struct {
	// Subject is the token's "sub" claim. Numeric subjects are coerced to
	// their decimal string form.
	Subject string
	// Username is the optional "user" claim.
	Username string
}

// Record is the durable session record stored under the auth-storage key.
type Record struct {
	User            *User  `json:"user,omitempty"`
	Token           string `json:"token,omitempty"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	// Initialized reports whether session bootstrap has completed. Identity
	// resolution treats a half-initialized record as anonymous.
	Initialized bool `json:"initialized"`
}

// Credentials carries a username/password login request.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration carries the fields needed to create an account with the
// remote store.
type Registration struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// AuthResult is the outcome of a remote login or register call. Token may be
// empty on registration: the remote API sometimes creates the account without
// issuing credentials, and that case is modeled explicitly rather than
// papered over with a synthesized token.
type AuthResult struct {
	Token string
	User  *User
}

// TokenIssued reports whether the remote call returned usable credentials.
func (r AuthResult) TokenIssued() bool { return r.Token != "" }
