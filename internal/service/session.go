package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"

	"github.com/northwind/storefront/internal/domain/auth"
	apperrors "github.com/northwind/storefront/internal/errors"
	"github.com/northwind/storefront/internal/ports"
)

// SessionStore owns the authentication state of one browser session:
// current user, token, and the initialized flag. State transitions:
// uninitialized → initializing → {authenticated, anonymous}, with
// authenticated → anonymous on logout. Once initialized, re-initialization
// is a no-op.
//
// Remote authentication failures are surfaced as typed auth errors with the
// prior state left untouched; storage failures are logged and recovered
// locally.
type SessionStore struct {
	mu      sync.Mutex
	kv      ports.KeyValueStore
	catalog ports.CatalogClient
	logger  *slog.Logger

	status      auth.Status
	user        *auth.User
	token       string
	initialized bool
	// gen is bumped on logout so a login/profile fetch completing after the
	// fact can detect it raced a logout and discard its result.
	gen uint64
}

// SessionStoreOptions groups dependencies for SessionStore.
type SessionStoreOptions struct {
	KV      ports.KeyValueStore
	Catalog ports.CatalogClient
	Logger  *slog.Logger
}

// NewSessionStore constructs an uninitialized session store.
func NewSessionStore(opts SessionStoreOptions) *SessionStore {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		kv:      opts.KV,
		catalog: opts.Catalog,
		logger:  logger,
		status:  auth.StatusUninitialized,
	}
}

// Status returns the current lifecycle state.
func (s *SessionStore) Status() auth.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Initialized reports whether session bootstrap has completed.
func (s *SessionStore) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// CurrentUser returns a copy of the authenticated user, or nil.
func (s *SessionStore) CurrentUser() *auth.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the current raw auth token, or empty.
func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Login exchanges credentials with the remote store and, on success, stores
// the identity and token and marks the session authenticated and
// initialized. On any failure the prior session state is left untouched.
func (s *SessionStore) Login(ctx context.Context, creds auth.Credentials) (*auth.User, error) {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	res, err := s.catalog.Login(ctx, creds)
	if err != nil {
		if apperrors.IsAuth(err) || apperrors.IsValidation(err) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeAuth, "login failed")
	}

	user, err := s.resolveUser(ctx, res)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyAuthenticatedLocked(ctx, user, res.Token, gen)

	u := *user
	return &u, nil
}

// RegisterResult reports the outcome of account creation. SignedIn is false
// when the remote API created the account without issuing a token; the
// session stays unauthenticated and the caller decides how to proceed.
type RegisterResult struct {
	User     *auth.User
	Token    string
	SignedIn bool
}

// Register creates an account with the remote store. When the response
// carries a token the session is signed in exactly as by Login; a tokenless
// acknowledgement is returned as an explicit not-signed-in result rather
// than synthesizing credentials from the returned id.
func (s *SessionStore) Register(ctx context.Context, reg auth.Registration) (RegisterResult, error) {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	res, err := s.catalog.Register(ctx, reg)
	if err != nil {
		if apperrors.IsAuth(err) || apperrors.IsValidation(err) {
			return RegisterResult{}, err
		}
		return RegisterResult{}, apperrors.Wrap(err, apperrors.ErrCodeAuth, "registration failed")
	}

	if !res.TokenIssued() {
		return RegisterResult{User: res.User}, nil
	}

	user, err := s.resolveUser(ctx, res)
	if err != nil {
		return RegisterResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyAuthenticatedLocked(ctx, user, res.Token, gen)

	u := *user
	return RegisterResult{User: &u, Token: res.Token, SignedIn: true}, nil
}

// resolveUser validates the returned token and fills in the user profile
// when the remote call did not include one.
func (s *SessionStore) resolveUser(ctx context.Context, res auth.AuthResult) (*auth.User, error) {
	claims, err := DecodeToken(res.Token)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeAuth, "remote store returned an unusable token")
	}

	if res.User != nil {
		return res.User, nil
	}

	fetched, err := s.catalog.GetUser(ctx, claims.Subject)
	if err != nil {
		// The token is good; a profile miss downgrades to the claims alone.
		s.logger.Warn("profile fetch after login failed; using token claims", "error", err)
		fetched = auth.User{Username: claims.Username}
		if id, perr := strconv.ParseInt(claims.Subject, 10, 64); perr == nil {
			fetched.ID = id
		}
	}
	return &fetched, nil
}

// Logout clears the user, token, and authenticated flag, keeps the session
// initialized (suppressing any pending auto re-init), and deletes the
// durable token. Callers clear the outgoing identity's cart before invoking
// this, while the session record still names that identity.
func (s *SessionStore) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.user = nil
	s.token = ""
	s.status = auth.StatusAnonymous
	s.initialized = true
	s.persistRecordLocked(ctx)

	if err := s.kv.Delete(ctx, KeyRawToken); err != nil {
		s.logger.Warn("delete stored token failed", "error", err)
	}
}

// InitializeFromStorage restores the session from the durable token: it
// decodes the stored token, fetches the full profile from the remote store,
// and transitions to authenticated, or to anonymous-and-initialized on any
// failure, clearing the unusable token. A no-op once initialized. A profile
// fetch that completes after a concurrent logout is discarded.
func (s *SessionStore) InitializeFromStorage(ctx context.Context) {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return
	}
	s.status = auth.StatusInitializing
	gen := s.gen
	s.mu.Unlock()

	token, ok, err := s.kv.Get(ctx, KeyRawToken)
	if err != nil {
		s.logger.Warn("read stored token failed", "error", err)
		s.completeAnonymous(ctx, gen, false)
		return
	}
	if !ok || token == "" {
		s.completeAnonymous(ctx, gen, false)
		return
	}

	claims, err := DecodeToken(token)
	if err != nil {
		s.logger.Info("stored token did not decode; clearing", "error", err)
		s.completeAnonymous(ctx, gen, true)
		return
	}

	user, err := s.catalog.GetUser(ctx, claims.Subject)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		// A logout landed while the profile fetch was in flight.
		return
	}

	if err != nil {
		s.logger.Info("profile fetch during init failed; starting anonymous", "error", err)
		s.clearTokenLocked(ctx)
		s.user = nil
		s.token = ""
		s.status = auth.StatusAnonymous
		s.initialized = true
		s.persistRecordLocked(ctx)
		return
	}

	s.user = &user
	s.token = token
	s.status = auth.StatusAuthenticated
	s.initialized = true
	s.persistRecordLocked(ctx)
}

func (s *SessionStore) completeAnonymous(ctx context.Context, gen uint64, clearToken bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}

	if clearToken {
		s.clearTokenLocked(ctx)
	}
	s.user = nil
	s.token = ""
	s.status = auth.StatusAnonymous
	s.initialized = true
	s.persistRecordLocked(ctx)
}

// applyAuthenticatedLocked installs a signed-in session unless a logout
// landed while the remote call was in flight, in which case the stale
// completion is dropped and the logged-out state stands.
func (s *SessionStore) applyAuthenticatedLocked(ctx context.Context, user *auth.User, token string, gen uint64) {
	if s.gen != gen {
		s.logger.Debug("discarding sign-in completed after logout", "username", user.Username)
		return
	}

	s.user = user
	s.token = token
	s.status = auth.StatusAuthenticated
	s.initialized = true
	s.persistRecordLocked(ctx)

	if err := s.kv.Set(ctx, KeyRawToken, token); err != nil {
		s.logger.Warn("persist token failed", "error", err)
	}
}

func (s *SessionStore) persistRecordLocked(ctx context.Context) {
	rec := auth.Record{
		User:            s.user,
		Token:           s.token,
		IsAuthenticated: s.status == auth.StatusAuthenticated,
		Initialized:     s.initialized,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		s.logger.Error("marshal session record failed", "error", err)
		return
	}
	if err := s.kv.Set(ctx, KeyAuthRecord, string(data)); err != nil {
		s.logger.Warn("persist session record failed", "error", err)
	}
}

func (s *SessionStore) clearTokenLocked(ctx context.Context) {
	if err := s.kv.Delete(ctx, KeyRawToken); err != nil {
		s.logger.Warn("delete stored token failed", "error", err)
	}
}
