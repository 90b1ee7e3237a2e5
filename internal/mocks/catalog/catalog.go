package catalog

// Package catalog contains a simple hand-written test double for the remote
// catalog port. It is lightweight and suitable for unit tests without codegen.

import (
	"context"
	"fmt"

	"github.com/northwind/storefront/internal/domain/auth"
	domaincatalog "github.com/northwind/storefront/internal/domain/catalog"
	"github.com/northwind/storefront/internal/ports"
)

// Ensure compile-time conformance to ports.
var _ ports.CatalogClient = (*StubCatalog)(nil)

// DefaultToken is a syntactically valid, unsigned-verifiable token whose
// payload carries {"sub":1,"user":"johnd"}. Tests that decode stored tokens
// can rely on it resolving to user id 1.
const DefaultToken = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJzdWIiOjEsInVzZXIiOiJqb2huZCIsImlhdCI6MTYwOTQ2Mjg2MX0.x"

// StubCatalog simulates the remote store API with deterministic responses.
// Any behavior can be overridden per-test by setting the corresponding func
// field; unset fields fall back to the stub's default user and products.
type StubCatalog struct {
	LoginFunc          func(ctx context.Context, creds auth.Credentials) (auth.AuthResult, error)
	RegisterFunc       func(ctx context.Context, reg auth.Registration) (auth.AuthResult, error)
	GetUserFunc        func(ctx context.Context, id string) (auth.User, error)
	ListProductsFunc   func(ctx context.Context) ([]domaincatalog.Product, error)
	ListCategoriesFunc func(ctx context.Context) ([]string, error)
	ListByCategoryFunc func(ctx context.Context, category string) ([]domaincatalog.Product, error)
	GetProductFunc     func(ctx context.Context, id int64) (domaincatalog.Product, error)

	// Deterministic values for predictable testing
	DefaultUser     auth.User
	DefaultProducts []domaincatalog.Product

	// Internal state tracking for deterministic behavior
	loginCalls int
}

// NewStubCatalog creates a StubCatalog with sensible defaults.
func NewStubCatalog() *StubCatalog {
	return &StubCatalog{
		DefaultUser: auth.User{
			ID:        1,
			Username:  "johnd",
			Email:     "john@gmail.com",
			FirstName: "John",
			LastName:  "Doe",
			Phone:     "1-570-236-7033",
		},
		DefaultProducts: []domaincatalog.Product{
			{ID: 1, Title: "Backpack", Price: 109.95, Category: "men's clothing"},
			{ID: 2, Title: "T-Shirt", Price: 22.30, Category: "men's clothing"},
		},
	}
}

// LoginCalls reports how many times Login has been invoked.
func (s *StubCatalog) LoginCalls() int { return s.loginCalls }

func (s *StubCatalog) Login(ctx context.Context, creds auth.Credentials) (auth.AuthResult, error) {
	s.loginCalls++
	if s.LoginFunc != nil {
		return s.LoginFunc(ctx, creds)
	}
	return auth.AuthResult{Token: DefaultToken}, nil
}

func (s *StubCatalog) Register(ctx context.Context, reg auth.Registration) (auth.AuthResult, error) {
	if s.RegisterFunc != nil {
		return s.RegisterFunc(ctx, reg)
	}
	user := auth.User{
		ID:        s.DefaultUser.ID,
		Username:  reg.Username,
		Email:     reg.Email,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Phone:     reg.Phone,
	}
	// The remote API acknowledges registration without issuing a token.
	return auth.AuthResult{User: &user}, nil
}

func (s *StubCatalog) GetUser(ctx context.Context, id string) (auth.User, error) {
	if s.GetUserFunc != nil {
		return s.GetUserFunc(ctx, id)
	}
	return s.DefaultUser, nil
}

func (s *StubCatalog) ListProducts(ctx context.Context) ([]domaincatalog.Product, error) {
	if s.ListProductsFunc != nil {
		return s.ListProductsFunc(ctx)
	}
	return s.DefaultProducts, nil
}

func (s *StubCatalog) ListCategories(ctx context.Context) ([]string, error) {
	if s.ListCategoriesFunc != nil {
		return s.ListCategoriesFunc(ctx)
	}
	seen := map[string]bool{}
	var out []string
	for _, p := range s.DefaultProducts {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
}

func (s *StubCatalog) ListByCategory(ctx context.Context, category string) ([]domaincatalog.Product, error) {
	if s.ListByCategoryFunc != nil {
		return s.ListByCategoryFunc(ctx, category)
	}
	var out []domaincatalog.Product
	for _, p := range s.DefaultProducts {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *StubCatalog) GetProduct(ctx context.Context, id int64) (domaincatalog.Product, error) {
	if s.GetProductFunc != nil {
		return s.GetProductFunc(ctx, id)
	}
	for _, p := range s.DefaultProducts {
		if p.ID == id {
			return p, nil
		}
	}
	return domaincatalog.Product{}, fmt.Errorf("product %d not found", id)
}
