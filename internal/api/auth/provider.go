package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/casaluxe/stay/internal/api/authz"
	"github.com/casaluxe/stay/internal/cognito"
	"github.com/casaluxe/stay/internal/store"
)

// ErrInvalidCredentials is returned for an unknown account or a wrong
// password alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

const (
	MsgInvalidCredentials = "E-mail ou senha inválidos."
	MsgMissingCredentials = "Informe e-mail e senha."
	MsgNotAdmin           = "Sua conta não tem acesso ao painel."
	MsgLoginUnavailable   = "Login indisponível no momento. Tente novamente."
)

// Provider checks admin credentials.
type Provider interface {
	Name() string
	SignIn(ctx context.Context, email, password string) (*authz.AuthUser, error)
}

// LocalProvider verifies bcrypt hashes stored in the admin_users table.
type LocalProvider struct {
	users store.AdminUsers
}

func NewLocalProvider(users store.AdminUsers) *LocalProvider {
	return &LocalProvider{users: users}
}

func (p *LocalProvider) Name() string { return "local" }

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*authz.AuthUser, error) {
	u, err := p.users.GetAdminUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup admin user: %w", err)
	}
	if !VerifyPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &authz.AuthUser{ID: u.ID, Email: u.Email, Role: u.Role, Provider: p.Name()}, nil
}

// CreateLocalAdmin hashes password and stores a new admin account.
func CreateLocalAdmin(ctx context.Context, users store.AdminUsers, email, password string) (store.AdminUser, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return store.AdminUser{}, errors.New("email and password are required")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return store.AdminUser{}, fmt.Errorf("hash password: %w", err)
	}
	return users.CreateAdminUser(ctx, store.AdminUser{Email: email, PasswordHash: hash, Role: authz.RoleAdmin})
}

// ResetLocalAdminPassword replaces the password of an existing local admin.
// It returns store.ErrNotFound when no admin has that email.
func ResetLocalAdminPassword(ctx context.Context, users store.AdminUsers, email, password string) error {
	email = normalizeEmail(email)
	if email == "" {
		return errors.New("email is required")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return users.SetAdminPassword(ctx, email, hash)
}

// CognitoAuthenticator is the part of cognito.CognitoClient the provider needs.
type CognitoAuthenticator interface {
	SignIn(ctx context.Context, username, password string) (string, error)
	GetUser(ctx context.Context, accessToken string) (cognito.User, error)
}

// CognitoProvider signs admins in against a Cognito user pool. The role
// comes from the custom:role attribute.
type CognitoProvider struct {
	client CognitoAuthenticator
}

func NewCognitoProvider(client CognitoAuthenticator) *CognitoProvider {
	return &CognitoProvider{client: client}
}

func (p *CognitoProvider) Name() string { return "cognito" }

func (p *CognitoProvider) SignIn(ctx context.Context, email, password string) (*authz.AuthUser, error) {
	token, err := p.client.SignIn(ctx, normalizeEmail(email), password)
	if errors.Is(err, cognito.ErrCognitoNotAuthorized) || errors.Is(err, cognito.ErrCognitoUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	u, err := p.client.GetUser(ctx, token)
	if err != nil {
		return nil, err
	}
	return &authz.AuthUser{ID: u.Sub, Email: u.Email, Role: u.Role, Provider: p.Name()}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
