// Package auth issues and validates sessions: bcrypt-hashed credentials and
// HS256 access tokens.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"retailpos/internal/identity"
	"retailpos/internal/model"
	"retailpos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	PurposeAccess   = "access"
	PurposeRecovery = "recovery"

	DefaultTokenTTL = 24 * time.Hour
	resetTokenTTL   = time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// DTOs
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Username string `json:"username" binding:"required"`
	Name     string `json:"name"`
	Role     string `json:"role" binding:"omitempty,oneof=admin staff"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type NewPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type TokenResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        *model.User `json:"user"`
}

// Claims is the payload of both access and recovery tokens.
type Claims struct {
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose"`
	Version string `json:"ver,omitempty"`
	jwt.RegisteredClaims
}

// ProfileWriter is the hosted profile table, written at sign-up.
type ProfileWriter interface {
	identity.ProfileSource
	CreateProfile(ctx context.Context, user *model.User) error
}

// Provider implements identity.SessionProvider on top of its own tokens.
type Provider struct {
	accounts repository.AccountRepository
	profiles ProfileWriter
	mailer   Mailer
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

var _ identity.SessionProvider = (*Provider)(nil)

func NewProvider(db *gorm.DB, profiles ProfileWriter, mailer Mailer, secret []byte, ttl time.Duration) *Provider {
	return newProvider(repository.NewAccountRepository(db), profiles, mailer, secret, ttl)
}

func newProvider(accounts repository.AccountRepository, profiles ProfileWriter, mailer Mailer, secret []byte, ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &Provider{
		accounts: accounts,
		profiles: profiles,
		mailer:   mailer,
		secret:   secret,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Migrate creates the credentials table.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(&model.Account{})
}

// SignUp creates the credentials and the profile row. New accounts are staff
// unless a role is given.
func (p *Provider) SignUp(ctx context.Context, req SignUpRequest) (*model.User, error) {
	email := normalizeEmail(req.Email)
	if _, err := p.accounts.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	role := req.Role
	if role == "" {
		role = model.RoleStaff
	}
	if !model.ValidRole(role) {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	now := p.now().UTC()
	account := &model.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	user := &model.User{
		ID:        account.ID,
		Username:  req.Username,
		Name:      req.Name,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.profiles.CreateProfile(ctx, user); err != nil {
		if delErr := p.accounts.Delete(ctx, account.ID); delErr != nil {
			log.Printf("[auth] failed to remove account %s after profile error: %v", account.ID, delErr)
		}
		return nil, err
	}
	return user, nil
}

// SignIn checks credentials and issues an access token carrying the profile role.
func (p *Provider) SignIn(ctx context.Context, req SignInRequest) (*TokenResponse, error) {
	account, err := p.accounts.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := p.profile(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	expiresAt := p.now().Add(p.ttl)
	token, err := p.sign(Claims{
		Role:    user.Role,
		Purpose: PurposeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(p.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	if err != nil {
		return nil, err
	}
	return &TokenResponse{AccessToken: token, ExpiresAt: expiresAt.UTC(), User: user}, nil
}

// RequestPasswordReset mails a recovery token. Unknown emails succeed silently.
func (p *Provider) RequestPasswordReset(ctx context.Context, email string) error {
	account, err := p.accounts.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up account: %w", err)
	}

	token, err := p.sign(Claims{
		Purpose: PurposeRecovery,
		Version: hashVersion(account.PasswordHash),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(p.now()),
			ExpiresAt: jwt.NewNumericDate(p.now().Add(resetTokenTTL)),
		},
	})
	if err != nil {
		return err
	}
	return p.mailer.SendPasswordReset(ctx, account.Email, token)
}

// ResetPassword consumes a recovery token. A token stops working once the
// password it was issued for has changed.
func (p *Provider) ResetPassword(ctx context.Context, token, password string) error {
	claims, err := p.parse(token, PurposeRecovery)
	if err != nil {
		return err
	}
	account, err := p.accounts.GetByID(ctx, claims.Subject)
	if err != nil {
		return ErrInvalidToken
	}
	if claims.Version != hashVersion(account.PasswordHash) {
		return ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}
	return p.accounts.UpdatePassword(ctx, account.ID, string(hash), p.now())
}

// ParseAccessToken validates an access token and returns its claims.
func (p *Provider) ParseAccessToken(token string) (*Claims, error) {
	return p.parse(token, PurposeAccess)
}

// CurrentSession reads the access token from ctx. No token means no session.
func (p *Provider) CurrentSession(ctx context.Context) (*identity.Session, error) {
	token := AccessTokenFrom(ctx)
	if token == "" {
		return nil, nil
	}
	claims, err := p.ParseAccessToken(token)
	if err != nil {
		return nil, err
	}
	session := &identity.Session{UserID: claims.Subject, AccessToken: token}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// GetUser returns the profile of the session user.
func (p *Provider) GetUser(ctx context.Context) (*model.User, error) {
	session, err := p.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrInvalidToken
	}
	return p.profile(ctx, session.UserID)
}

func (p *Provider) profile(ctx context.Context, id string) (*model.User, error) {
	profiles, err := p.profiles.FetchProfiles(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no profile for account %s", id)
	}
	return &profiles[0], nil
}

func (p *Provider) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", errors.New("failed to generate token")
	}
	return signed, nil
}

func (p *Provider) parse(tokenString, purpose string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func hashVersion(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:6])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RoleForToken validates an access token and returns its role claim.
func (p *Provider) RoleForToken(token string) (string, error) {
	claims, err := p.ParseAccessToken(token)
	if err != nil {
		return "", err
	}
	return claims.Role, nil
}
