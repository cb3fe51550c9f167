package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/hash"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/mailer"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/revocation"
	"github.com/Skotchmaster/storefront/internal/tokens"
	"github.com/Skotchmaster/storefront/internal/transport"
)

const (
	ConfirmPath       = "/api/v1/customers/confirm"
	ResetConfirmPath  = "/api/v1/customers/password/reset/confirm"
	minPasswordLength = 6
)

const (
	DetailRegistered      = "Registered. Please check your email to confirm."
	DetailAlreadyVerified = "email already verified"
	DetailVerified        = "email verified successfully"
	DetailResendSent      = "If the account exists and is not yet verified, a confirmation email has been sent."
	DetailResetSent       = "If the account exists, a password reset email has been sent."
	DetailPasswordUpdated = "Password updated successfully"
	DetailLoggedOut       = "Logged out"
	DetailAlreadyExpired  = "Already expired"

	DetailMissingBearer = "Missing Bearer token"
	DetailTokenRevoked  = "Token revoked"
	DetailTokenExpired  = "Token expired"
	DetailTokenInvalid  = "Invalid token"
)

type AuthService struct {
	Repo    *repo.GormRepo
	Signer  *tokens.Signer
	Revoked revocation.Store
	Mailer  mailer.Sender
	Events  *Events
	// PublicURL overrides the per-request origin in mailed links when set.
	PublicURL string
}

type LoginResult struct {
	Token     string
	ExpiresIn int64
	Customer  *models.Customer
}

func (s *AuthService) link(origin, path, token string) string {
	base := s.PublicURL
	if base == "" {
		base = origin
	}
	return strings.TrimRight(base, "/") + path + "?token=" + url.QueryEscape(token)
}

func (s *AuthService) sendConfirmation(ctx context.Context, c *models.Customer, origin string) error {
	tok, err := s.Signer.Sign(tokens.EmailConfirm, c.ID, c.EmailValue())
	if err != nil {
		return err
	}
	msg := mailer.ConfirmationMessage(c.EmailValue(), c.FirstName, c.UserName, s.link(origin, ConfirmPath, tok))
	return s.Mailer.Send(ctx, msg)
}

func (s *AuthService) sendReset(ctx context.Context, c *models.Customer, origin string) error {
	email := strings.ToLower(c.EmailValue())
	tok, err := s.Signer.Sign(tokens.PasswordReset, c.ID, email)
	if err != nil {
		return err
	}
	msg := mailer.PasswordResetMessage(c.EmailValue(), c.FirstName, c.UserName, s.link(origin, ResetConfirmPath, tok))
	return s.Mailer.Send(ctx, msg)
}

// Register creates an unverified customer and mails a confirmation link.
// A failed hand-off to the mailer is logged and does not undo the registration.
func (s *AuthService) Register(ctx context.Context, req transport.CustomerRequest, origin string) (*models.Customer, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	userName := transport.Str(req.UserName)
	password := transport.Str(req.Password)
	email := strings.ToLower(transport.Str(req.Email))

	if userName == "" {
		return nil, validation("user_name is required")
	}
	if password == "" {
		return nil, validation("password is required")
	}
	if email == "" {
		return nil, validation("email is required")
	}

	taken, err := s.Repo.UserNameTaken(ctx, userName, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, validation("user_name already exists")
	}
	taken, err = s.Repo.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, validation("email already in use")
	}

	hashed, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	c := &models.Customer{
		UserName:        userName,
		Password:        hashed,
		FirstName:       transport.Str(req.FirstName),
		LastName:        transport.Optional(req.LastName),
		Phone:           transport.Optional(req.Phone),
		Email:           &email,
		Street:          transport.Optional(req.Street),
		City:            transport.Optional(req.City),
		State:           transport.Optional(req.State),
		ZipCode:         transport.Optional(req.ZipCode),
		IsEmailVerified: false,
	}
	if err := onWrite(s.Repo.CreateCustomer(ctx, c), "user_name already exists"); err != nil {
		return nil, err
	}

	if err := s.sendConfirmation(ctx, c, origin); err != nil {
		l.Error("register_mail_error", "customer_id", c.ID, "error", err)
	}
	s.Events.emit(ctx, "customer_registered", c.ID, map[string]any{"user_name": c.UserName})
	return c, nil
}

// Confirm marks the email verified. Confirming twice is a no-op.
func (s *AuthService) Confirm(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", validation("token is required")
	}
	claims, err := s.Signer.Parse(tokens.EmailConfirm, token)
	if err != nil {
		return "", tokenValidationError(err)
	}

	c, err := s.Repo.CustomerByIDAndEmail(ctx, claims.CustomerID, strings.ToLower(claims.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", notFound("customer not found")
		}
		return "", err
	}

	if c.IsEmailVerified {
		return DetailAlreadyVerified, nil
	}
	if err := s.Repo.MarkEmailVerified(ctx, c.ID); err != nil {
		return "", err
	}
	s.Events.emit(ctx, "customer_verified", c.ID, nil)
	return DetailVerified, nil
}

func (s *AuthService) findAccount(ctx context.Context, req transport.AccountLookupRequest) (*models.Customer, error) {
	userName := strings.TrimSpace(req.UserName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if userName == "" && email == "" {
		return nil, validation("user_name or email is required")
	}

	var (
		c   *models.Customer
		err error
	)
	if userName != "" {
		c, err = s.Repo.CustomerByUserName(ctx, userName)
	} else {
		c, err = s.Repo.CustomerByEmail(ctx, email)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return c, err
}

// ResendConfirmation answers the same way whether or not the account exists,
// has an email or is already verified.
func (s *AuthService) ResendConfirmation(ctx context.Context, req transport.AccountLookupRequest, origin string) (string, error) {
	c, err := s.findAccount(ctx, req)
	if err != nil {
		return "", err
	}
	if c != nil && c.EmailValue() != "" && !c.IsEmailVerified {
		if err := s.sendConfirmation(ctx, c, origin); err != nil {
			logging.FromContext(ctx).Error("resend_confirmation_mail_error", "customer_id", c.ID, "error", err)
		}
	}
	return DetailResendSent, nil
}

func (s *AuthService) Login(ctx context.Context, userName, password string) (*LoginResult, error) {
	userName = strings.TrimSpace(userName)
	password = strings.TrimSpace(password)
	if userName == "" || password == "" {
		return nil, validation("user_name and password are required")
	}

	c, err := s.Repo.CustomerByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, unauthorized("Invalid credentials")
		}
		return nil, err
	}
	if !c.CheckPassword(password) {
		return nil, unauthorized("Invalid credentials")
	}
	if !c.IsEmailVerified {
		return nil, forbidden("Email not verified")
	}

	tok, err := s.Signer.Sign(tokens.Auth, c.ID, "")
	if err != nil {
		return nil, err
	}
	s.Events.emit(ctx, "customer_logged_in", c.ID, nil)
	return &LoginResult{Token: tok, ExpiresIn: int64(tokens.Auth.MaxAge / time.Second), Customer: c}, nil
}

// Authenticate resolves a bearer token to its customer. The revocation list is
// consulted before the token is decoded.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Customer, error) {
	if token == "" {
		return nil, unauthorized(DetailMissingBearer)
	}

	revoked, err := s.Revoked.IsRevoked(ctx, revocation.Fingerprint(token))
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, unauthorized(DetailTokenRevoked)
	}

	claims, err := s.Signer.Parse(tokens.Auth, token)
	if err != nil {
		if errors.Is(err, tokens.ErrExpired) {
			return nil, unauthorized(DetailTokenExpired)
		}
		return nil, unauthorized(DetailTokenInvalid)
	}

	c, err := s.Repo.GetCustomer(ctx, claims.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, unauthorized(DetailTokenInvalid)
		}
		return nil, err
	}
	return c, nil
}

// Logout revokes token until it would have expired anyway. Expired and
// malformed tokens are already unusable, so nothing is stored for them.
func (s *AuthService) Logout(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", unauthorized(DetailMissingBearer)
	}

	claims, err := s.Signer.Parse(tokens.Auth, token)
	if err != nil {
		if errors.Is(err, tokens.ErrExpired) {
			return DetailAlreadyExpired, nil
		}
		return DetailLoggedOut, nil
	}

	expiresAt := s.Signer.Now().Add(tokens.Auth.MaxAge)
	if iat := claims.IssuedAtTime(); !iat.IsZero() {
		expiresAt = iat.Add(tokens.Auth.MaxAge)
	}

	if err := s.Revoked.Revoke(ctx, revocation.Fingerprint(token), expiresAt); err != nil {
		return "", err
	}
	s.Events.emit(ctx, "customer_logged_out", claims.CustomerID, nil)
	return DetailLoggedOut, nil
}

func (s *AuthService) RequestPasswordReset(ctx context.Context, req transport.AccountLookupRequest, origin string) (string, error) {
	c, err := s.findAccount(ctx, req)
	if err != nil {
		return "", err
	}
	if c != nil && c.EmailValue() != "" {
		if err := s.sendReset(ctx, c, origin); err != nil {
			logging.FromContext(ctx).Error("password_reset_mail_error", "customer_id", c.ID, "error", err)
		}
	}
	return DetailResetSent, nil
}

// ConfirmPasswordReset refuses tokens minted for an email the customer no longer has.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, req transport.PasswordResetConfirmRequest) (string, error) {
	confirm := strings.TrimSpace(req.ConfirmPassword)
	if confirm == "" {
		confirm = strings.TrimSpace(req.PasswordConfirm)
	}
	newPassword := strings.TrimSpace(req.NewPassword)

	if req.Token == "" {
		return "", validation("token is required")
	}
	if utf8.RuneCountInString(newPassword) < minPasswordLength {
		return "", validation("new_password must be at least 6 characters")
	}
	if confirm == "" {
		return "", validation("confirm_password is required")
	}
	if newPassword != confirm {
		return "", validation("password confirmation does not match")
	}

	claims, err := s.Signer.Parse(tokens.PasswordReset, req.Token)
	if err != nil {
		return "", tokenValidationError(err)
	}

	c, err := s.Repo.GetCustomer(ctx, claims.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", validation("invalid token")
		}
		return "", err
	}
	if current := c.EmailValue(); current != "" && strings.ToLower(current) != strings.ToLower(claims.Email) {
		return "", validation("invalid token")
	}

	hashed, err := hash.HashPassword(newPassword)
	if err != nil {
		return "", err
	}
	if err := s.Repo.UpdatePassword(ctx, c.ID, hashed); err != nil {
		return "", err
	}
	return DetailPasswordUpdated, nil
}

func tokenValidationError(err error) error {
	if errors.Is(err, tokens.ErrExpired) {
		return validation("token expired")
	}
	return validation("invalid token")
}
