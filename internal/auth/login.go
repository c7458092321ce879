package auth

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/aTrapDeer/portfolio-backend/internal/apperr"
	"github.com/aTrapDeer/portfolio-backend/internal/models"
	"github.com/aTrapDeer/portfolio-backend/internal/validation"
)

type UserFinder interface {
	ByEmail(ctx context.Context, email string) (*models.User, error)
}

type Credentials struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type Authenticator struct {
	users    UserFinder
	tokens   *Tokens
	validate *validation.Validator
}

func NewAuthenticator(users UserFinder, tokens *Tokens) *Authenticator {
	return &Authenticator{users: users, tokens: tokens, validate: validation.New()}
}

// Login checks the password and issues a token. Unknown email and wrong
// password fail the same way.
func (a *Authenticator) Login(ctx context.Context, c Credentials) (*Session, error) {
	c.Email = strings.TrimSpace(c.Email)
	if err := a.validate.Validate(&c); err != nil {
		return nil, err
	}
	u, err := a.users.ByEmail(ctx, c.Email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, invalidCredentials()
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(c.Password)); err != nil {
		return nil, invalidCredentials()
	}
	tok, exp, err := a.tokens.Issue(u.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &Session{Token: tok, ExpiresAt: exp, User: u}, nil
}

func invalidCredentials() error {
	return apperr.Unauthorized("Invalid credentials")
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}
