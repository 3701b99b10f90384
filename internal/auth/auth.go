// Package auth verifies username/password pairs against stored credentials.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/mr-saberi/siite/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown user and for a wrong
// password alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserLookup is the part of the store the verifier reads from.
type UserLookup interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type Verifier struct {
	users UserLookup
	// AllowPlain accepts legacy plain-text credentials.
	AllowPlain bool
}

func NewVerifier(users UserLookup, allowPlain bool) *Verifier {
	return &Verifier{users: users, AllowPlain: allowPlain}
}

// dummyHash is compared against when the username is unknown so both
// failure paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

func (v *Verifier) Verify(ctx context.Context, username, password string) (*models.Identity, error) {
	user, err := v.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}

	if !v.matches(user.Credential, password) {
		return nil, ErrInvalidCredentials
	}
	return user.Identity(), nil
}

func (v *Verifier) matches(cred models.Credential, password string) bool {
	switch cred.Scheme {
	case models.SchemeBcrypt:
		return bcrypt.CompareHashAndPassword([]byte(cred.Value), []byte(password)) == nil
	case models.SchemePlain:
		if !v.AllowPlain {
			return false
		}
		return subtle.ConstantTimeCompare([]byte(cred.Value), []byte(password)) == 1
	default:
		return false
	}
}

// HashPassword returns a bcrypt credential for password.
func HashPassword(password string) (models.Credential, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Credential{}, err
	}
	return models.Credential{Scheme: models.SchemeBcrypt, Value: string(hashed)}, nil
}
