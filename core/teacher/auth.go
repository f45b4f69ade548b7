// Package teacher guards the teacher dashboard with a single shared password.
package teacher

import (
	"crypto/subtle"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/ielts/core"
)

// Login is the body of a teacher authentication request.
type Login struct {
	Password string `json:"password"`
}

// Authenticator checks the shared teacher password, stored either as a bcrypt hash or in clear.
type Authenticator struct {
	hash     []byte
	password []byte
}

func NewAuthenticator(conf *core.Config) *Authenticator {
	a := &Authenticator{}
	if conf.Teacher.PasswordHash != "" {
		a.hash = []byte(conf.Teacher.PasswordHash)
	} else if conf.Teacher.Password != "" {
		a.password = []byte(conf.Teacher.Password)
	}
	return a
}

// Configured reports whether a teacher password was set. Without one, every check fails.
func (a *Authenticator) Configured() bool {
	return len(a.hash) > 0 || len(a.password) > 0
}

func (a *Authenticator) Check(password string) bool {
	if password == "" {
		return false
	}
	if len(a.hash) > 0 {
		return bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil
	}
	if len(a.password) > 0 {
		return subtle.ConstantTimeCompare(a.password, []byte(password)) == 1
	}
	return false
}

// HashPassword returns the bcrypt hash to configure as teacher.passwordHash.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", core.NewFieldError("password", "this field is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hashing password")
	}
	return string(hash), nil
}
