package service

import (
	"crypto/subtle"
	"errors"
	"time"

	"anoa.com/municipalservices/internal/entity"
	"golang.org/x/crypto/bcrypt"
)

// dobLayout renders a date of birth as DDMMYYYY, the password of a login that
// never set one.
const dobLayout = "02012006"

type credential interface {
	verify(password string) bool
}

type hashedCredential struct {
	hash []byte
}

func (c hashedCredential) verify(password string) bool {
	return bcrypt.CompareHashAndPassword(c.hash, []byte(password)) == nil
}

// dobCredential is the first-login fallback. It is weak: anyone who knows the
// citizen's birthday can sign in until a password is set.
type dobCredential struct {
	dateOfBirth time.Time
}

func (c dobCredential) verify(password string) bool {
	expected := DOBPassword(c.dateOfBirth)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(password)) == 1
}

func DOBPassword(dob time.Time) string {
	return dob.Format(dobLayout)
}

func credentialFor(login *entity.Login) (credential, error) {
	if login.PasswordHash != nil && *login.PasswordHash != "" {
		return hashedCredential{hash: []byte(*login.PasswordHash)}, nil
	}
	if login.Citizen == nil {
		return nil, errors.New("login has no password and no citizen record")
	}
	return dobCredential{dateOfBirth: login.Citizen.DateOfBirth}, nil
}
