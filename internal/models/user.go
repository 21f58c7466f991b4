package models

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is a registered account. Every other resource is scoped to the user
// owning it.
type User struct {
	DefaultModel
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null"`

	// Password reset flow. The token is single use and expires.
	ResetToken   string     `json:"-"`
	ResetExpires *time.Time `json:"-"`
}

var (
	ErrEmailNotUnique     = errors.New("this email address is already registered")
	ErrPasswordTooShort   = errors.New("the password must have at least 6 characters")
	ErrCredentialsInvalid = errors.New("the email or password is incorrect")
	ErrResetTokenInvalid  = errors.New("the reset token is invalid or expired")
)

const resetTokenLifetime = time.Hour

func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	return nil
}

// SetPassword hashes the password with bcrypt and stores the hash.
func (u *User) SetPassword(password string) error {
	if len(password) < 6 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies the password against the stored hash.
func (u User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// StartPasswordReset generates a single use reset token valid for one hour
// and stores it on the user. The caller persists the user and hands the
// token to the mailer.
func (u *User) StartPasswordReset() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}

	expires := time.Now().Add(resetTokenLifetime)

	u.ResetToken = hex.EncodeToString(raw)
	u.ResetExpires = &expires

	return u.ResetToken, nil
}

// ResetTokenValid reports whether token matches the stored reset token and
// the token has not expired.
func (u User) ResetTokenValid(token string) bool {
	if token == "" || u.ResetToken != token {
		return false
	}

	return u.ResetExpires != nil && u.ResetExpires.After(time.Now())
}
