package repository

import (
	"crypto/subtle"
	"errors"

	"aquashop/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminRepository checks the single configured admin account.
type AdminRepository interface {
	VerifyCredentials(username, password string) bool
}

type AdminRepo struct {
	username     string
	passwordHash []byte
}

func NewAdminRepository(username, passwordHash string) (AdminRepository, error) {
	if username == "" {
		return nil, errors.New("admin username must be set")
	}
	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, err
		}
	}
	return &AdminRepo{
		username:     username,
		passwordHash: []byte(passwordHash),
	}, nil
}

// VerifyCredentials fails closed when no password hash is configured.
func (a *AdminRepo) VerifyCredentials(username, password string) bool {
	if len(a.passwordHash) == 0 {
		zap.L().Warn("VerifyCredentials: admin login disabled, ADMIN_PASSWORD_HASH is empty")
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if err != nil {
		zap.L().Info("VerifyCredentials: password mismatch")
	}
	return userOK && err == nil
}

// EncryptPassword hashes a password for ADMIN_PASSWORD_HASH.
func EncryptPassword(password string) (hashedPassword string, err error) {
	if password == "" {
		err = models.ErrBadRequest
		return
	}
	hash, e := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if e != nil {
		zap.L().Error("EncryptPassword", zap.Error(e))
		err = models.ErrServerError
		return
	}
	hashedPassword = string(hash)
	return
}
