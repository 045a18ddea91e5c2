package services

import (
	"context"

	"aquashop/entities"
	"aquashop/models"
	"aquashop/repository"

	"go.uber.org/zap"
)

// AdminService is the login gate in front of the order back office. There
// is a single admin account, configured through the environment.
type AdminService struct {
	ar repository.AdminRepository
	sr repository.SessionRepository
}

func NewAdminService(adminRepo repository.AdminRepository, sessionRepo repository.SessionRepository) AdminService {
	return AdminService{
		ar: adminRepo,
		sr: sessionRepo,
	}
}

func (as *AdminService) SigninRequest(ctx context.Context, creds models.Credentials) (sessionId string, err error) {
	if creds.Username == "" || creds.Password == "" {
		err = models.ErrBadRequest
		return
	}
	if !as.ar.VerifyCredentials(creds.Username, creds.Password) {
		zap.L().Info("SigninRequest: wrong credentials", zap.String("username", creds.Username))
		err = models.ErrUnauthorized
		return
	}
	sessionId, err = as.sr.CreateSession(ctx, creds.Username)
	return
}

func (as *AdminService) CheckAccess(ctx context.Context, sessionId string) (bool, error) {
	if sessionId == "" {
		return false, nil
	}
	return as.sr.CheckSession(ctx, sessionId)
}

func (as *AdminService) SessionInfo(ctx context.Context, sessionId string) (info entities.AdminSession, err error) {
	if sessionId == "" {
		return
	}
	var exists bool
	info.Username, exists, err = as.sr.GetSessionUser(ctx, sessionId)
	if err != nil || !exists {
		info.Username = ""
		return
	}
	info.Authenticated = true
	return
}

func (as *AdminService) DeleteSessionRequest(ctx context.Context, sessionId string) (err error) {
	if sessionId == "" {
		return
	}
	err = as.sr.DeleteSession(ctx, sessionId)
	return
}
