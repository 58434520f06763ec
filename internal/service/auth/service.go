// Package auth implements signup, company onboarding, login and the
// token lifecycle (refresh, email verification, password reset).
package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"w9ayt_delivery_server/internal/config"
	"w9ayt_delivery_server/internal/dao/mysql/repository"
	myredis "w9ayt_delivery_server/internal/dao/redis"
	"w9ayt_delivery_server/internal/dto/request"
	"w9ayt_delivery_server/internal/dto/respond"
	"w9ayt_delivery_server/internal/model"
	"w9ayt_delivery_server/pkg/errorx"
	"w9ayt_delivery_server/pkg/util/jwt"
)

const (
	verifyTokenTTL = 24 * time.Hour
	resetTokenTTL  = 30 * time.Minute
)

type authService struct {
	repos *repository.Repositories
	cache myredis.CacheService
}

// NewAuthService creates the auth service.
func NewAuthService(repos *repository.Repositories, cache myredis.CacheService) *authService {
	return &authService{repos: repos, cache: cache}
}

func toUserRespond(u *model.User) respond.UserRespond {
	return respond.UserRespond{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		Role:      u.Role,
		Status:    u.Status,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// Signup registers a client account and issues an email verification
// token. Without a mail transport configured, the token is returned in
// the response in dev mode so the flow stays testable.
func (s *authService) Signup(req request.SignupRequest) (*respond.SignupRespond, error) {
	if _, err := s.repos.User.FindByEmail(req.Email); err == nil {
		return nil, errorx.New(errorx.CodeUserExist, "an account with this email already exists")
	}

	user := &model.User{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		RawPassword: req.Password,
		Role:        model.RoleClient,
		Status:      model.UserStatusActive,
	}
	if err := s.repos.User.Create(user); err != nil {
		return nil, err
	}

	token, err := s.issueVerifyToken(user.ID)
	if err != nil {
		return nil, err
	}

	rsp := &respond.SignupRespond{User: toUserRespond(user)}
	if config.GetConfig().MainConfig.Mode == "dev" {
		rsp.VerifyToken = token
	}
	return rsp, nil
}

// CompanySignup creates the company user plus its pending profile in
// one transaction; the account cannot use company features until an
// admin approves the onboarding request.
func (s *authService) CompanySignup(req request.CompanySignupRequest) (*respond.SignupRespond, error) {
	if _, err := s.repos.User.FindByEmail(req.Email); err == nil {
		return nil, errorx.New(errorx.CodeUserExist, "an account with this email already exists")
	}

	var user *model.User
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		user = &model.User{
			Name:        req.ContactName,
			Email:       req.Email,
			Phone:       req.Phone,
			Address:     req.Address,
			RawPassword: req.Password,
			Role:        model.RoleCompany,
			Status:      model.UserStatusActive,
		}
		if err := tx.User.Create(user); err != nil {
			return err
		}
		company := &model.Company{
			UserID:      user.ID,
			Name:        req.CompanyName,
			TaxID:       req.TaxID,
			LegalStatus: req.LegalStatus,
			ContactName: req.ContactName,
			Email:       req.Email,
			Phone:       req.Phone,
			Address:     req.Address,
			Validation:  model.CompanyPending,
		}
		return tx.Company.Create(company)
	})
	if err != nil {
		return nil, err
	}

	token, err := s.issueVerifyToken(user.ID)
	if err != nil {
		return nil, err
	}

	rsp := &respond.SignupRespond{User: toUserRespond(user)}
	if config.GetConfig().MainConfig.Mode == "dev" {
		rsp.VerifyToken = token
	}
	return rsp, nil
}

// Login checks credentials and account state, then issues a token pair.
// The refresh token id is bound in Redis so a newer login invalidates
// older sessions.
func (s *authService) Login(req request.LoginRequest) (*respond.LoginRespond, error) {
	user, err := s.repos.User.FindByEmail(req.Email)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "no account with this email")
		}
		return nil, err
	}
	if !user.CheckPassword(req.Password) {
		return nil, errorx.New(errorx.CodeInvalidPassword, "incorrect password")
	}
	if user.Status == model.UserStatusSuspended {
		return nil, errorx.New(errorx.CodeForbidden, "account suspended")
	}
	if !user.Verified {
		return nil, errorx.New(errorx.CodeForbidden, "email not verified")
	}
	if user.Role == model.RoleCompany {
		company, err := s.repos.Company.FindByUserID(user.ID)
		if err != nil {
			return nil, err
		}
		if company.Validation != model.CompanyApproved {
			return nil, errorx.New(errorx.CodeForbidden, "company onboarding not yet approved")
		}
	}

	return s.issueTokenPair(user)
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *authService) Refresh(refreshToken string) (*respond.LoginRespond, error) {
	claims, err := jwt.ParseToken(refreshToken)
	if err != nil || claims.Subject != "refresh_token" {
		return nil, errorx.New(errorx.CodeUnauthorized, "invalid refresh token")
	}

	boundID, err := s.cache.Get(context.Background(), refreshKey(claims.UserID))
	if err != nil {
		return nil, err
	}
	if boundID == "" || boundID != claims.TokenID {
		return nil, errorx.New(errorx.CodeUnauthorized, "refresh token superseded by a newer login")
	}

	user, err := s.repos.User.FindByID(uint(claims.UserID))
	if err != nil {
		return nil, err
	}
	return s.issueTokenPair(user)
}

// ForgotPassword issues a short-lived reset token. The outcome is the
// same whether or not the email exists, so the endpoint cannot be used
// to probe accounts.
func (s *authService) ForgotPassword(email string) error {
	user, err := s.repos.User.FindByEmail(email)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil
		}
		return err
	}

	token := uuid.NewString()
	if err := s.cache.Set(context.Background(), "pwdreset:"+token,
		strconv.FormatUint(uint64(user.ID), 10), resetTokenTTL); err != nil {
		return err
	}
	// No mail transport is configured in this deployment; the token is
	// logged for the operator to relay.
	zap.L().Info("password reset token issued",
		zap.Uint("user_id", user.ID), zap.String("token", token))
	return nil
}

// ResetPassword consumes a reset token and stores the new password.
func (s *authService) ResetPassword(token, password string) error {
	key := "pwdreset:" + token
	val, err := s.cache.GetOrError(context.Background(), key)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeUnauthorized, "reset token expired or invalid")
		}
		return err
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return errorx.ErrServerBusy
	}

	user, err := s.repos.User.FindByID(uint(id))
	if err != nil {
		return err
	}
	user.RawPassword = password
	if err := s.repos.User.Update(user); err != nil {
		return err
	}
	return s.cache.Delete(context.Background(), key)
}

// VerifyEmail consumes a verification token and marks the account verified.
func (s *authService) VerifyEmail(token string) error {
	key := "verify:" + token
	val, err := s.cache.GetOrError(context.Background(), key)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeUnauthorized, "verification token expired or invalid")
		}
		return err
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return errorx.ErrServerBusy
	}
	if err := s.repos.User.SetVerified(uint(id)); err != nil {
		return err
	}
	return s.cache.Delete(context.Background(), key)
}

func (s *authService) issueVerifyToken(userID uint) (string, error) {
	token := uuid.NewString()
	err := s.cache.Set(context.Background(), "verify:"+token,
		strconv.FormatUint(uint64(userID), 10), verifyTokenTTL)
	if err != nil {
		return "", err
	}
	zap.L().Info("email verification token issued",
		zap.Uint("user_id", userID), zap.String("token", token))
	return token, nil
}

func (s *authService) issueTokenPair(user *model.User) (*respond.LoginRespond, error) {
	access, err := jwt.GenerateAccessToken(int64(user.ID), user.Role)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeServerBusy, "issue access token")
	}
	refresh, tokenID, err := jwt.GenerateRefreshToken(int64(user.ID), user.Role)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeServerBusy, "issue refresh token")
	}

	expiry := time.Duration(config.GetConfig().JWTConfig.RefreshTokenExpiry) * time.Hour
	if err := s.cache.Set(context.Background(), refreshKey(int64(user.ID)), tokenID, expiry); err != nil {
		return nil, err
	}

	return &respond.LoginRespond{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         toUserRespond(user),
	}, nil
}

func refreshKey(userID int64) string {
	return "user_token:" + strconv.FormatInt(userID, 10)
}
