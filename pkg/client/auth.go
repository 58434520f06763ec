package client

import (
	"context"
	"net/http"
	"net/url"

	"w9ayt_delivery_server/internal/dto/request"
	"w9ayt_delivery_server/internal/dto/respond"
)

// Signup registers a client account.
func (c *Client) Signup(ctx context.Context, req request.SignupRequest) (*respond.SignupRespond, error) {
	var rsp respond.SignupRespond
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/signup", req, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// CompanySignup submits a company onboarding request.
func (c *Client) CompanySignup(ctx context.Context, req request.CompanySignupRequest) (*respond.SignupRespond, error) {
	var rsp respond.SignupRespond
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/company-signup", req, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// Login authenticates and stores the session for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*respond.LoginRespond, error) {
	var rsp respond.LoginRespond
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login",
		request.LoginRequest{Email: email, Password: password}, &rsp)
	if err != nil {
		return nil, err
	}
	c.session.Set(&rsp)
	return &rsp, nil
}

// Refresh rotates the token pair using the stored refresh token.
func (c *Client) Refresh(ctx context.Context) error {
	var rsp respond.LoginRespond
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/refresh",
		request.RefreshTokenRequest{RefreshToken: c.session.RefreshToken()}, &rsp)
	if err != nil {
		return err
	}
	c.session.Set(&rsp)
	return nil
}

// Logout drops the local session.
func (c *Client) Logout() {
	c.session.Clear()
}

// ForgotPassword starts the reset flow for an email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/forgot-password",
		request.ForgotPasswordRequest{Email: email}, nil)
}

// ResetPassword completes the reset with the emailed token.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/reset-password",
		request.ResetPasswordRequest{Token: token, Password: password}, nil)
}

// VerifyEmail consumes a verification token.
func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	path := queryPath("/api/auth/verify-email", url.Values{"token": {token}})
	return c.doJSON(ctx, http.MethodGet, path, nil, nil)
}
