package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
	portssvc "github.com/mkrishnan-dev/storefront_backend/internal/core/ports/services"
	"github.com/mkrishnan-dev/storefront_backend/internal/utils"
	"github.com/mkrishnan-dev/storefront_backend/pkg/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// googleAuthService implements the GoogleAuthSvcFacade. It supports both the
// server-side redirect flow (consent URL, code exchange) and direct ID token
// validation for frontends that run the Google flow themselves.
type googleAuthService struct {
	cfg          *config.Config
	oauth2Config *oauth2.Config
}

// NewGoogleAuthService creates a new instance of googleAuthService.
func NewGoogleAuthService(cfg *config.Config) portssvc.GoogleAuthSvcFacade {
	return &googleAuthService{
		cfg: cfg,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// Ensure googleAuthService implements the portssvc.GoogleAuthSvcFacade interface
var _ portssvc.GoogleAuthSvcFacade = (*googleAuthService)(nil)

// GenerateStateString creates a secure random string used as the CSRF token
// for the redirect flow. 16 bytes gives a 32 char hex string.
func (s *googleAuthService) GenerateStateString(ctx context.Context) (string, error) {
	state, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate state string for OAuth: %w", err)
	}
	return state, nil
}

// GetGoogleLoginURL returns the URL to redirect the user to for Google login.
func (s *googleAuthService) GetGoogleLoginURL(ctx context.Context, state string) string {
	return s.oauth2Config.AuthCodeURL(state)
}

// ExchangeCodeForIdentity exchanges an OAuth authorization code for tokens and
// validates the ID token bundled in the response.
func (s *googleAuthService) ExchangeCodeForIdentity(ctx context.Context, code string) (*domain.GoogleUserInfo, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code for token: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("oauth token response did not include an id_token")
	}

	return s.ValidateIDToken(ctx, rawIDToken)
}

// ValidateIDToken validates an ID token received from Google and returns the
// verified identity.
func (s *googleAuthService) ValidateIDToken(ctx context.Context, idTokenString string) (*domain.GoogleUserInfo, error) {
	if s.cfg.GoogleClientID == "" {
		// This should ideally be caught at startup, but as a safeguard:
		return nil, errors.New("google client ID is not configured in the application")
	}

	payload, err := idtoken.Validate(ctx, idTokenString, s.cfg.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("google ID token validation failed: %w", err)
	}

	info := &domain.GoogleUserInfo{
		Subject: payload.Subject,
	}
	if email, ok := payload.Claims["email"].(string); ok {
		info.Email = email
	}
	if givenName, ok := payload.Claims["given_name"].(string); ok {
		info.GivenName = givenName
	}
	if familyName, ok := payload.Claims["family_name"].(string); ok {
		info.FamilyName = familyName
	}
	if info.Email == "" {
		return nil, errors.New("google ID token did not include an email claim")
	}

	return info, nil
}
