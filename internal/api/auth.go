package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fMoyano90/universonomada-web/internal/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         models.User `json:"user"`
}

// Login exchanges credentials for a token pair and the current user.
// The role check (admin only) belongs to the caller.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Session, error) {
	raw, err := c.doJSON(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, "")
	if err != nil {
		return nil, err
	}

	var tokens tokenResponse
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return nil, fmt.Errorf("decoding login response: %w", err)
	}
	if tokens.AccessToken == "" {
		return nil, fmt.Errorf("login response missing access token")
	}

	return &models.Session{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         tokens.User,
	}, nil
}

// Refresh trades the refresh token for a new token pair. There is no
// automatic refresh scheduling; callers invoke this explicitly.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	payload := map[string]string{"refreshToken": refreshToken}
	raw, err := c.doJSON(ctx, http.MethodPost, "/auth/refresh", payload, "")
	if err != nil {
		return nil, err
	}

	var tokens tokenResponse
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return nil, fmt.Errorf("decoding refresh response: %w", err)
	}
	if tokens.AccessToken == "" {
		return nil, fmt.Errorf("refresh response missing access token")
	}

	return &models.Session{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         tokens.User,
	}, nil
}
