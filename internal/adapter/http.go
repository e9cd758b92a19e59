package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/clepord34/pawres/internal/config"
	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/internal/utils"
	"github.com/clepord34/pawres/models"
)

const (
	ProviderGoogle = "google"

	defaultGoogleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
	defaultRequestTimeout    = 10 * time.Second
	defaultRetryCount        = 2
	defaultRetryWait         = 200 * time.Millisecond
)

type googleOAuthProvider struct {
	client      *utils.HTTPClient
	userInfoURL string

	logger *logger.Logger
}

// NewGoogleOAuthProvider constructs the Google implementation of
// [OAuthProvider]. An empty cfg.GoogleUserInfoURL selects Google's public
// userinfo endpoint.
//
// Returns an error if the userinfo URL cannot be parsed.
func NewGoogleOAuthProvider(cfg config.OAuth, logger *logger.Logger) (OAuthProvider, error) {
	userInfoURL := strings.TrimSpace(cfg.GoogleUserInfoURL)
	if userInfoURL == "" {
		userInfoURL = defaultGoogleUserInfoURL
	}
	if err := validateURL(userInfoURL); err != nil {
		return nil, fmt.Errorf("invalid google userinfo url: %w", err)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	client := utils.NewHTTPClient(
		utils.WithTimeout(timeout),
		utils.WithRetries(defaultRetryCount, defaultRetryWait),
	)

	return &googleOAuthProvider{client: client, userInfoURL: userInfoURL, logger: logger}, nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("address must include host and scheme")
	}
	return nil
}

func (g *googleOAuthProvider) Name() string {
	return ProviderGoogle
}

// FetchProfile implements [OAuthProvider]. It GETs the userinfo endpoint
// with accessToken as a bearer token.
func (g *googleOAuthProvider) FetchProfile(ctx context.Context, accessToken string) (models.OAuthProfile, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return models.OAuthProfile{}, fmt.Errorf("%w: empty access token", ErrUnauthorized)
	}

	var profile models.OAuthProfile
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetHeader("Accept", "application/json").
		SetResult(&profile).
		Get(g.userInfoURL)
	if err != nil {
		return models.OAuthProfile{}, fmt.Errorf("userinfo request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		logger.FromContext(ctx).Warn().
			Err(err).
			Str("func", "googleOAuthProvider.FetchProfile").
			Int("status", resp.StatusCode()).
			Msg("userinfo request failed")
		return models.OAuthProfile{}, err
	}

	profile.Email = strings.TrimSpace(profile.Email)
	if profile.Email == "" {
		return models.OAuthProfile{}, ErrMissingEmail
	}

	return profile, nil
}

// PictureReachable implements [OAuthProvider] with a HEAD request.
func (g *googleOAuthProvider) PictureReachable(ctx context.Context, pictureURL string) bool {
	if validateURL(pictureURL) != nil {
		return false
	}

	resp, err := g.client.R().SetContext(ctx).Head(pictureURL)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Str("func", "googleOAuthProvider.PictureReachable").Msg("picture not reachable")
		return false
	}
	return resp.IsSuccess()
}
