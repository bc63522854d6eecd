package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/kubev2v/job-tracker/internal/config"
	"github.com/kubev2v/job-tracker/internal/store/model"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

type googleUserInfo struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleProvider runs the OAuth2 authorization code flow with PKCE against
// Google and maps the OpenID profile to a User. The subject is the user id.
type GoogleProvider struct {
	oauth       *oauth2.Config
	userInfoURL string
}

var _ OAuthProvider = (*GoogleProvider)(nil)

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return NewGoogleProviderWithEndpoint(clientID, clientSecret, redirectURL, endpoints.Google, googleUserInfoURL)
}

// NewGoogleProviderWithEndpoint lets tests point the flow at a fake server.
func NewGoogleProviderWithEndpoint(clientID, clientSecret, redirectURL string, endpoint oauth2.Endpoint, userInfoURL string) *GoogleProvider {
	return &GoogleProvider{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: userInfoURL,
	}
}

func (g *GoogleProvider) Name() string {
	return config.GoogleIdentity
}

func (g *GoogleProvider) AuthCodeURL(state, verifier string) string {
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.S256ChallengeOption(verifier))
}

func (g *GoogleProvider) Exchange(ctx context.Context, code, verifier string) (model.User, error) {
	token, err := g.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return model.User{}, fmt.Errorf("exchanging authorization code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return model.User{}, err
	}
	resp, err := g.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return model.User{}, fmt.Errorf("fetching user info: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return model.User{}, fmt.Errorf("fetching user info: %d %s", resp.StatusCode, body)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return model.User{}, fmt.Errorf("decoding user info: %w", err)
	}
	if info.Sub == "" {
		return model.User{}, errors.New("user info has no subject")
	}

	return model.User{
		ID:    info.Sub,
		Email: info.Email,
		Name:  info.Name,
		Image: info.Picture,
	}, nil
}
