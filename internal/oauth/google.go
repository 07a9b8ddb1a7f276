package oauth

import (
	"context"
	"fmt"

	"covid_tracker/internal/model"

	"golang.org/x/oauth2"
)

// GoogleProvider authenticates users against Google's OpenID Connect
// endpoints.
type GoogleProvider struct {
	config      *oauth2.Config
	userinfoURL string
}

// NewGoogleProvider configures the Google provider. redirectURL must match
// the URI registered with the OAuth client.
func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://accounts.google.com/o/oauth2/auth",
				TokenURL: "https://oauth2.googleapis.com/token",
			},
		},
		userinfoURL: "https://www.googleapis.com/oauth2/v3/userinfo",
	}
}

func (p *GoogleProvider) Name() string { return ProviderGoogle }

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// FetchProfile exchanges the code and reads the OIDC userinfo endpoint
func (p *GoogleProvider) FetchProfile(ctx context.Context, code string) (*model.SocialProfile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	var info struct {
		Sub   string `json:"sub"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := getJSON(ctx, p.config.Client(ctx, token), p.userinfoURL, &info); err != nil {
		return nil, err
	}
	if info.Sub == "" {
		return nil, fmt.Errorf("google userinfo response missing sub")
	}

	return &model.SocialProfile{
		Provider: ProviderGoogle,
		SocialID: info.Sub,
		Name:     info.Name,
		Email:    info.Email,
	}, nil
}
