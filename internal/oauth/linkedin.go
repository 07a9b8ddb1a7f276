package oauth

import (
	"context"
	"fmt"

	"covid_tracker/internal/model"

	"golang.org/x/oauth2"
)

// LinkedInProvider authenticates users against LinkedIn. The profile and
// email address live on two separate endpoints.
type LinkedInProvider struct {
	config     *oauth2.Config
	profileURL string
	emailURL   string
}

// NewLinkedInProvider configures the LinkedIn provider
func NewLinkedInProvider(clientID, clientSecret, redirectURL string) *LinkedInProvider {
	return &LinkedInProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"r_liteprofile", "r_emailaddress"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://www.linkedin.com/oauth/v2/authorization",
				TokenURL: "https://www.linkedin.com/oauth/v2/accessToken",
			},
		},
		profileURL: "https://api.linkedin.com/v2/me",
		emailURL:   "https://api.linkedin.com/v2/emailAddress?q=members&projection=(elements*(handle~))",
	}
}

func (p *LinkedInProvider) Name() string { return ProviderLinkedIn }

func (p *LinkedInProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// FetchProfile exchanges the code, then reads the profile and email
// endpoints. A missing email is tolerated; a missing profile id is not.
func (p *LinkedInProvider) FetchProfile(ctx context.Context, code string) (*model.SocialProfile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	client := p.config.Client(ctx, token)

	var profile struct {
		ID                 string `json:"id"`
		LocalizedFirstName string `json:"localizedFirstName"`
	}
	if err := getJSON(ctx, client, p.profileURL, &profile); err != nil {
		return nil, err
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("linkedin profile response missing id")
	}

	var emailResp struct {
		Elements []struct {
			Handle struct {
				EmailAddress string `json:"emailAddress"`
			} `json:"handle~"`
		} `json:"elements"`
	}
	email := ""
	if err := getJSON(ctx, client, p.emailURL, &emailResp); err == nil && len(emailResp.Elements) > 0 {
		email = emailResp.Elements[0].Handle.EmailAddress
	}

	return &model.SocialProfile{
		Provider: ProviderLinkedIn,
		SocialID: profile.ID,
		Name:     profile.LocalizedFirstName,
		Email:    email,
	}, nil
}
