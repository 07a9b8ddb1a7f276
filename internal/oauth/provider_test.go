package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestRegistry_Get(t *testing.T) {
	google := NewGoogleProvider("id", "secret", "http://localhost:8080/login/callback/google")
	registry := NewRegistry(google)

	p, ok := registry.Get(ProviderGoogle)
	assert.True(t, ok)
	assert.Equal(t, ProviderGoogle, p.Name())

	_, ok = registry.Get("github")
	assert.False(t, ok)
}

func TestGoogleProvider_AuthCodeURL(t *testing.T) {
	p := NewGoogleProvider("client-id", "secret", "http://localhost:8080/login/callback/google")

	url := p.AuthCodeURL("state-nonce")
	assert.Contains(t, url, "accounts.google.com")
	assert.Contains(t, url, "client_id=client-id")
	assert.Contains(t, url, "state=state-nonce")
}

func TestLinkedInProvider_AuthCodeURL(t *testing.T) {
	p := NewLinkedInProvider("client-id", "secret", "http://localhost:8080/authorize/linkedin")

	url := p.AuthCodeURL("state-nonce")
	assert.Contains(t, url, "linkedin.com/oauth/v2/authorization")
	assert.Contains(t, url, "state=state-nonce")
}

func TestGoogleProvider_FetchProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"at","token_type":"bearer"}`))
		case "/userinfo":
			_, _ = w.Write([]byte(`{"sub":"sub-123","name":"Test User","email":"test@example.com"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     "id",
			ClientSecret: "secret",
			RedirectURL:  "http://localhost/cb",
			Endpoint: oauth2.Endpoint{
				AuthURL:  srv.URL + "/auth",
				TokenURL: srv.URL + "/token",
			},
		},
		userinfoURL: srv.URL + "/userinfo",
	}

	profile, err := p.FetchProfile(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, ProviderGoogle, profile.Provider)
	assert.Equal(t, "sub-123", profile.SocialID)
	assert.Equal(t, "Test User", profile.Name)
	assert.Equal(t, "test@example.com", profile.Email)
}

func TestLinkedInProvider_FetchProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"at","token_type":"bearer"}`))
		case "/me":
			_, _ = w.Write([]byte(`{"id":"li-42","localizedFirstName":"Ada"}`))
		case "/email":
			_, _ = w.Write([]byte(`{"elements":[{"handle~":{"emailAddress":"ada@example.com"}}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := &LinkedInProvider{
		config: &oauth2.Config{
			ClientID:     "id",
			ClientSecret: "secret",
			RedirectURL:  "http://localhost/cb",
			Endpoint: oauth2.Endpoint{
				AuthURL:  srv.URL + "/auth",
				TokenURL: srv.URL + "/token",
			},
		},
		profileURL: srv.URL + "/me",
		emailURL:   srv.URL + "/email",
	}

	profile, err := p.FetchProfile(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, ProviderLinkedIn, profile.Provider)
	assert.Equal(t, "li-42", profile.SocialID)
	assert.Equal(t, "Ada", profile.Name)
	assert.Equal(t, "ada@example.com", profile.Email)
}

func TestGoogleProvider_FetchProfile_ExchangeFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	p := &GoogleProvider{
		config: &oauth2.Config{
			ClientID: "id",
			Endpoint: oauth2.Endpoint{TokenURL: srv.URL + "/token"},
		},
		userinfoURL: srv.URL + "/userinfo",
	}

	_, err := p.FetchProfile(context.Background(), "bad-code")
	assert.Error(t, err)
}
