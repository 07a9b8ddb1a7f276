package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"covid_tracker/internal/model"
)

const (
	ProviderGoogle   = "google"
	ProviderLinkedIn = "linkedin"
)

// Provider wraps one OAuth identity provider: it builds the consent URL
// and turns an authorization code into a normalized profile.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	FetchProfile(ctx context.Context, code string) (*model.SocialProfile, error)
}

// Registry holds the configured providers keyed by name.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates a Registry from the given providers
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider)}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// Get returns the provider registered under name
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create profile request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("profile endpoint returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode profile: %w", err)
	}
	return nil
}
