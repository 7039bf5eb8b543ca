// Package googleauth verifies Google ID tokens against the tokeninfo
// endpoint. The verifier is an external collaborator: a provider outage and a
// malformed token both surface as ErrInvalidToken.
package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrInvalidToken is returned when the provider rejects the token or the
// response carries no usable identity.
var ErrInvalidToken = fmt.Errorf("invalid Google token")

// UserInfo is the identity the provider asserts for a verified token.
type UserInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Verifier validates an ID token and returns the identity it asserts.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*UserInfo, error)
}

// Client verifies tokens over HTTPS against Google's tokeninfo endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient returns a Client pointed at the production endpoint.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://oauth2.googleapis.com",
	}
}

// Verify calls the tokeninfo endpoint and decodes the asserted identity.
func (c *Client) Verify(ctx context.Context, idToken string) (*UserInfo, error) {
	endpoint := fmt.Sprintf("%s/tokeninfo?id_token=%s", c.baseURL, url.QueryEscape(idToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create tokeninfo request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ErrInvalidToken
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidToken
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, ErrInvalidToken
	}
	if info.Email == "" {
		return nil, ErrInvalidToken
	}

	return &info, nil
}
