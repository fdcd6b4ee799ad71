// Package stream issues short-lived credentials for the hosted chat/video
// provider. A token is an HMAC-SHA256 JWT whose user_id claim binds a local
// identity to the provider's identity space; nothing in this codebase
// inspects the token after issuing it.
package stream

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenTTL is how long an issued chat token stays valid.
const TokenTTL = time.Hour

// Client signs tokens for the hosted chat provider.
type Client struct {
	apiKey    string
	apiSecret string
}

// New creates a token-issuing client. Both credentials are required.
func New(apiKey, apiSecret string) (*Client, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("stream: api key and secret are required")
	}
	return &Client{apiKey: apiKey, apiSecret: apiSecret}, nil
}

// APIKey returns the public API key the client hands to the provider's SDK.
func (c *Client) APIKey() string {
	return c.apiKey
}

// CreateToken signs a token for the given local user id.
func (c *Client) CreateToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(TokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(c.apiSecret))
	if err != nil {
		return "", fmt.Errorf("stream: signing token: %w", err)
	}
	return signed, nil
}
