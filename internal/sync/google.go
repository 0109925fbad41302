package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pratofeito/backend/config"
)

const jwtBearerGrant = "urn:ietf:params:oauth:grant-type:jwt-bearer"

// GoogleAuth mints short-lived OAuth2 access tokens for a service
// account via the signed-JWT bearer grant. Tokens are minted fresh on
// every call, never cached.
type GoogleAuth struct {
	email    string
	keyFile  string
	tokenURL string
	client   *http.Client
}

func NewGoogleAuth(cfg *config.Config) (*GoogleAuth, error) {
	if cfg.GoogleServiceAccountEmail == "" || cfg.GooglePrivateKeyFile == "" {
		return nil, fmt.Errorf("GOOGLE_SA_EMAIL and GOOGLE_SA_KEY_FILE must be set")
	}
	return &GoogleAuth{
		email:    cfg.GoogleServiceAccountEmail,
		keyFile:  cfg.GooglePrivateKeyFile,
		tokenURL: cfg.GoogleTokenURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// MintAccessToken builds an RS256-signed JWT assertion over the service
// account key and exchanges it for an access token.
func (g *GoogleAuth) MintAccessToken(ctx context.Context, scopes ...string) (string, error) {
	keyPEM, err := os.ReadFile(g.keyFile)
	if err != nil {
		return "", fmt.Errorf("failed to read service account key: %w", err)
	}

	assertion, err := g.SignAssertion(keyPEM, scopes, time.Now())
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("grant_type", jwtBearerGrant)
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, "POST", g.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("token response carried no access_token")
	}

	return result.AccessToken, nil
}

// SignAssertion produces the RS256 JWT assertion for the given scopes.
// Split out so the signing recipe is testable without network.
func (g *GoogleAuth) SignAssertion(keyPEM []byte, scopes []string, now time.Time) (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(keyPEM)
	if err != nil {
		return "", fmt.Errorf("failed to parse service account key: %w", err)
	}

	claims := jwt.MapClaims{
		"iss":   g.email,
		"scope": strings.Join(scopes, " "),
		"aud":   g.tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(key)
}
