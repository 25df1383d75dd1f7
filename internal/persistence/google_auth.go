package persistence

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// SpreadsheetsScope grants read/write access to spreadsheets.
const SpreadsheetsScope = "https://www.googleapis.com/auth/spreadsheets"

const jwtBearerGrant = "urn:ietf:params:oauth:grant-type:jwt-bearer"

// DefaultExchangeTimeout bounds one token exchange.
const DefaultExchangeTimeout = 10 * time.Second

// ServiceAccountTokenSource exchanges RS256-signed JWT assertions for OAuth
// access tokens on behalf of a Google service account. oauth2.TokenSource
// has no per-call context, so each exchange derives one from Context and
// is cut off after Timeout.
type ServiceAccountTokenSource struct {
	Email    string
	Key      *rsa.PrivateKey
	TokenURL string
	Scopes   []string
	Client   *http.Client
	Context  context.Context
	Timeout  time.Duration
	Now      func() time.Time
}

// NewServiceAccountTokenSource parses a PEM private key (PKCS#1 or PKCS#8)
// and returns a caching token source. Exchanges stop when ctx is done.
func NewServiceAccountTokenSource(ctx context.Context, email, privateKeyPEM, tokenURL string, client *http.Client, scopes ...string) (oauth2.TokenSource, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	src := &ServiceAccountTokenSource{
		Email:    email,
		Key:      key,
		TokenURL: tokenURL,
		Scopes:   scopes,
		Client:   client,
		Context:  ctx,
		Timeout:  DefaultExchangeTimeout,
	}
	return oauth2.ReuseTokenSource(nil, src), nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Token signs a fresh assertion and exchanges it at TokenURL.
func (s *ServiceAccountTokenSource) Token() (*oauth2.Token, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	issued := now()

	claims := jwt.MapClaims{
		"iss":   s.Email,
		"scope": strings.Join(s.Scopes, " "),
		"aud":   s.TokenURL,
		"iat":   issued.Unix(),
		"exp":   issued.Add(time.Hour).Unix(),
	}
	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.Key)
	if err != nil {
		return nil, fmt.Errorf("sign assertion: %w", err)
	}

	form := url.Values{
		"grant_type": {jwtBearerGrant},
		"assertion":  {assertion},
	}
	ctx := s.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token exchange: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("token exchange: empty access token")
	}
	tok := &oauth2.Token{AccessToken: tr.AccessToken, TokenType: tr.TokenType}
	if tr.ExpiresIn > 0 {
		tok.Expiry = issued.Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return tok, nil
}
