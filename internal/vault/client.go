package vault

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/systmms/vaultenv/internal/logging"
)

// HTTPClient implements Client against the Vault HTTP API.
type HTTPClient struct {
	config Config
	token  string
	logger *logging.Logger
}

// NewHTTPClient creates a client bound to the configured address and
// namespace. No network traffic happens until Login.
func NewHTTPClient(config Config, logger *logging.Logger) *HTTPClient {
	return &HTTPClient{
		config: config,
		logger: logger,
	}
}

// Login exchanges the role-id/secret-id pair for a session token.
func (c *HTTPClient) Login(ctx context.Context) error {
	if c.config.RoleID == "" || c.config.SecretID == nil {
		return fmt.Errorf("approle credentials not configured")
	}

	secretID, err := c.config.SecretID.Open()
	if err != nil {
		return fmt.Errorf("failed to open secret-id buffer: %w", err)
	}
	defer secretID.Destroy()

	payload := map[string]interface{}{
		"role_id":   c.config.RoleID,
		"secret_id": secretID.String(),
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal login payload: %w", err)
	}

	url := strings.TrimSuffix(c.config.Address, "/") + "/v1/" + loginPath
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.Namespace != "" {
		req.Header.Set("X-Vault-Namespace", c.config.Namespace)
	}

	c.logger.Debug("Logging in to %s as role %s", c.config.Address, logging.Secret(c.config.RoleID))

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach vault: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("login failed with status %d: %s", resp.StatusCode, string(body))
	}

	var loginResp struct {
		Auth struct {
			ClientToken string `json:"client_token"`
		} `json:"auth"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return fmt.Errorf("failed to decode login response: %w", err)
	}
	if loginResp.Auth.ClientToken == "" {
		return fmt.Errorf("no session token received from vault")
	}

	c.token = loginResp.Auth.ClientToken
	return nil
}

// Authenticated reports whether Login yielded a session token.
func (c *HTTPClient) Authenticated() bool {
	return c.token != ""
}

// ReadKV fetches the latest version of a KV v2 secret. The version query
// parameter is omitted on purpose: the server then serves the most recent
// version.
func (c *HTTPClient) ReadKV(ctx context.Context, mount, path string) (*Secret, error) {
	if c.token == "" {
		return nil, fmt.Errorf("not authenticated")
	}

	url := strings.TrimSuffix(c.config.Address, "/") + "/v1/" +
		strings.Trim(mount, "/") + "/data/" + strings.Trim(path, "/")

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Vault-Token", c.token)
	if c.config.Namespace != "" {
		req.Header.Set("X-Vault-Namespace", c.config.Namespace)
	}

	c.logger.Debug("Reading secret at mount %s path %s", mount, logging.Secret(path))

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case 200:
		// fall through to decode
	case 403:
		return nil, ErrForbidden
	case 404:
		return nil, nil
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("vault returned status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Data *Secret `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return response.Data, nil
}

// getHTTPClient creates an HTTP client with the configured TLS settings.
func (c *HTTPClient) getHTTPClient() *http.Client {
	client := &http.Client{
		Timeout: DefaultTimeout,
	}

	if c.config.TLSSkip || c.config.CACert != "" {
		tlsConfig := &tls.Config{
			InsecureSkipVerify: c.config.TLSSkip,
		}
		if c.config.CACert != "" {
			if pem, err := os.ReadFile(c.config.CACert); err == nil {
				pool := x509.NewCertPool()
				if pool.AppendCertsFromPEM(pem) {
					tlsConfig.RootCAs = pool
				}
			} else {
				c.logger.Warn("Failed to read CA certificate %s: %v", c.config.CACert, err)
			}
		}
		client.Transport = &http.Transport{
			TLSClientConfig: tlsConfig,
		}
	}

	return client
}
