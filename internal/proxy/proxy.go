// Package proxy holds the optional HTTP proxy configuration. It is an explicit
// value passed to the HTTP client, never process-wide state.
package proxy

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/zalando/go-keyring"

	"tessdl/pkg/errors"
)

// KeyringService is the keyring service under which proxy passwords are stored
const KeyringService = "tessdl-proxy"

// Config is a proxy URL with optional credentials. A nil *Config means no proxy.
type Config struct {
	URL      *url.URL
	Username string
	Password string
}

// Parse builds a Config from a proxy address ("host:port" or a URL, possibly
// with user info) and an optional "user" or "user:password" that overrides it.
// A user without password is looked up in the OS keyring. An empty address
// returns nil.
func Parse(address, user string) (*Config, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		if user != "" {
			return nil, invalid(address, "--proxy-user requires --proxy")
		}
		return nil, nil
	}

	if !strings.Contains(address, "://") {
		address = "http://" + address
	}
	u, err := url.Parse(address)
	if err != nil {
		return nil, invalid(address, err.Error())
	}
	switch u.Scheme {
	case "http", "https", "socks5":
	default:
		return nil, invalid(address, fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if u.Hostname() == "" {
		return nil, invalid(address, "missing host")
	}

	cfg := &Config{URL: u}
	hasPassword := false
	if u.User != nil {
		cfg.Username = u.User.Username()
		cfg.Password, hasPassword = u.User.Password()
		u.User = nil
	}
	if user != "" {
		cfg.Username, cfg.Password, hasPassword = strings.Cut(user, ":")
	}

	if cfg.Username != "" && !hasPassword {
		stored, err := keyring.Get(KeyringService, keyringAccount(u, cfg.Username))
		switch {
		case err == nil:
			cfg.Password = stored
		case stderrors.Is(err, keyring.ErrNotFound):
		default:
			return nil, errors.Wrap(err, errors.ErrCodeCredentials, "Failed to read proxy password from keyring").
				WithContext("user", cfg.Username)
		}
	}
	return cfg, nil
}

func invalid(address, reason string) *errors.AppError {
	return errors.New(errors.ErrCodeProxyInvalid, fmt.Sprintf("Invalid proxy configuration %q: %s", address, reason)).
		WithSeverity(errors.SeverityCritical).
		WithSuggestions("Use --proxy host:port and optionally --proxy-user user[:password]")
}

func keyringAccount(u *url.URL, user string) string {
	return user + "@" + u.Host
}

// Enabled reports whether a proxy is configured
func (c *Config) Enabled() bool {
	return c != nil && c.URL != nil
}

// ProxyURL returns the proxy URL including credentials
func (c *Config) ProxyURL() *url.URL {
	if !c.Enabled() {
		return nil
	}
	u := *c.URL
	if c.Username != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		} else {
			u.User = url.User(c.Username)
		}
	}
	return &u
}

// Address returns the proxy URL without any credentials
func (c *Config) Address() string {
	if !c.Enabled() {
		return ""
	}
	u := *c.URL
	u.User = nil
	return u.String()
}

// String returns the proxy URL with the password masked
func (c *Config) String() string {
	if !c.Enabled() {
		return "direct"
	}
	return c.ProxyURL().Redacted()
}

// Transport returns an HTTP transport routed through the proxy. Without a
// proxy, environment proxy variables are ignored as well.
func (c *Config) Transport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	if c.Enabled() {
		t.Proxy = http.ProxyURL(c.ProxyURL())
	} else {
		t.Proxy = nil
	}
	return t
}

// Client returns the HTTP client every remote call should use. There is no
// timeout; cancellation comes from the request context.
func (c *Config) Client() *http.Client {
	return &http.Client{Transport: c.Transport()}
}

// Probe sends one HEAD request to target through client. Any transport error
// or an HTTP 407 makes the proxy configuration fatal.
func Probe(ctx context.Context, client *http.Client, cfg *Config, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return errors.ProxyError(cfg.String(), err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return errors.ProxyError(cfg.String(), err)
	}
	resp.Body.Close()

	if resp.StatusCode == http.StatusProxyAuthRequired {
		return errors.ProxyError(cfg.String(), fmt.Errorf("proxy authentication required"))
	}
	return nil
}

// SavePassword stores the proxy password in the OS keyring
func (c *Config) SavePassword() error {
	if !c.Enabled() || c.Username == "" || c.Password == "" {
		return nil
	}
	if err := keyring.Set(KeyringService, keyringAccount(c.URL, c.Username), c.Password); err != nil {
		return errors.Wrap(err, errors.ErrCodeCredentials, "Failed to store proxy password in keyring").
			WithContext("user", c.Username)
	}
	return nil
}
