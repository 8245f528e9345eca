package ebay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/ebay-lister/pkg/logger"
)

// ErrNoAuthorizationCode is returned when consent completes without a code.
var ErrNoAuthorizationCode = errors.New("no authorization code received")

// StaticConsent returns a pre-supplied authorization code. Used for headless
// runs (auth login --code) and tests.
type StaticConsent struct {
	Code string
}

// AuthorizationCode implements ConsentProvider.
func (s StaticConsent) AuthorizationCode(_ context.Context, _ string) (string, error) {
	if s.Code == "" {
		return "", ErrNoAuthorizationCode
	}
	return s.Code, nil
}

// PromptConsent prints the authorization URL and reads the redirect URL (or
// a bare code) pasted back at the terminal.
type PromptConsent struct {
	In  io.Reader
	Out io.Writer
}

// AuthorizationCode implements ConsentProvider.
func (p PromptConsent) AuthorizationCode(_ context.Context, authURL string) (string, error) {
	fmt.Fprintf(p.Out, "Visit the following URL to authorize this application:\n\n  %s\n\n", authURL)
	fmt.Fprint(p.Out, "After authorizing, paste the full redirect URL (or just the code value) here:\n> ")

	scanner := bufio.NewScanner(p.In)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("reading authorization response: %w", err)
		}
		return "", ErrNoAuthorizationCode
	}

	return ExtractCode(strings.TrimSpace(scanner.Text()))
}

// ExtractCode pulls the authorization code out of a pasted redirect URL.
// Input without a query string is treated as the bare code itself.
func ExtractCode(input string) (string, error) {
	if input == "" {
		return "", ErrNoAuthorizationCode
	}
	if !strings.Contains(input, "code=") {
		return input, nil
	}

	_, query, found := strings.Cut(input, "?")
	if !found {
		query = input
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return "", fmt.Errorf("parsing redirect URL: %w", err)
	}
	code := values.Get("code")
	if code == "" {
		return "", ErrNoAuthorizationCode
	}
	return code, nil
}

// CallbackConsent captures the authorization code by running a local HTTP
// listener that the OAuth2 redirect lands on. Requires the registered
// redirect to resolve to this machine (direct, or through a tunnel that is
// set up outside this program).
type CallbackConsent struct {
	addr    string
	timeout time.Duration
	out     io.Writer
	log     *slog.Logger
}

// CallbackOption configures CallbackConsent.
type CallbackOption func(*CallbackConsent)

// WithCallbackTimeout bounds the wait for the redirect (default 5 minutes).
func WithCallbackTimeout(d time.Duration) CallbackOption {
	return func(c *CallbackConsent) {
		c.timeout = d
	}
}

// WithCallbackOutput sets where the authorization URL is printed.
func WithCallbackOutput(w io.Writer) CallbackOption {
	return func(c *CallbackConsent) {
		c.out = w
	}
}

// WithCallbackLogger sets the logger.
func WithCallbackLogger(l *slog.Logger) CallbackOption {
	return func(c *CallbackConsent) {
		c.log = l
	}
}

// NewCallbackConsent creates a CallbackConsent listening on addr.
func NewCallbackConsent(addr string, opts ...CallbackOption) *CallbackConsent {
	c := &CallbackConsent{
		addr:    addr,
		timeout: 5 * time.Minute,
		out:     io.Discard,
		log:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

const consentPage = `<!DOCTYPE html>
<html><head><title>ebay-lister</title></head>
<body><h3>Authorization received</h3>
<p>You can close this window and return to the terminal.</p></body></html>`

type callbackResult struct {
	code string
	err  error
}

// AuthorizationCode implements ConsentProvider. It serves the redirect
// endpoint until a code (or an explicit error) arrives, the timeout lapses,
// or ctx is canceled.
func (c *CallbackConsent) AuthorizationCode(ctx context.Context, authURL string) (string, error) {
	results := make(chan callbackResult, 1)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Any("/*", func(ec echo.Context) error {
		if remoteErr := ec.QueryParam("error"); remoteErr != "" {
			desc := ec.QueryParam("error_description")
			select {
			case results <- callbackResult{err: fmt.Errorf("authorization denied: %s %s", remoteErr, desc)}:
			default:
			}
			return ec.String(http.StatusBadRequest, "Authorization failed. Check the terminal.")
		}

		code := ec.QueryParam("code")
		if code == "" {
			// Favicon probes and the like; keep waiting.
			return ec.NoContent(http.StatusNotFound)
		}

		select {
		case results <- callbackResult{code: code}:
		default:
		}
		return ec.HTML(http.StatusOK, consentPage)
	})

	ln, err := net.Listen("tcp", c.addr)
	if err != nil {
		return "", fmt.Errorf("starting callback listener: %w", err)
	}
	e.Listener = ln

	go func() {
		if serveErr := e.Start(""); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			select {
			case results <- callbackResult{err: fmt.Errorf("callback listener: %w", serveErr)}:
			default:
			}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	c.log.Info("waiting for OAuth2 redirect", "addr", ln.Addr().String(), "timeout", c.timeout)
	fmt.Fprintf(c.out, "Visit the following URL to authorize this application:\n\n  %s\n\nWaiting for the redirect on %s ...\n", authURL, ln.Addr().String())

	select {
	case res := <-results:
		return res.code, res.err
	case <-time.After(c.timeout):
		return "", fmt.Errorf("timed out after %s: %w", c.timeout, ErrNoAuthorizationCode)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
