package contentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/arthur-debert/mtcollect/pkg/errors"
	"github.com/arthur-debert/mtcollect/pkg/logging"
	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the public ContentDB instance.
	DefaultBaseURL = "https://content.minetest.net"

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "mtcollect/dev"

	// maxJSONResponseBytes bounds API response bodies (10 MB).
	maxJSONResponseBytes = 10 << 20

	// maxDownloadBytes bounds release archives (2 GB).
	maxDownloadBytes = 2 << 30
)

// Package types that can be installed into the collection.
const (
	TypeMod         = "mod"
	TypeGame        = "game"
	TypeTexturePack = "txp"
)

type (
	// Package is the subset of the ContentDB package record the tool uses.
	Package struct {
		Author           string `json:"author"`
		Name             string `json:"name"`
		Title            string `json:"title"`
		Type             string `json:"type"`
		ShortDescription string `json:"short_description"`
		Release          int    `json:"release"`
	}

	// Release is one published release of a package.
	Release struct {
		ID          int    `json:"id"`
		Title       string `json:"title"`
		ReleaseDate string `json:"release_date"`
		URL         string `json:"url"`
	}

	// Client talks to the ContentDB HTTP API.
	Client struct {
		httpClient *http.Client
		baseURL    string
		userAgent  string
		logger     zerolog.Logger
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)
)

// WithHTTPClient sets a custom HTTP client, for timeouts or tests.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithBaseURL overrides the ContentDB base URL.
func WithBaseURL(base string) ClientOption {
	return func(cl *Client) {
		if base != "" {
			cl.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(cl *Client) {
		if ua != "" {
			cl.userAgent = ua
		}
	}
}

// NewClient creates a Client for the public instance unless overridden.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		logger:     logging.GetLogger("origin.contentdb"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API base URL in use.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetPackage fetches the package record for author/name.
func (c *Client) GetPackage(ctx context.Context, author, name string) (*Package, error) {
	var pkg Package
	if err := c.getJSON(ctx, c.packagePath(author, name), &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// ListReleases fetches the releases of author/name, newest first.
func (c *Client) ListReleases(ctx context.Context, author, name string) ([]Release, error) {
	var releases []Release
	if err := c.getJSON(ctx, c.packagePath(author, name)+"releases/", &releases); err != nil {
		return nil, err
	}
	return releases, nil
}

// LatestRelease returns the release with the highest id.
func (c *Client) LatestRelease(ctx context.Context, author, name string) (*Release, error) {
	releases, err := c.ListReleases(ctx, author, name)
	if err != nil {
		return nil, err
	}
	if len(releases) == 0 {
		return nil, errors.Newf(errors.ErrOriginNotFound, "package %s/%s has no releases", author, name).
			WithDetail("package", author+"/"+name)
	}

	latest := releases[0]
	for _, r := range releases[1:] {
		if r.ID > latest.ID {
			latest = r
		}
	}
	return &latest, nil
}

// Download streams the archive of release into w.
func (c *Client) Download(ctx context.Context, release *Release, w io.Writer) error {
	target, err := c.resolve(release.URL)
	if err != nil {
		return errors.Wrapf(err, errors.ErrOriginNotFound, "invalid download url %q", release.URL)
	}

	resp, err := c.do(ctx, target)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, io.LimitReader(resp.Body, maxDownloadBytes)); err != nil {
		return errors.Wrapf(err, errors.ErrOriginNetwork, "downloading %s", target)
	}
	return nil
}

func (c *Client) packagePath(author, name string) string {
	return fmt.Sprintf("/api/packages/%s/%s/", url.PathEscape(author), url.PathEscape(name))
}

func (c *Client) resolve(ref string) (string, error) {
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return "", err
	}
	rel, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(rel).String(), nil
}

func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	resp, err := c.do(ctx, c.baseURL+path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONResponseBytes)).Decode(v); err != nil {
		return errors.Wrapf(err, errors.ErrOriginNetwork, "invalid response from %s", path)
	}
	return nil
}

// do performs a GET and maps transport failures and non-200 statuses to
// origin errors. The caller closes the body of a successful response.
func (c *Client) do(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "building request for %s", target)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("url", target).Msg("ContentDB request")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrOriginNetwork, "request to %s failed", target).
			WithDetail("url", target)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return resp, nil
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, errors.Newf(errors.ErrOriginNotFound, "%s not found", target).
			WithDetail("url", target)
	default:
		resp.Body.Close()
		return nil, errors.Newf(errors.ErrOriginNetwork, "%s returned status %d", target, resp.StatusCode).
			WithDetail("url", target).
			WithDetail("status", resp.StatusCode)
	}
}
