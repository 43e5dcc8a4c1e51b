package download

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	ghttp "github.com/grabarr/grabarr/pkg/http"
	"github.com/grabarr/grabarr/pkg/logger"
	"go.uber.org/zap"
)

type QbittorrentClient struct {
	http     ghttp.HTTPClient
	scheme   string
	host     string
	username string
	password string
	mutex    *sync.Mutex
	cookie   string
}

// NewQbittorrentClient creates a client for the qBittorrent web api
func NewQbittorrentClient(http ghttp.HTTPClient, scheme, host, username, password string, port int) Client {
	if port != 0 {
		host = fmt.Sprintf("%s:%d", host, port)
	}

	return &QbittorrentClient{
		http:     http,
		scheme:   scheme,
		host:     host,
		username: username,
		password: password,
		mutex:    new(sync.Mutex),
	}
}

// Add submits a magnet uri or torrent link, saving into the given directory
func (c *QbittorrentClient) Add(ctx context.Context, link string, downloadDir string) error {
	form := url.Values{}
	form.Set("urls", link)
	form.Set("savepath", downloadDir)

	_, err := c.do(ctx, "/api/v2/torrents/add", form)
	return err
}

// List returns transfers known to the client, optionally filtered by info hash
func (c *QbittorrentClient) List(ctx context.Context, hashes ...string) ([]Status, error) {
	form := url.Values{}
	if len(hashes) != 0 {
		form.Set("hashes", strings.Join(hashes, "|"))
	}

	b, err := c.do(ctx, "/api/v2/torrents/info", form)
	if err != nil {
		return nil, err
	}

	var statuses []Status
	err = json.Unmarshal(b, &statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to decode torrent list: %w", err)
	}

	return statuses, nil
}

func (c *QbittorrentClient) Pause(ctx context.Context, hashes ...string) error {
	return c.hashAction(ctx, "/api/v2/torrents/stop", hashes)
}

func (c *QbittorrentClient) Resume(ctx context.Context, hashes ...string) error {
	return c.hashAction(ctx, "/api/v2/torrents/start", hashes)
}

// Remove drops transfers from the client, optionally deleting their data
func (c *QbittorrentClient) Remove(ctx context.Context, deleteFiles bool, hashes ...string) error {
	if len(hashes) == 0 {
		return nil
	}

	form := url.Values{}
	form.Set("hashes", strings.Join(hashes, "|"))
	form.Set("deleteFiles", fmt.Sprintf("%t", deleteFiles))

	_, err := c.do(ctx, "/api/v2/torrents/delete", form)
	return err
}

func (c *QbittorrentClient) hashAction(ctx context.Context, path string, hashes []string) error {
	if len(hashes) == 0 {
		return nil
	}

	form := url.Values{}
	form.Set("hashes", strings.Join(hashes, "|"))

	_, err := c.do(ctx, path, form)
	return err
}

// login authenticates against the web api and stores the returned session cookie
func (c *QbittorrentClient) login(ctx context.Context) error {
	form := url.Values{}
	form.Set("username", c.username)
	form.Set("password", c.password)

	u := url.URL{
		Host:   c.host,
		Scheme: c.scheme,
		Path:   "/api/v2/auth/login",
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected login status code: %v", resp.Status)
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == "SID" {
			c.setCookie(cookie.Value)
			return nil
		}
	}

	return errors.New("login response missing session cookie")
}

func (c *QbittorrentClient) do(ctx context.Context, path string, form url.Values, retry ...bool) ([]byte, error) {
	if c.http == nil {
		return nil, errors.New("http client is nil")
	}

	if c.getCookie() == "" {
		if err := c.login(ctx); err != nil {
			return nil, err
		}
	}

	u := url.URL{
		Host:   c.host,
		Scheme: c.scheme,
		Path:   path,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "SID", Value: c.getCookie()})

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	// the session cookie expired, log in again
	case http.StatusForbidden:
		if len(retry) != 0 && retry[0] {
			return nil, errors.New("session is invalid after retry")
		}

		log := logger.FromCtx(ctx)
		log.Debug("session expired, logging in again", zap.String("path", path))

		c.setCookie("")
		if err := c.login(ctx); err != nil {
			return nil, err
		}

		return c.do(ctx, path, form, true)

	case http.StatusOK:
		return io.ReadAll(resp.Body)

	default:
		return nil, fmt.Errorf("unexpected status code: %v", resp.Status)
	}
}

func (c *QbittorrentClient) setCookie(cookie string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.cookie = cookie
}

func (c *QbittorrentClient) getCookie() string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.cookie
}
