package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	tlerrors "github.com/tracklog/api/pkg/errors"
)

const (
	DefaultBaseURL = "https://api.igdb.com/v4"
	twitchTokenURL = "https://id.twitch.tv/oauth2/token"
)

// Game is one catalog search hit.
type Game struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Cover struct {
		URL string `json:"url"`
	} `json:"cover"`
}

// Client talks to the IGDB v4 API. IGDB authenticates with Twitch app
// access tokens, so the HTTP client comes from an oauth2 client-credentials
// config and refreshes itself.
type Client struct {
	BaseURL    string
	ClientID   string
	HTTPClient *http.Client
}

func NewClient(ctx context.Context, clientID, clientSecret string) *Client {
	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     twitchTokenURL,
	}

	c := conf.Client(ctx)
	c.Timeout = 15 * time.Second

	return &Client{
		BaseURL:    DefaultBaseURL,
		ClientID:   clientID,
		HTTPClient: c,
	}
}

// Search queries the catalog by free text. Failures wrap
// ErrCatalogUnavailable; callers surface them and move on.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Game, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	body := fmt.Sprintf("search %q; fields name,cover.url; limit %d;", query, limit)

	var games []Game
	if err := c.post(ctx, "/games", body, &games); err != nil {
		return nil, err
	}

	return games, nil
}

// PlatformsForGame returns the platform names the catalog lists for a game.
func (c *Client) PlatformsForGame(ctx context.Context, igdbID int64) ([]string, error) {
	body := fmt.Sprintf("fields platforms.name; where id = %d;", igdbID)

	var results []struct {
		ID        int64 `json:"id"`
		Platforms []struct {
			Name string `json:"name"`
		} `json:"platforms"`
	}
	if err := c.post(ctx, "/games", body, &results); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(results[0].Platforms))
	for _, p := range results[0].Platforms {
		names = append(names, p.Name)
	}

	return names, nil
}

func (c *Client) post(ctx context.Context, path, body string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, strings.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Client-ID", c.ClientID)
	req.Header.Set("Accept", "application/json")

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", tlerrors.ErrCatalogUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		io.Copy(io.Discard, res.Body)
		return fmt.Errorf("%w: status %d", tlerrors.ErrCatalogUnavailable, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", tlerrors.ErrCatalogUnavailable, err)
	}

	return nil
}
