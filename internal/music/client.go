// Package music talks to the external streaming provider: OAuth token
// refresh, catalog search, and per-user playback endpoints.
package music

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tonality/internal/config"
	"tonality/internal/models"
	"tonality/internal/observability"
)

const requestTimeout = 10 * time.Second

// Client is a thin HTTP client for the provider's token and Web API
// endpoints. All catalog and playback calls take the caller's access token;
// the client holds only the app credentials used for the refresh grant.
type Client struct {
	httpClient   *http.Client
	tokenURL     string
	apiURL       string
	clientID     string
	clientSecret string
}

// NewClient creates a provider client from application configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: requestTimeout},
		tokenURL:     cfg.ProviderTokenURL,
		apiURL:       strings.TrimRight(cfg.ProviderAPIURL, "/"),
		clientID:     cfg.ProviderClientID,
		clientSecret: cfg.ProviderClientSecret,
	}
}

// TokenResponse is the provider's token endpoint envelope. RefreshToken is
// only set when the provider rotates the stored credential.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// Artist is a provider artist reference.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Image is a provider album art reference.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Album is a provider album reference.
type Album struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Images []Image `json:"images"`
}

// Track is a provider track.
type Track struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Artists []Artist `json:"artists"`
	Album   Album    `json:"album"`
}

// ArtistName joins the track's artist names the way the provider displays them.
func (t *Track) ArtistName() string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// AlbumArtURL returns the first album image, or empty when the provider
// sent none.
func (t *Track) AlbumArtURL() string {
	if len(t.Album.Images) == 0 {
		return ""
	}
	return t.Album.Images[0].URL
}

// NowPlaying is the provider's currently-playing envelope.
type NowPlaying struct {
	IsPlaying  bool   `json:"is_playing"`
	ProgressMs int    `json:"progress_ms"`
	Item       *Track `json:"item"`
}

// PlayHistoryItem is one entry of the recently-played list.
type PlayHistoryItem struct {
	Track    Track  `json:"track"`
	PlayedAt string `json:"played_at"`
}

type searchEnvelope struct {
	Tracks struct {
		Items []Track `json:"items"`
	} `json:"tracks"`
}

type topTracksEnvelope struct {
	Items []Track `json:"items"`
}

type recentlyPlayedEnvelope struct {
	Items []PlayHistoryItem `json:"items"`
}

// RefreshAccessToken exchanges a refresh token for a fresh access token
// using the form-encoded refresh grant with basic app credentials.
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.ProviderRequests.WithLabelValues("token", "error").Inc()
		return nil, models.NewUpstreamError("Music provider token refresh failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		observability.ProviderRequests.WithLabelValues("token", "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, models.NewUpstreamError("Music provider token refresh failed",
			fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, string(body)))
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		observability.ProviderRequests.WithLabelValues("token", "error").Inc()
		return nil, models.NewUpstreamError("Music provider token refresh failed", err)
	}
	observability.ProviderRequests.WithLabelValues("token", "success").Inc()
	return &token, nil
}

// SearchTracks queries the provider catalog for tracks matching query.
func (c *Client) SearchTracks(ctx context.Context, accessToken, query string, limit int) ([]Track, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("type", "track")
	q.Set("limit", strconv.Itoa(limit))

	var envelope searchEnvelope
	if err := c.get(ctx, accessToken, "/search?"+q.Encode(), "search", &envelope); err != nil {
		return nil, err
	}
	return envelope.Tracks.Items, nil
}

// CurrentlyPlaying fetches the user's playback state. A 204 from the
// provider means nothing is playing and yields (nil, nil).
func (c *Client) CurrentlyPlaying(ctx context.Context, accessToken string) (*NowPlaying, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/me/player/currently-playing", nil)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.ProviderRequests.WithLabelValues("currently_playing", "error").Inc()
		return nil, models.NewUpstreamError("Music provider request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		observability.ProviderRequests.WithLabelValues("currently_playing", "success").Inc()
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		observability.ProviderRequests.WithLabelValues("currently_playing", "error").Inc()
		return nil, models.NewUpstreamError("Music provider request failed",
			fmt.Errorf("currently-playing returned %d", resp.StatusCode))
	}

	var playing NowPlaying
	if err := json.NewDecoder(resp.Body).Decode(&playing); err != nil {
		observability.ProviderRequests.WithLabelValues("currently_playing", "error").Inc()
		return nil, models.NewUpstreamError("Music provider request failed", err)
	}
	observability.ProviderRequests.WithLabelValues("currently_playing", "success").Inc()
	return &playing, nil
}

// TopTracks fetches the user's top tracks.
func (c *Client) TopTracks(ctx context.Context, accessToken string, limit int) ([]Track, error) {
	var envelope topTracksEnvelope
	path := "/me/top/tracks?limit=" + strconv.Itoa(limit)
	if err := c.get(ctx, accessToken, path, "top_tracks", &envelope); err != nil {
		return nil, err
	}
	return envelope.Items, nil
}

// RecentlyPlayed fetches the user's play history, newest first.
func (c *Client) RecentlyPlayed(ctx context.Context, accessToken string, limit int) ([]PlayHistoryItem, error) {
	var envelope recentlyPlayedEnvelope
	path := "/me/player/recently-played?limit=" + strconv.Itoa(limit)
	if err := c.get(ctx, accessToken, path, "recently_played", &envelope); err != nil {
		return nil, err
	}
	return envelope.Items, nil
}

func (c *Client) get(ctx context.Context, accessToken, path, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, nil)
	if err != nil {
		return models.NewInternalError(err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.ProviderRequests.WithLabelValues(endpoint, "error").Inc()
		return models.NewUpstreamError("Music provider request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		observability.ProviderRequests.WithLabelValues(endpoint, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.NewUpstreamError("Music provider request failed",
			fmt.Errorf("%s returned %d: %s", endpoint, resp.StatusCode, string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		observability.ProviderRequests.WithLabelValues(endpoint, "error").Inc()
		return models.NewUpstreamError("Music provider request failed", err)
	}
	observability.ProviderRequests.WithLabelValues(endpoint, "success").Inc()
	return nil
}
