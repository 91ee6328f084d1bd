package music

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tonality/internal/config"
	"tonality/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(tokenURL, apiURL string) *Client {
	return NewClient(&config.Config{
		ProviderTokenURL:     tokenURL,
		ProviderAPIURL:       apiURL,
		ProviderClientID:     "client-id",
		ProviderClientSecret: "client-secret",
	})
}

func TestClient_RefreshAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		id, secret, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "client-id", id)
		assert.Equal(t, "client-secret", secret)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "stored-refresh", r.PostForm.Get("refresh_token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"fresh","token_type":"Bearer","expires_in":3600,"refresh_token":"rotated"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, srv.URL)
	token, err := client.RefreshAccessToken(context.Background(), "stored-refresh")
	require.NoError(t, err)
	assert.Equal(t, "fresh", token.AccessToken)
	assert.Equal(t, 3600, token.ExpiresIn)
	assert.Equal(t, "rotated", token.RefreshToken)
}

func TestClient_RefreshAccessTokenUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, srv.URL)
	_, err := client.RefreshAccessToken(context.Background(), "revoked")
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UPSTREAM_ERROR", appErr.Code)
}

func TestClient_SearchTracks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Bearer access-token", r.Header.Get("Authorization"))
		assert.Equal(t, "midnight city", r.URL.Query().Get("q"))
		assert.Equal(t, "track", r.URL.Query().Get("type"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tracks":{"items":[
			{"id":"t1","name":"Midnight City","artists":[{"id":"a1","name":"M83"}],
			 "album":{"id":"al1","name":"Hurry Up","images":[{"url":"https://img/1","width":640,"height":640}]}}
		]}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, srv.URL)
	tracks, err := client.SearchTracks(context.Background(), "access-token", "midnight city", 5)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "t1", tracks[0].ID)
	assert.Equal(t, "M83", tracks[0].ArtistName())
	assert.Equal(t, "https://img/1", tracks[0].AlbumArtURL())
}

func TestClient_CurrentlyPlayingNothingPlaying(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, srv.URL)
	playing, err := client.CurrentlyPlaying(context.Background(), "access-token")
	require.NoError(t, err)
	assert.Nil(t, playing)
}

func TestClient_CurrentlyPlaying(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/player/currently-playing", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"is_playing":true,"progress_ms":4200,
			"item":{"id":"t1","name":"Song","artists":[{"name":"Artist"}],"album":{"images":[]}}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, srv.URL)
	playing, err := client.CurrentlyPlaying(context.Background(), "access-token")
	require.NoError(t, err)
	require.NotNil(t, playing)
	assert.True(t, playing.IsPlaying)
	require.NotNil(t, playing.Item)
	assert.Equal(t, "Song", playing.Item.Name)
	assert.Equal(t, "", playing.Item.AlbumArtURL())
}

func TestClient_RecentlyPlayed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/player/recently-played", r.URL.Path)
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[
			{"track":{"id":"t1","name":"One","artists":[{"name":"A"}],"album":{"images":[]}},"played_at":"2025-06-01T11:00:00Z"},
			{"track":{"id":"t2","name":"Two","artists":[{"name":"B"},{"name":"C"}],"album":{"images":[]}},"played_at":"2025-06-01T10:00:00Z"}
		]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, srv.URL)
	items, err := client.RecentlyPlayed(context.Background(), "access-token", 20)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "t2", items[1].Track.ID)
	assert.Equal(t, "B, C", items[1].Track.ArtistName())
}

func TestClient_UpstreamErrorOnCatalogCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, srv.URL)
	_, err := client.TopTracks(context.Background(), "access-token", 10)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UPSTREAM_ERROR", appErr.Code)
}

func TestClient_TimeoutConfigured(t *testing.T) {
	client := newTestClient("http://token", "http://api")
	assert.Equal(t, 10*time.Second, client.httpClient.Timeout)
}
