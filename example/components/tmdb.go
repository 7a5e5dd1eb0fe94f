package components

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// TMDBConfig is the "tmdb" section of a page's settings.
type TMDBConfig struct {
	EndPoint      string `yaml:"endPoint"`
	Authorization string `yaml:"authorization"`
	CDNBaseURL    string `yaml:"cdnBaseUrl"`
}

// Movie is a movie as the API returns it.
type Movie struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Overview     string `json:"overview"`
	BackdropPath string `json:"backdrop_path"`
	ReleaseDate  string `json:"release_date"`
}

var errNoEndpoint = errors.New("tmdb: no endpoint configured")

// TMDB is a client for The Movie Database API.
type TMDB struct {
	cfg    TMDBConfig
	client *http.Client
}

// NewTMDB creates a client. A nil client means http.DefaultClient.
func NewTMDB(cfg TMDBConfig, client *http.Client) *TMDB {
	if client == nil {
		client = http.DefaultClient
	}
	return &TMDB{cfg: cfg, client: client}
}

// Config returns the client configuration.
func (t *TMDB) Config() TMDBConfig { return t.cfg }

// PopularMovies returns the first page of movies by popularity.
func (t *TMDB) PopularMovies(ctx context.Context) ([]Movie, error) {
	var page struct {
		Results []Movie `json:"results"`
	}
	err := t.get(ctx, "discover/movie?include_video=false&language=en-US&page=1&sort_by=popularity.desc", &page)
	return page.Results, err
}

// Movie returns the details of one movie.
func (t *TMDB) Movie(ctx context.Context, id string) (Movie, error) {
	var m Movie
	err := t.get(ctx, "movie/"+url.PathEscape(id), &m)
	return m, err
}

func (t *TMDB) get(ctx context.Context, path string, out any) error {
	if t.cfg.EndPoint == "" {
		return errNoEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(t.cfg.EndPoint, "/")+"/"+path, nil)
	if err != nil {
		return fmt.Errorf("tmdb: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if t.cfg.Authorization != "" {
		req.Header.Set("Authorization", t.cfg.Authorization)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb: GET %s: %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("tmdb: decode %s: %w", path, err)
	}
	return nil
}
