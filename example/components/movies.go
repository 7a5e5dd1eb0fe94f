package components

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/pthm/pwashell"
	"github.com/pthm/pwashell/lib/dom"
)

// MoviesTag is the element name of the movie browser.
const MoviesTag = "movies-api"

// Image sizes of the TMDB CDN.
const (
	cardImageSize   = "w300_and_h450_bestv2/"
	detailImageSize = "w600_and_h900_bestv2/"
)

var errNoMovieID = errors.New("movies: no movie id")

// MoviesAPI browses popular movies. The list and the movie pages are
// sub-routes of the page, rendered without a page load.
type MoviesAPI struct {
	*pwashell.Component
	client *http.Client
	tmdb   *TMDB
	base   string
}

// NewMoviesAPI creates the movie browser. client is used for API calls.
func NewMoviesAPI(client *http.Client) *MoviesAPI {
	return &MoviesAPI{
		Component: pwashell.New(MoviesTag),
		client:    client,
	}
}

func (c *MoviesAPI) Init(ctx context.Context) {
	page := c.Settings()
	var cfg TMDBConfig
	if err := page.Decode("tmdb", &cfg); err != nil {
		c.Logger().Warn("invalid tmdb settings", "error", err)
	}
	c.tmdb = NewTMDB(cfg, c.client)
	c.base = page.URL
	if c.base == "" {
		c.base = "/action/"
	}
	c.On(dom.EventClick, c.onClick)
}

func (c *MoviesAPI) Routes() pwashell.Routes {
	return pwashell.NewRoutes().
		Handle("/action/movie/", c.movie).
		Handle("/action/", c.popular)
}

func (c *MoviesAPI) Skeleton() pwashell.Skeleton {
	return pwashell.RepeatSkeleton(`<section class="cards"></section>`, `<div class="skeleton card"></div>`, 20)
}

func (c *MoviesAPI) popular(ctx context.Context, _ string) (templ.Component, error) {
	movies, err := c.tmdb.PopularMovies(ctx)
	if err != nil {
		return nil, err
	}
	cdn := c.tmdb.Config().CDNBaseURL + cardImageSize
	cards := make([]templ.Component, 0, len(movies))
	for _, m := range movies {
		cards = append(cards, pwashell.Tag("a", []string{
			"href", c.base + "movie/" + strconv.Itoa(m.ID),
			"title", m.Title,
			"class", "card fade-in",
			"style", "--img: url('" + cdn + m.BackdropPath + "')",
		}, pwashell.Tag("span", nil, pwashell.Text(m.Title))))
	}
	return pwashell.Tag("section", []string{"class", "cards"}, cards...), nil
}

func (c *MoviesAPI) movie(ctx context.Context, rest string) (templ.Component, error) {
	id := strings.Trim(rest, "/")
	if id == "" {
		return nil, errNoMovieID
	}
	m, err := c.tmdb.Movie(ctx, id)
	if err != nil {
		return nil, err
	}

	title := m.Title
	if released, err := time.Parse(time.DateOnly, m.ReleaseDate); err == nil {
		title += " (" + strconv.Itoa(released.Year()) + ")"
	}
	cdn := c.tmdb.Config().CDNBaseURL + detailImageSize
	return pwashell.Tag("section", []string{"class", "movie-card"},
		pwashell.Tag("div", []string{"class", "image", "style", "--img: url('" + cdn + m.BackdropPath + "')"}),
		pwashell.Tag("div", []string{"class", "detail"},
			pwashell.Tag("h2", nil, pwashell.Text(title)),
			pwashell.Tag("div", []string{"class", "description"}, pwashell.Text(m.Overview)),
		),
	), nil
}

// onClick names the clicked card for the view transition to the movie.
func (c *MoviesAPI) onClick(e *dom.Event) {
	el, ok := e.Target().(dom.Element)
	if !ok {
		return
	}
	card := el.Closest("a")
	if card == nil {
		return
	}
	if class, _ := card.Attribute("class"); !strings.Contains(class, "card") {
		return
	}
	card.SetAttribute("style", "view-transition-name: card")
	if spans := card.ElementsByTagName("span"); len(spans) > 0 {
		spans[0].SetAttribute("style", "view-transition-name: title")
	}
}
