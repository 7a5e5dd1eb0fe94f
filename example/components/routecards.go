package components

import (
	"context"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/pthm/pwashell"
	"github.com/pthm/pwashell/lib/dom"
)

// RouteCardsTag is the element name of the home screen cards.
const RouteCardsTag = "route-cards"

// CardDelay leaves time for the ripple before the page loads.
const CardDelay = 50 * time.Millisecond

// RouteCards links to every page whose settings declare a card.
type RouteCards struct {
	*pwashell.Component
}

// NewRouteCards creates the cards.
func NewRouteCards() *RouteCards {
	return &RouteCards{Component: pwashell.New(RouteCardsTag)}
}

func (c *RouteCards) Init(ctx context.Context) {
	c.On(dom.EventClick, c.onClick)
}

func (c *RouteCards) Render(ctx context.Context) templ.Component {
	app := c.App()
	cards := app.Settings().Cards()
	links := make([]templ.Component, 0, len(cards))
	for _, card := range cards {
		links = append(links, pwashell.Tag("a",
			[]string{"class", "fade-in", "data-page", card.ID, "href", card.Href},
			pwashell.Text(app.Localize(card.Title))))
	}
	return pwashell.Tag("nav", []string{"class", "cards"}, links...)
}

func (c *RouteCards) onClick(e *dom.Event) {
	el, ok := e.Target().(dom.Element)
	if !ok {
		return
	}
	if _, ok := el.Attribute("data-page"); !ok {
		return
	}
	href, _ := el.Attribute("href")
	e.PreventDefault()

	class, _ := el.Attribute("class")
	if !strings.Contains(class, "ripple") {
		el.SetAttribute("class", strings.TrimSpace(class+" ripple"))
	}

	win := c.App().Window()
	c.App().Queue().Enqueue(func() {
		dest, err := win.Location().Parse(href)
		if err != nil {
			c.Logger().Warn("ignoring malformed card link", "href", href, "error", err)
			return
		}
		win.Assign(dest)
	}, CardDelay)
}
