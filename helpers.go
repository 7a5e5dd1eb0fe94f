package pwashell

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// RenderString renders a templ component to a string.
//
// Render output normally goes straight into a render root; this is for
// tests and for markup composed by hand:
//
//	html, err := pwashell.RenderString(ctx, Toast(n))
func RenderString(ctx context.Context, comp templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := comp.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Raw renders trusted markup as is.
func Raw(markup string) templ.Component {
	return templ.Raw(markup)
}

// Text renders s with HTML escaping.
func Text(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(s))
		return err
	})
}

// Textf is Text with fmt formatting.
func Textf(format string, args ...any) templ.Component {
	return Text(fmt.Sprintf(format, args...))
}

// Join renders components one after another.
func Join(comps ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, c := range comps {
			if c == nil {
				continue
			}
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// Tag wraps children in an element. Attribute values are escaped; attrs
// are rendered in the order given, as name/value pairs.
//
//	pwashell.Tag("li", []string{"class", "done"}, pwashell.Text(item.Title))
func Tag(name string, attrs []string, children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<"+name); err != nil {
			return err
		}
		for i := 0; i+1 < len(attrs); i += 2 {
			if _, err := io.WriteString(w, " "+attrs[i]+`="`+templ.EscapeString(attrs[i+1])+`"`); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, ">"); err != nil {
			return err
		}
		if err := Join(children...).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</"+name+">")
		return err
	})
}
