// Package i18n localizes rendered text at runtime.
//
// Translations are YAML documents keyed by language, each mapping source
// strings to their translation:
//
//	nl:
//	  Action: Actie
//	  Settings: Instellingen
//
// Strings without a translation in the active language render unchanged.
package i18n

import (
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// StorageKey is the storage key holding the preferred language.
const StorageKey = "language"

// LocaleBase is the URL prefix of localized page sections.
const LocaleBase = "/assets/locale/"

// Localizer translates strings into the active language.
type Localizer struct {
	fallback language.Tag
	tags     []language.Tag
	matcher  language.Matcher
	cat      *catalog.Builder
	active   language.Tag
	printer  *message.Printer
}

// New creates a localizer whose source strings are in fallback. Catalogs
// are read from docs in order; later translations override earlier ones.
func New(fallback language.Tag, docs ...io.Reader) (*Localizer, error) {
	cat := catalog.NewBuilder(catalog.Fallback(fallback))
	seen := map[language.Tag]bool{fallback: true}
	tags := []language.Tag{fallback}

	for i, r := range docs {
		var doc map[string]map[string]string
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("i18n: decode catalog %d: %w", i, err)
		}
		langs := make([]string, 0, len(doc))
		for l := range doc {
			langs = append(langs, l)
		}
		sort.Strings(langs)

		for _, l := range langs {
			tag, err := language.Parse(l)
			if err != nil {
				return nil, fmt.Errorf("i18n: catalog %d: %w", i, err)
			}
			for key, msg := range doc[l] {
				if err := cat.SetString(tag, key, escape(msg)); err != nil {
					return nil, fmt.Errorf("i18n: %s %q: %w", tag, key, err)
				}
			}
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}

	l := &Localizer{
		fallback: fallback,
		tags:     tags,
		matcher:  language.NewMatcher(tags),
		cat:      cat,
	}
	l.use(fallback)
	return l, nil
}

// Parse is New for in-memory catalogs.
func Parse(fallback language.Tag, docs ...string) (*Localizer, error) {
	readers := make([]io.Reader, len(docs))
	for i, d := range docs {
		readers[i] = strings.NewReader(d)
	}
	return New(fallback, readers...)
}

// SetLanguage activates the supported language closest to the given
// preferences (BCP 47 tags or Accept-Language values) and returns it.
func (l *Localizer) SetLanguage(prefs ...string) language.Tag {
	var want []language.Tag
	for _, p := range prefs {
		tags, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		want = append(want, tags...)
	}

	tag := l.fallback
	if len(want) > 0 {
		_, i, conf := l.matcher.Match(want...)
		if conf != language.No {
			tag = l.tags[i]
		}
	}
	l.use(tag)
	return tag
}

// Language returns the active language.
func (l *Localizer) Language() language.Tag { return l.active }

// Languages returns the supported languages, fallback first.
func (l *Localizer) Languages() []language.Tag {
	return append([]language.Tag(nil), l.tags...)
}

// Localize translates s into the active language.
func (l *Localizer) Localize(s string) string {
	return l.printer.Sprintf(message.Key(s, escape(s)))
}

// SectionURL returns the URL of the localized version of a page section,
// or "" when the active language is the source language.
func (l *Localizer) SectionURL(section string) string {
	if l.active == l.fallback {
		return ""
	}
	base, _ := l.active.Base()
	return path.Join(LocaleBase, base.String(), section)
}

func (l *Localizer) use(tag language.Tag) {
	l.active = tag
	l.printer = message.NewPrinter(tag, message.Catalog(l.cat))
}

func escape(s string) string { return strings.ReplaceAll(s, "%", "%%") }
