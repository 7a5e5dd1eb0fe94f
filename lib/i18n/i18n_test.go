package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

const dutch = `
nl:
  Action: Actie
  Settings: Instellingen
  "50% done": "50% klaar"
`

const german = `
de:
  Action: Aktion
`

func TestLocalize(t *testing.T) {
	l, err := Parse(language.English, dutch, german)
	require.NoError(t, err)

	assert.Equal(t, language.English, l.Language())
	assert.Equal(t, "Action", l.Localize("Action"))

	assert.Equal(t, language.Dutch, l.SetLanguage("nl-BE"))
	assert.Equal(t, "Actie", l.Localize("Action"))
	assert.Equal(t, "Instellingen", l.Localize("Settings"))
	assert.Equal(t, "50% klaar", l.Localize("50% done"))
	assert.Equal(t, "Untranslated", l.Localize("Untranslated"))
	assert.Equal(t, "100% raw", l.Localize("100% raw"))
}

func TestSetLanguageFallsBack(t *testing.T) {
	l, err := Parse(language.English, dutch)
	require.NoError(t, err)

	assert.Equal(t, language.English, l.SetLanguage("ja"))
	assert.Equal(t, language.English, l.SetLanguage("not a tag!!"))
	assert.Equal(t, language.English, l.SetLanguage())
	assert.Equal(t, "Action", l.Localize("Action"))

	assert.Equal(t, language.Dutch, l.SetLanguage("fr;q=0.9, nl;q=0.8"))
}

func TestLanguages(t *testing.T) {
	l, err := Parse(language.English, german, dutch)
	require.NoError(t, err)
	assert.Equal(t, []language.Tag{language.English, language.German, language.Dutch}, l.Languages())
}

func TestSectionURL(t *testing.T) {
	l, err := Parse(language.English, dutch)
	require.NoError(t, err)

	assert.Empty(t, l.SectionURL("about.html"))
	l.SetLanguage("nl")
	assert.Equal(t, "/assets/locale/nl/about.html", l.SectionURL("about.html"))
}

func TestBadCatalog(t *testing.T) {
	_, err := Parse(language.English, "nl: [not, a, map]")
	assert.Error(t, err)

	_, err = Parse(language.English, "'x y z!': {a: b}")
	assert.Error(t, err)
}
