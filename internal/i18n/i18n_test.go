package i18n_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/maxviazov/composer-workspace-service/internal/i18n"
)

func TestFormat_EmbeddedCatalogs(t *testing.T) {
	tr, err := i18n.New("")
	require.NoError(t, err)

	en := language.MustParse("en-US")
	de := language.MustParse("de-DE")

	assert.Equal(t, "Must have a name", tr.Format(en, "Must have a name", nil))
	assert.Equal(t, "Ein Name ist erforderlich", tr.Format(de, "Must have a name", nil))
	assert.Equal(t, "Location is dialogs/main.dialog",
		tr.Format(en, "Location is {location}", i18n.Args{"location": "dialogs/main.dialog"}))
	assert.Equal(t, "Ort ist main.dialog",
		tr.Format(de, "Location is {location}", i18n.Args{"location": "main.dialog"}))
}

func TestFormat_UnknownKeyIsReturnedVerbatim(t *testing.T) {
	tr, err := i18n.New("")
	require.NoError(t, err)
	got := tr.Format(language.MustParse("de-DE"), "100% {thing}", i18n.Args{"thing": "done"})
	assert.Equal(t, "100% done", got)
}

func TestMatch(t *testing.T) {
	tr, err := i18n.New("en-US")
	require.NoError(t, err)

	cases := []struct {
		name      string
		preferred string
		accept    string
		want      string
	}{
		{"nothing requested", "", "", "en-US"},
		{"explicit german", "de", "", "de-DE"},
		{"header german", "", "de-AT,de;q=0.9,en;q=0.5", "de-DE"},
		{"explicit wins over header", "en", "de", "en-US"},
		{"unsupported falls back", "fr", "ja", "en-US"},
		{"garbage header", "", "!!", "en-US"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tr.Match(tc.preferred, tc.accept).String())
		})
	}
}

func TestNewFromFS_Errors(t *testing.T) {
	_, err := i18n.NewFromFS(fstest.MapFS{}, "")
	assert.Error(t, err)

	bad := fstest.MapFS{"locales/xx.yaml": {Data: []byte("locale: ???\nmessages: {}\n")}}
	_, err = i18n.NewFromFS(bad, "")
	assert.Error(t, err)

	_, err = i18n.New("not a tag!")
	assert.Error(t, err)
}

func TestNilTranslatorStillFills(t *testing.T) {
	var tr *i18n.Translator
	assert.Equal(t, "Bot name is Echo", tr.Format(language.English, "Bot name is {botName}", i18n.Args{"botName": "Echo"}))
}

func TestLocalize_UsesContextLanguage(t *testing.T) {
	tr, err := i18n.New("en-US")
	require.NoError(t, err)

	ctx := context.Background()
	assert.Equal(t, "Must have a name", tr.Localize(ctx, "Must have a name", nil))

	ctx = i18n.WithLanguage(ctx, language.MustParse("de-DE"))
	assert.Equal(t, "Ein Name ist erforderlich", tr.Localize(ctx, "Must have a name", nil))

	var nilTr *i18n.Translator
	assert.Equal(t, "Cancel", nilTr.Localize(context.Background(), "Cancel", nil))
}
