// Package i18n maps message keys to display strings for a language.
//
// Keys are the English source text. Placeholders use the {name} form and are
// filled after lookup, so translations may reorder them freely. A key that
// has no translation is returned as-is.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the source language of every key.
const BaseLocale = "en-US"

//go:embed locales/*.yaml
var localesFS embed.FS

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Args fills named placeholders.
type Args map[string]any

// Translator resolves languages and formats messages. Safe for concurrent use.
type Translator struct {
	catalog  *catalog.Builder
	tags     []language.Tag
	matcher  language.Matcher
	fallback language.Tag
}

// New loads the embedded locale catalogs. defaultLocale is used when a
// request names no supported language; empty means BaseLocale.
func New(defaultLocale string) (*Translator, error) {
	return NewFromFS(localesFS, defaultLocale)
}

// NewFromFS loads locales/*.yaml from fsys.
func NewFromFS(fsys fs.FS, defaultLocale string) (*Translator, error) {
	if defaultLocale == "" {
		defaultLocale = BaseLocale
	}
	fallback, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("parse default locale %q: %w", defaultLocale, err)
	}

	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locales: %w", err)
	}
	sort.Strings(paths)

	b := catalog.NewBuilder(catalog.Fallback(fallback))
	var tags []language.Tag
	for _, path := range paths {
		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var f localeFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		tag, err := language.Parse(strings.TrimSpace(f.Locale))
		if err != nil {
			return nil, fmt.Errorf("%s: locale %q: %w", path, f.Locale, err)
		}
		for key, msg := range f.Messages {
			if err := b.SetString(tag, escapePercent(key), escapePercent(msg)); err != nil {
				return nil, fmt.Errorf("%s: key %q: %w", path, key, err)
			}
		}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("no locale catalogs found")
	}

	// the matcher prefers its first tag when nothing matches
	ordered := []language.Tag{fallback}
	for _, t := range tags {
		if t != fallback {
			ordered = append(ordered, t)
		}
	}
	return &Translator{
		catalog:  b,
		tags:     ordered,
		matcher:  language.NewMatcher(ordered),
		fallback: fallback,
	}, nil
}

// Supported lists the loaded languages, default first.
func (t *Translator) Supported() []language.Tag {
	return append([]language.Tag(nil), t.tags...)
}

// Default is the language used when nothing else matches.
func (t *Translator) Default() language.Tag { return t.fallback }

// Match picks the best supported language for an explicit preference
// (e.g. a ?lang= value) and an Accept-Language header, in that order.
func (t *Translator) Match(preferred, acceptLanguage string) language.Tag {
	var wanted []language.Tag
	if preferred = strings.TrimSpace(preferred); preferred != "" {
		if tag, err := language.Parse(preferred); err == nil {
			wanted = append(wanted, tag)
		}
	}
	if accepted, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil {
		wanted = append(wanted, accepted...)
	}
	if len(wanted) == 0 {
		return t.fallback
	}
	_, idx, conf := t.matcher.Match(wanted...)
	if conf == language.No {
		return t.fallback
	}
	return t.tags[idx]
}

// Format looks key up for tag and fills {name} placeholders from args.
func (t *Translator) Format(tag language.Tag, key string, args Args) string {
	if t == nil {
		return fill(key, args)
	}
	p := message.NewPrinter(tag, message.Catalog(t.catalog))
	return fill(p.Sprintf(escapePercent(key)), args)
}

func fill(s string, args Args) string {
	if len(args) == 0 {
		return s
	}
	pairs := make([]string, 0, len(args)*2)
	for k, v := range args {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

// escapePercent keeps catalog text from being read as Printf verbs.
func escapePercent(s string) string { return strings.ReplaceAll(s, "%", "%%") }
