package i18n

import (
	"context"

	"golang.org/x/text/language"
)

type ctxKey struct{}

// WithLanguage attaches the request language to ctx.
func WithLanguage(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, ctxKey{}, tag)
}

// LanguageFrom returns the language attached by WithLanguage, or the
// translator default when there is none.
func (t *Translator) LanguageFrom(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(ctxKey{}).(language.Tag); ok {
		return tag
	}
	if t == nil {
		return language.MustParse(BaseLocale)
	}
	return t.fallback
}

// Localize formats key in the language carried by ctx.
func (t *Translator) Localize(ctx context.Context, key string, args Args) string {
	return t.Format(t.LanguageFrom(ctx), key, args)
}
