package service_test

import (
	"io"
	"testing"

	"github.com/rs/zerolog"

	"github.com/maxviazov/composer-workspace-service/internal/i18n"
	"github.com/maxviazov/composer-workspace-service/internal/service"
)

func newTestTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.New("en-US")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	return tr
}

func discardLogger() zerolog.Logger { return zerolog.New(io.Discard) }

func fieldMessages(fields []service.FieldError) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.Field] = f.Message
	}
	return out
}
