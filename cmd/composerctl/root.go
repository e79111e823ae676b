package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/text/language"

	"github.com/maxviazov/composer-workspace-service/internal/client"
	"github.com/maxviazov/composer-workspace-service/internal/i18n"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	server  string
	lang    string
	timeout time.Duration
	debug   bool

	api  *client.Client
	tr   *i18n.Translator
	tag  language.Tag
	log  zerolog.Logger
	isTT func() bool
}

func defaultServer() string {
	if v := os.Getenv("COMPOSER_SERVER"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

// localeFromEnv turns a POSIX locale such as de_DE.UTF-8 into a BCP 47 tag.
func localeFromEnv() string {
	v := os.Getenv("LC_ALL")
	if v == "" {
		v = os.Getenv("LANG")
	}
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	if v == "C" || v == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(v, "_", "-")
}

func newRootCmd() *cobra.Command {
	a := &app{isTT: func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }}

	cmd := &cobra.Command{
		Use:          "composerctl",
		Short:        "Browse notifications, recent projects and publish profiles",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&a.server, "server", defaultServer(), "API base URL (env COMPOSER_SERVER)")
	cmd.PersistentFlags().StringVar(&a.lang, "lang", localeFromEnv(), "display language, e.g. de-DE")
	cmd.PersistentFlags().DurationVar(&a.timeout, "timeout", 30*time.Second, "per-request timeout")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newNotificationsCmd(a),
		newProjectsCmd(a),
		newTargetsCmd(a),
		newPublishCmd(a),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	level := zerolog.WarnLevel
	if a.debug {
		level = zerolog.DebugLevel
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	tr, err := i18n.New("")
	if err != nil {
		return err
	}
	a.tr = tr
	a.tag = tr.Match(a.lang, "")
	a.api = client.New(a.server, a.tag.String(), &http.Client{Timeout: a.timeout})
	a.log.Debug().Str("server", a.server).Str("lang", a.tag.String()).Msg("composerctl configured")
	return nil
}
