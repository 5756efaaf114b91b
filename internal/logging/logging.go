// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var levels = map[string]zerolog.Level{
	"debug":    zerolog.DebugLevel,
	"info":     zerolog.InfoLevel,
	"warn":     zerolog.WarnLevel,
	"error":    zerolog.ErrorLevel,
	"disabled": zerolog.Disabled,
}

// ParseLevel maps a config level name to a zerolog level.
func ParseLevel(name string) (zerolog.Level, error) {
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, ok := levels[strings.ToLower(name)]
	if !ok {
		return zerolog.NoLevel, errors.Errorf("unknown log level %q", name)
	}
	return lvl, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup points the global logger at file when set, otherwise at a console
// writer on console. With neither, logs are discarded (the terminal
// client owns the screen). The returned closer releases the file.
func Setup(level, file string, console io.Writer) (io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(lvl)

	switch {
	case file != "":
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return nil, errors.Wrap(err, "create log dir")
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, errors.Wrap(err, "open log file")
		}
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
		return f, nil
	case console != nil:
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()
	default:
		log.Logger = zerolog.New(ioutil.Discard)
	}
	return nopCloser{}, nil
}
