package gamejr

import (
	"github.com/charmbracelet/log"
	"github.com/gamejr/gamejr/assets"
	"github.com/gamejr/gamejr/input"
	"github.com/gamejr/gamejr/sound"
)

// Option customizes a Session at construction.
type Option func(*Session)

// WithLogger replaces the session logger. Its level is left untouched.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		s.logger = l
		s.ownLogger = false
	}
}

// WithInput replaces the ebiten poller, typically with an input.Scripted.
func WithInput(src input.Source) Option {
	return func(s *Session) {
		s.input = src
	}
}

// WithAssets shares an asset cache between sessions.
func WithAssets(c *assets.Cache) Option {
	return func(s *Session) {
		s.assets = c
	}
}

func WithSound(p *sound.Player) Option {
	return func(s *Session) {
		s.sound = p
	}
}

// WithHeadless skips every window call so the session can be stepped
// without a display.
func WithHeadless() Option {
	return func(s *Session) {
		s.headless = true
	}
}

// WithWatch names the files whose changes are reported when the config
// enables watching.
func WithWatch(paths ...string) Option {
	return func(s *Session) {
		s.watchPaths = append(s.watchPaths, paths...)
	}
}
