package preferences

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
)

// Theme is the color scheme of the presentation layer.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

const (
	valueTrue  = "true"
	valueFalse = "false"

	logMsgPreferenceUnreadable = "preference unreadable, using the default"
	logMsgUnknownTheme         = "stored theme is unknown, using the default"
	logAttrKey                 = "key"
	logAttrValue               = "value"
	logAttrError               = "error"
)

// ErrUnknownTheme is returned by SetTheme for anything but ThemeLight and ThemeDark.
var ErrUnknownTheme = errors.New("unknown theme")

// ErrNilStorage is returned by New when no storage is supplied.
var ErrNilStorage = errors.New("nil storage supplied")

// ErrWritingPreferenceFailed wraps storage write failures.
var ErrWritingPreferenceFailed = errors.New("writing preference failed")

// Preferences reads and writes the user settings. Reads never fail: unreadable values fall back to the defaults.
type Preferences struct {
	storage recordstore.KeyValueStorage
	logger  recordstore.Logger
}

// Option defines a functional option for configuring Preferences.
type Option func(*Preferences)

// WithLogger sets the logger for fallbacks to default values.
func WithLogger(logger recordstore.Logger) Option {
	return func(p *Preferences) {
		p.logger = logger
	}
}

// New creates Preferences on top of storage.
func New(storage recordstore.KeyValueStorage, options ...Option) (*Preferences, error) {
	if storage == nil {
		return nil, ErrNilStorage
	}

	p := &Preferences{storage: storage}
	for _, option := range options {
		option(p)
	}

	return p, nil
}

// Theme returns the stored theme, ThemeLight if none or an unknown one is stored.
func (p *Preferences) Theme(ctx context.Context) Theme {
	value, found := p.read(ctx, recordstore.ThemeKey)
	if !found {
		return ThemeLight
	}

	theme := Theme(value)
	if !theme.IsValid() {
		p.logWarn(logMsgUnknownTheme, logAttrKey, recordstore.ThemeKey, logAttrValue, value)
		return ThemeLight
	}

	return theme
}

// SetTheme stores theme.
func (p *Preferences) SetTheme(ctx context.Context, theme Theme) error {
	if !theme.IsValid() {
		return ErrUnknownTheme
	}

	return p.write(ctx, recordstore.ThemeKey, string(theme))
}

// ToggleTheme switches between light and dark and returns the new theme.
func (p *Preferences) ToggleTheme(ctx context.Context) (Theme, error) {
	next := p.Theme(ctx).Opposite()
	if err := p.SetTheme(ctx, next); err != nil {
		return p.Theme(ctx), err
	}

	return next, nil
}

// DebugEnabled reports whether the debug flag is stored as "true".
func (p *Preferences) DebugEnabled(ctx context.Context) bool {
	value, _ := p.read(ctx, recordstore.DebugKey)

	return value == valueTrue
}

// SetDebug stores the debug flag as "true" or "false".
func (p *Preferences) SetDebug(ctx context.Context, enabled bool) error {
	return p.write(ctx, recordstore.DebugKey, formatBool(enabled))
}

// ToggleDebug flips the debug flag and returns the new state.
func (p *Preferences) ToggleDebug(ctx context.Context) (bool, error) {
	next := !p.DebugEnabled(ctx)
	if err := p.SetDebug(ctx, next); err != nil {
		return !next, err
	}

	return next, nil
}

// FirstVisit reports whether the visited marker is missing.
func (p *Preferences) FirstVisit(ctx context.Context) bool {
	value, _ := p.read(ctx, recordstore.VisitedKey)

	return value != valueTrue
}

// MarkVisited stores the visited marker.
func (p *Preferences) MarkVisited(ctx context.Context) error {
	return p.write(ctx, recordstore.VisitedKey, valueTrue)
}

// IsValid reports whether t is a known theme.
func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == ThemeDark {
		return ThemeLight
	}

	return ThemeDark
}

func (p *Preferences) read(ctx context.Context, key string) (string, bool) {
	value, found, err := p.storage.GetItem(ctx, key)
	if err != nil {
		p.logWarn(logMsgPreferenceUnreadable, logAttrKey, key, logAttrError, err.Error())
		return "", false
	}

	return value, found
}

func (p *Preferences) write(ctx context.Context, key string, value string) error {
	if err := p.storage.SetItem(ctx, key, value); err != nil {
		return errors.Join(ErrWritingPreferenceFailed, err)
	}

	return nil
}

func (p *Preferences) logWarn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func formatBool(b bool) string {
	if b {
		return valueTrue
	}

	return valueFalse
}
