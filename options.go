package steg

import (
	"errors"
	"log/slog"
)

// Option configures a Steg; it returns an error for an invalid setting.
type Option func(*Steg) error

// WithPassword walks the pixels in a pseudorandom order derived from password
// instead of row by row. The password only reorders pixels; the message
// itself is stored in clear. An empty password keeps raster order.
func WithPassword(password string) Option {
	return func(s *Steg) error {
		s.password = password
		return nil
	}
}

// WithLogger sends progress and per-pixel debug records to log.
// By default nothing is logged.
func WithLogger(log *slog.Logger) Option {
	return func(s *Steg) error {
		if log == nil {
			return errors.New("logger must not be nil")
		}
		s.log = log
		return nil
	}
}
