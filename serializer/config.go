package serializer

import (
	"log/slog"

	"typecaster/options"
)

// Config configures a dialect.
type Config struct {
	// Name identifies the dialect in errors and logs.
	Name string
	// Allowed lists the coercions applied while casting.
	Allowed options.CategoryEnum
	// Logger receives debug records about compiled converters.
	Logger *slog.Logger
}

// DefaultConfig returns the configuration of the default JSON dialect.
func DefaultConfig() Config {
	return Config{
		Name:    "json",
		Allowed: options.CategoryAll,
		Logger:  slog.New(slog.DiscardHandler),
	}
}
