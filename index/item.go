package index

import (
	"errors"
	"fmt"
)

// DefaultMaxTokenWidth is the widest token indexed when Options leaves it unset.
const DefaultMaxTokenWidth = 8

// Error values for consistent error handling by callers.
var (
	ErrInvalidTokenWidth = errors.New("invalid token width")
)

// Item is an entry eligible for search.
type Item struct {
	// ID is the rehydration key. It should be unique within one build;
	// duplicates resolve to the first item carrying the ID.
	ID string

	// DisplayName is the text that gets tokenized and searched.
	DisplayName string

	// Payload is returned verbatim on a hit (for applications: icon and path).
	Payload any
}

// Options configures index construction.
type Options struct {
	// MaxTokenWidth is the widest substring, in runes, that gets indexed.
	// Default: 8. Negative values are rejected.
	MaxTokenWidth int
}

func (o Options) tokenWidth() (int, error) {
	switch {
	case o.MaxTokenWidth < 0:
		return 0, fmt.Errorf("%w: %d", ErrInvalidTokenWidth, o.MaxTokenWidth)
	case o.MaxTokenWidth == 0:
		return DefaultMaxTokenWidth, nil
	default:
		return o.MaxTokenWidth, nil
	}
}

func resolveOptions(opts []Options) Options {
	if len(opts) > 0 {
		return opts[0]
	}
	return Options{}
}
