package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is returned for a run mode or rate source outside the allowed set.
var ErrInvalidConfig = errors.New("improperly configured run config")

// Mode selects the persistence backend.
type Mode string

const (
	ModeProd Mode = "PROD" // relational store
	ModeDev  Mode = "DEV"  // structured JSON file
)

// Modes lists every accepted run mode.
var Modes = []Mode{ModeProd, ModeDev}

// Source selects where exchange rates are fetched from.
type Source string

const (
	SourceAPI   Source = "API"
	SourceLocal Source = "LOCAL"
)

// Sources lists every accepted rate source.
var Sources = []Source{SourceAPI, SourceLocal}

// ParseMode validates s against Modes. Unknown values never fall back to a default.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToUpper(strings.TrimSpace(s)))
	for _, allowed := range Modes {
		if m == allowed {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: MODE=%q, expected one of %v", ErrInvalidConfig, s, Modes)
}

// ParseSource validates s against Sources.
func ParseSource(s string) (Source, error) {
	src := Source(strings.ToUpper(strings.TrimSpace(s)))
	for _, allowed := range Sources {
		if src == allowed {
			return src, nil
		}
	}
	return "", fmt.Errorf("%w: SOURCE=%q, expected one of %v", ErrInvalidConfig, s, Sources)
}
