package provider

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/shift"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/factorial"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/sesame"
)

var ErrUnknownProvider = errors.New("unknown provider")

// ID identifies a supported HR backend.
type ID string

const (
	Factorial ID = factorial.Name
	Sesame    ID = sesame.Name
)

// Default is used when no provider is configured.
const Default = Factorial

// All lists the supported providers.
func All() []ID {
	return []ID{Factorial, Sesame}
}

// Parse resolves a provider name. Empty means Default.
func Parse(name string) (ID, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Default, nil
	}
	for _, id := range All() {
		if string(id) == name {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, name)
}

// Options carries per-provider settings. Zero values select defaults.
type Options struct {
	FactorialBaseURL     string
	BreakConfigurationID int

	SesameBaseURL string
	Location      *time.Location

	Timeout time.Duration
	Now     func() time.Time
}

// New builds the client for id.
func New(id ID, opts Options) (shift.Provider, error) {
	switch id {
	case Factorial:
		return factorial.NewClient(factorial.Config{
			BaseURL:              opts.FactorialBaseURL,
			BreakConfigurationID: opts.BreakConfigurationID,
			Timeout:              opts.Timeout,
		}), nil
	case Sesame:
		return sesame.NewClient(sesame.Config{
			BaseURL:  opts.SesameBaseURL,
			Location: opts.Location,
			Timeout:  opts.Timeout,
			Now:      opts.Now,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, string(id))
	}
}

// Reconciles reports whether p checks recorded time before submitting.
func Reconciles(p shift.Provider) bool {
	_, ok := p.(shift.Reconciler)
	return ok
}
