package validation

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

var ErrInvalidRepository = errors.New("Invalid repository") //nolint:stylecheck

type WrongHostError struct {
	Host         string
	AllowedHosts []string
}

func (e *WrongHostError) Error() string {
	if len(e.AllowedHosts) == 1 && e.AllowedHosts[0] == "github.com" {
		return "Model repository must be on Github"
	}

	return "Model repository must be on " + strings.Join(e.AllowedHosts, " or ")
}

// ValidateRepository checks the host first, then that a path is present.
func ValidateRepository(repository string, allowedHosts []string) error {
	u, err := url.Parse(repository)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	if !slices.Contains(allowedHosts, u.Host) {
		return &WrongHostError{Host: u.Host, AllowedHosts: allowedHosts}
	}

	if u.Path == "" {
		return ErrInvalidRepository
	}

	return nil
}
