package mailer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrNoMXRecord   = errors.New("email domain has no mail exchanger")
)

// Resolver looks up mail exchangers; *net.Resolver satisfies it.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// Domain returns everything after the first '@' of an address.
func Domain(email string) (string, error) {
	_, domain, ok := strings.Cut(strings.TrimSpace(email), "@")
	if !ok || domain == "" {
		return "", ErrInvalidEmail
	}

	return domain, nil
}

// ValidateDomain accepts an address only when its domain publishes at least
// one MX record. Lookup failures count as a missing record.
func ValidateDomain(ctx context.Context, r Resolver, email string) error {
	domain, err := Domain(email)
	if err != nil {
		return err
	}

	records, err := r.LookupMX(ctx, domain)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoMXRecord, err)
	}

	if len(records) == 0 {
		return ErrNoMXRecord
	}

	return nil
}
