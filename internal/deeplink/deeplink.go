// Package deeplink builds and resolves ductiva://habit/<uuid> links used
// by widgets to open a specific habit.
package deeplink

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/david-saint/ductiva/internal/constants"
)

var ErrInvalidLink = errors.New("not a ductiva habit link")

// HabitURL returns the link that opens the habit with id.
func HabitURL(id uuid.UUID) string {
	u := url.URL{
		Scheme: constants.DeepLinkScheme,
		Host:   constants.DeepLinkHost,
		Path:   "/" + id.String(),
	}
	return u.String()
}

// HabitURLString is HabitURL for a string id. Ids that are not UUIDs have
// no link and yield "".
func HabitURLString(id string) string {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return ""
	}
	return HabitURL(parsed)
}

// Parse extracts the habit id from a link. Only the ductiva scheme, the
// habit host and a single UUID path segment are accepted.
func Parse(raw string) (uuid.UUID, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidLink, err)
	}
	if !strings.EqualFold(u.Scheme, constants.DeepLinkScheme) {
		return uuid.Nil, fmt.Errorf("%w: unexpected scheme %q", ErrInvalidLink, u.Scheme)
	}
	if !strings.EqualFold(u.Host, constants.DeepLinkHost) {
		return uuid.Nil, fmt.Errorf("%w: unexpected host %q", ErrInvalidLink, u.Host)
	}

	segment := strings.Trim(u.Path, "/")
	if segment == "" || strings.Contains(segment, "/") {
		return uuid.Nil, fmt.Errorf("%w: expected a single habit id", ErrInvalidLink)
	}
	id, err := uuid.Parse(segment)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid habit id %q", ErrInvalidLink, segment)
	}
	return id, nil
}
