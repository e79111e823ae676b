package service

import (
	"errors"
	"strings"

	"github.com/maxviazov/composer-workspace-service/internal/pagination"
)

// Profile name rule outcomes.
var (
	ErrNameRequired  = errors.New("name required")
	ErrNameDuplicate = errors.New("name already exists")
)

// nameMessageKey maps a name rule outcome to its catalog key.
func nameMessageKey(err error) string {
	if errors.Is(err, ErrNameDuplicate) {
		return "A profile with that name already exists."
	}
	return "Must have a name"
}

// ValidateProfileName reports whether candidate may be used as a profile
// name given the names already taken. Comparison ignores case and the
// candidate's surrounding whitespace. When renaming, callers leave the
// profile's own current name out of existing.
func ValidateProfileName(candidate string, existing []string) error {
	name := strings.TrimSpace(candidate)
	if name == "" {
		return ErrNameRequired
	}
	for _, e := range existing {
		if strings.EqualFold(e, name) {
			return ErrNameDuplicate
		}
	}
	return nil
}

func normalizePageSize(size int) int {
	switch {
	case size <= 0:
		return pagination.DefaultSize
	case size > pagination.MaxSize:
		return pagination.MaxSize
	default:
		return size
	}
}
