package git

import (
	"fmt"
	"strings"
)

// ParseDiffSpec splits a "base..head" spec into its two revisions.
// An empty head means HEAD. Three-dot specs are rejected because differences
// are always computed between the two commits as given.
func ParseDiffSpec(spec string) (base, head string, err error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return "", "", fmt.Errorf("empty diff spec")
	}
	if strings.Contains(spec, "...") {
		return "", "", fmt.Errorf("invalid diff spec %q: merge-base ('...') comparison is not supported, use 'base..head'", spec)
	}

	idx := strings.Index(spec, "..")
	if idx == -1 {
		return "", "", fmt.Errorf("invalid diff spec %q: expected 'base..head'", spec)
	}
	base = spec[:idx]
	head = spec[idx+2:]

	if base == "" {
		return "", "", fmt.Errorf("invalid diff spec %q: missing base ref", spec)
	}
	if head == "" {
		head = "HEAD"
	}
	return base, head, nil
}
