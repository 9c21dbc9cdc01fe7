package cli

import (
	"context"
	"fmt"
	"strings"
)

// fullIDLength is the length of a canonical UUID string.
const fullIDLength = 36

// resolveApplicationID resolves an application identifier which can be:
//   - A full UUID (passed through directly)
//   - A unique prefix, as printed by the applications list
func resolveApplicationID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if len(input) >= fullIDLength {
		return input, nil
	}
	if input == "" {
		return "", fmt.Errorf("application id is required")
	}

	apps, err := app.client().Applications(ctx, "", "")
	if err != nil {
		return "", fmt.Errorf("resolving id %q: %w", input, err)
	}
	var matches []string
	for _, a := range apps {
		if strings.HasPrefix(a.ID, input) {
			matches = append(matches, a.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no application id starts with %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
