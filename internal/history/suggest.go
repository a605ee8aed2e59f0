package history

import "strings"

// Suggest returns the entries of history that contain partial,
// case-insensitively, in history order. An empty partial yields no
// suggestions.
func Suggest(partial string, history []string) []string {
	out := []string{}
	if partial == "" {
		return out
	}

	needle := strings.ToLower(partial)
	for _, h := range history {
		if strings.Contains(strings.ToLower(h), needle) {
			out = append(out, h)
		}
	}
	return out
}
