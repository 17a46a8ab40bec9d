package division

import (
	"fmt"
	"strings"
)

// Division is a named competitive grouping of teams, e.g. "Division A".
type Division struct {
	ID       string
	Name     string
	PlayTime string
}

func (d Division) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("division id is required")
	}
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("division name is required")
	}

	return nil
}

// NormalizeName folds a raw division or team label for case-insensitive lookup.
func NormalizeName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// FallbackName is the alternate lookup key for abbreviated labels such as "B3".
func FallbackName(raw string) string {
	return "division " + NormalizeName(raw)
}
