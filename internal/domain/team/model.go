package team

import (
	"fmt"
	"strings"
)

// Team is a club registered in one division. Names are unique per division, ignoring case.
type Team struct {
	ID         string
	Name       string
	DivisionID string
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(t.DivisionID) == "" {
		return fmt.Errorf("team division id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

// NewTeam is the payload for minting a team that does not exist yet.
type NewTeam struct {
	Name       string
	DivisionID string
}
