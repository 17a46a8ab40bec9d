package memory

import (
	"github.com/riskibarqy/pickleball-league/internal/domain/division"
	"github.com/riskibarqy/pickleball-league/internal/domain/team"
)

// Fixed ids so local runs and tests see stable references.
const (
	DivisionIDA  = "9a1d5f5e-3c1b-4d8e-9c11-0a6f4e2b7c01"
	DivisionIDB3 = "9a1d5f5e-3c1b-4d8e-9c11-0a6f4e2b7c02"
)

func SeedDivisions() []division.Division {
	return []division.Division{
		{ID: DivisionIDA, Name: "Division A", PlayTime: "Tuesdays 7:00pm"},
		{ID: DivisionIDB3, Name: "Division B3", PlayTime: "Thursdays 8:30pm"},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "5f0c2b9e-7a43-4a51-8d2e-1b7f6c3d9e01", Name: "Dink Dynasty", DivisionID: DivisionIDA},
		{ID: "5f0c2b9e-7a43-4a51-8d2e-1b7f6c3d9e02", Name: "Kitchen Kings", DivisionID: DivisionIDA},
		{ID: "5f0c2b9e-7a43-4a51-8d2e-1b7f6c3d9e03", Name: "Net Ninjas", DivisionID: DivisionIDB3},
		{ID: "5f0c2b9e-7a43-4a51-8d2e-1b7f6c3d9e04", Name: "Lob Stars", DivisionID: DivisionIDB3},
	}
}
