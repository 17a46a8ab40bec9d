package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	ListByDivision(ctx context.Context, divisionID string) ([]Team, error)
	Create(ctx context.Context, input NewTeam) (Team, error)
}
