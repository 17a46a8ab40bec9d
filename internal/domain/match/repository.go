package match

import "context"

// Repository describes match persistence needs from use cases.
type Repository interface {
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]Match, error)
	ListByDivision(ctx context.Context, divisionID string) ([]Match, error)
	DeleteAll(ctx context.Context) error
	InsertMany(ctx context.Context, matches []Match) error
}

// Replacer is implemented by stores that can swap the whole match set atomically.
type Replacer interface {
	ReplaceAll(ctx context.Context, matches []Match) error
}
