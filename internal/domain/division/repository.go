package division

import "context"

// Repository describes division persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Division, error)
}
