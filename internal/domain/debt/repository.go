package debt

import "context"

// Gateway owns the durable copy of the whole collection.
// Implementations never fail outward: Load degrades to an empty
// collection and Save logs and drops its error.
type Gateway interface {
	Load(ctx context.Context) []Debt
	Save(ctx context.Context, debts []Debt)
}
