package domain

// Represents a single catalog entry available in both package formats.
// Products carry no pricing of their own; unit prices come from the
// per-format volume tier schedule.
type Product struct {
	ID          string
	Name        string
	Description string
}
