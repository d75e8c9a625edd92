package bootstrap

import "context"

// Storage represents shared infrastructure passed to optional modules.
type Storage interface{}

// Seeder loads reference or default data into a storage implementation.
type Seeder interface {
	Seed(ctx context.Context, storage Storage) error
}

// SeederFunc adapts a bare function to the Seeder interface.
type SeederFunc func(ctx context.Context, storage Storage) error

// Seed executes the underlying function.
func (f SeederFunc) Seed(ctx context.Context, storage Storage) error {
	return f(ctx, storage)
}

// RunSeeders executes seeders in order, stopping at the first failure.
func RunSeeders(ctx context.Context, storage Storage, seeders ...Seeder) error {
	for _, s := range seeders {
		if s == nil {
			continue
		}
		if err := s.Seed(ctx, storage); err != nil {
			return err
		}
	}
	return nil
}
