package testutil

import (
	"testing"

	"fotohogar/internal/fotohogar"
)

// NewTestService creates a Service over a freshly seeded repository with no
// simulated latency, a fixed clock and sequential IDs.
func NewTestService(t *testing.T) *fotohogar.Service {
	t.Helper()
	return NewTestServiceWithRepository(NewTestRepository(t))
}

// NewTestServiceWithRepository is NewTestService over the given repository.
func NewTestServiceWithRepository(repo fotohogar.Repository) *fotohogar.Service {
	return fotohogar.NewService(
		repo,
		fotohogar.Latency{},
		fotohogar.NewNopLogger(),
		FixedClock(),
		NewStubIDGenerator(),
	)
}
