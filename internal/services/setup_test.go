package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tictot/internal/repository/sqlite"
)

func setupServices(t *testing.T, opts Options) (*ServiceContainer, sqlite.Repository) {
	t.Helper()

	repo, err := sqlite.New(sqlite.InMemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return NewServiceContainer(repo, opts), repo
}
