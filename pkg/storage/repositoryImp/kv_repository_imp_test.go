package repositoryImp_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"micampo/database"
	"micampo/pkg/storage/repository"
	"micampo/pkg/storage/repositoryImp"
)

func openSQLite(t *testing.T) repository.KVRepository {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return repositoryImp.New(db)
}

func TestKVRepositories(t *testing.T) {
	impls := map[string]func(t *testing.T) repository.KVRepository{
		"sqlite": openSQLite,
		"memory": func(*testing.T) repository.KVRepository { return repositoryImp.NewMemory() },
	}
	for name, open := range impls {
		t.Run(name, func(t *testing.T) {
			kv := open(t)

			_, ok, err := kv.Get(repository.KeyFarmData)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Set(repository.KeyFarmData, []byte(`{"lotes":[]}`)))
			require.NoError(t, kv.Set(repository.KeyFarmData, []byte(`{"lotes":[1]}`)))
			require.NoError(t, kv.Set(repository.KeySession, []byte(`{"id":"u"}`)))

			got, ok, err := kv.Get(repository.KeyFarmData)
			require.NoError(t, err)
			require.True(t, ok)
			assert.JSONEq(t, `{"lotes":[1]}`, string(got))

			keys, err := kv.Keys()
			require.NoError(t, err)
			assert.Equal(t, []string{repository.KeyFarmData, repository.KeySession}, keys)

			require.NoError(t, kv.Delete(repository.KeySession))
			require.NoError(t, kv.Delete("missing"))
			_, ok, err = kv.Get(repository.KeySession)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	db, err := database.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, repositoryImp.New(db).Set(repository.KeyUsers, []byte(`[]`)))
	require.NoError(t, database.Close(db))

	db, err = database.OpenSQLite(path)
	require.NoError(t, err)
	defer database.Close(db)
	got, ok, err := repositoryImp.New(db).Get(repository.KeyUsers)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, string(got))
}
