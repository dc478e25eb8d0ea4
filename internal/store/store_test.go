package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutAndGetRoundTripsData(t *testing.T) {
	s := openTestStore(t)

	id, err := s.Put(KindGame, "autosave", []byte(`{"version":4}`))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rec, err := s.Get(id)
	require.NoError(t, err)
	require.Equal(t, KindGame, rec.Kind)
	require.Equal(t, "autosave", rec.Name)
	require.Equal(t, `{"version":4}`, string(rec.Data))
	require.False(t, rec.CreatedAt.IsZero())
}

func TestListFiltersByKindNewestFirst(t *testing.T) {
	s := openTestStore(t)

	gameID, err := s.Put(KindGame, "g1", []byte(`{}`))
	require.NoError(t, err)
	_, err = s.Put(KindEconomy, "e1", []byte(`{}`))
	require.NoError(t, err)
	gameID2, err := s.Put(KindGame, "g2", []byte(`{}`))
	require.NoError(t, err)

	games, err := s.List(KindGame)
	require.NoError(t, err)
	require.Len(t, games, 2)
	require.Equal(t, gameID2, games[0].ID)
	require.Equal(t, gameID, games[1].ID)
}

func TestDeleteRemovesRecord(t *testing.T) {
	s := openTestStore(t)

	id, err := s.Put(KindSimulation, "sim1", []byte(`{}`))
	require.NoError(t, err)

	require.NoError(t, s.Delete(id))

	_, err = s.Get(id)
	require.Error(t, err)
}

func TestGetMissingIDReturnsError(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get("does-not-exist")
	require.Error(t, err)
}

func TestReopenPreservesSchemaAndData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	s1, err := Open(path)
	require.NoError(t, err)
	id, err := s1.Put(KindGame, "persisted", []byte(`{"version":4}`))
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	rec, err := s2.Get(id)
	require.NoError(t, err)
	require.Equal(t, "persisted", rec.Name)
}
