package store

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRemoteMock(t *testing.T) (*RemoteStore, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewRemoteStore(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

func TestRemoteStoreList(t *testing.T) {
	s, mock, cleanup := newRemoteMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "data"}).
		AddRow("u1", []byte(`{"id":"u1","name":"Asha"}`)).
		AddRow("u2", []byte(`{"id":"u2","name":"Ravi"}`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, data FROM documents WHERE collection = $1 ORDER BY updated_at")).
		WithArgs(CollectionUsers).
		WillReturnRows(rows)

	docs, err := s.Collection(CollectionUsers).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Equal(t, "u1", docs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoteStoreGetNotFound(t *testing.T) {
	s, mock, cleanup := newRemoteMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, data FROM documents WHERE collection = $1 AND id = $2 LIMIT 1")).
		WithArgs(CollectionUsers, "ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}))

	_, err := s.Collection(CollectionUsers).Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoteStorePutUpserts(t *testing.T) {
	s, mock, cleanup := newRemoteMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(CollectionCourses, "course-1", []byte(`{"name":"Maths"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := s.Collection(CollectionCourses).Put(context.Background(), Document{
		ID:   "course-1",
		Data: []byte(`{"name":"Maths"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "course-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoteStorePutAssignsID(t *testing.T) {
	s, mock, cleanup := newRemoteMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(CollectionCourses, sqlmock.AnyArg(), []byte(`{}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := s.Collection(CollectionCourses).Put(context.Background(), Document{})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoteStorePatch(t *testing.T) {
	s, mock, cleanup := newRemoteMock(t)
	defer cleanup()

	mock.ExpectExec("UPDATE documents SET data").
		WithArgs(CollectionUsers, "u1", []byte(`{"class":"CS-B"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	partial := map[string]interface{}{
		"class": "CS-B",
		"id":    "hijacked",
	}
	err := s.Collection(CollectionUsers).Patch(context.Background(), "u1", partial)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	// the caller's map is not mutated by the id strip
	assert.Equal(t, map[string]interface{}{"class": "CS-B", "id": "hijacked"}, partial)
}

func TestRemoteStorePatchMissingID(t *testing.T) {
	s, mock, cleanup := newRemoteMock(t)
	defer cleanup()

	mock.ExpectExec("UPDATE documents SET data").
		WithArgs(CollectionUsers, "ghost", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Collection(CollectionUsers).Patch(context.Background(), "ghost", map[string]interface{}{"class": "CS-B"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoteStoreDelete(t *testing.T) {
	s, mock, cleanup := newRemoteMock(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM documents").
		WithArgs(CollectionRooms, "room-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Collection(CollectionRooms).Delete(context.Background(), "room-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoteStoreEnsureSchema(t *testing.T) {
	s, mock, cleanup := newRemoteMock(t)
	defer cleanup()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS documents").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
