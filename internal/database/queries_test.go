package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statement struct {
	query string
	args  []driver.Value
}

// recorder is a database/sql driver that keeps every statement it receives
// and answers queries with canned rows.
type recorder struct {
	mu           sync.Mutex
	statements   []statement
	rows         [][]driver.Value
	rowsAffected int64
}

func (r *recorder) record(query string, named []driver.NamedValue) {
	r.mu.Lock()
	defer r.mu.Unlock()

	args := make([]driver.Value, len(named))
	for i, nv := range named {
		args[i] = nv.Value
	}
	r.statements = append(r.statements, statement{query: query, args: args})
}

func (r *recorder) Connect(context.Context) (driver.Conn, error) { return &recorderConn{r}, nil }
func (r *recorder) Driver() driver.Driver { return recorderDriver{} }

type recorderDriver struct{}

func (recorderDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("open through the connector")
}

type recorderConn struct {
	r *recorder
}

func (c *recorderConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepared statements not supported")
}
func (c *recorderConn) Close() error { return nil }
func (c *recorderConn) Begin() (driver.Tx, error) { return nil, errors.New("transactions not supported") }

func (c *recorderConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.r.record(query, args)
	return &cannedRows{columns: strings.Split(notificationColumns, ", "), values: c.r.rows}, nil
}

func (c *recorderConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.r.record(query, args)
	return driver.RowsAffected(c.r.rowsAffected), nil
}

type cannedRows struct {
	columns []string
	values  [][]driver.Value
	next    int
}

func (r *cannedRows) Columns() []string { return r.columns }
func (r *cannedRows) Close() error { return nil }

func (r *cannedRows) Next(dest []driver.Value) error {
	if r.next >= len(r.values) {
		return io.EOF
	}
	copy(dest, r.values[r.next])
	r.next++
	return nil
}

func newRecordingRepository(t *testing.T) (*PgLearnLinkRepository, *recorder) {
	rec := &recorder{}
	db := sql.OpenDB(rec)
	t.Cleanup(func() { db.Close() })
	return &PgLearnLinkRepository{conn: db}, rec
}

func notificationRow(id, recipientId int64) []driver.Value {
	now := time.Now().UTC()
	return []driver.Value{id, int64(5), recipientId, "New assignment: Raft", "new_assignment",
		nil, int64(100), nil, int64(7), false, now, now}
}

func TestNotificationMutationsAreScopedToRecipient(t *testing.T) {
	tcases := []struct {
		name  string
		call  func(db *PgLearnLinkRepository) error
		where string
	}{
		{
			name: "mark read",
			call: func(db *PgLearnLinkRepository) error {
				_, err := db.MarkNotificationRead(context.Background(), 9, 2)
				return err
			},
			where: "WHERE id = $1 AND recipient_id = $2",
		},
		{
			name: "delete one",
			call: func(db *PgLearnLinkRepository) error {
				_, err := db.DeleteNotification(context.Background(), 9, 2)
				return err
			},
			where: "WHERE id = $1 AND recipient_id = $2",
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			db, rec := newRecordingRepository(t)

			err := tc.call(db)

			assert.ErrorIs(t, err, ErrNotFound, "expected a row owned by someone else to read as not found")
			require.Len(t, rec.statements, 1)
			assert.Contains(t, rec.statements[0].query, tc.where)
			assert.Equal(t, int64(9), rec.statements[0].args[0])
			assert.Equal(t, int64(2), rec.statements[0].args[1])
		})
	}
}

func TestBulkNotificationMutationsAreScopedToRecipient(t *testing.T) {
	t.Run("mark all read", func(t *testing.T) {
		db, rec := newRecordingRepository(t)
		rec.rowsAffected = 4

		n, err := db.MarkAllNotificationsRead(context.Background(), 2)

		require.NoError(t, err)
		assert.Equal(t, int64(4), n)
		require.Len(t, rec.statements, 1)
		assert.Contains(t, rec.statements[0].query, "WHERE recipient_id = $1 AND read = false")
		assert.Equal(t, int64(2), rec.statements[0].args[0])
	})

	t.Run("clear", func(t *testing.T) {
		db, rec := newRecordingRepository(t)

		deleted, err := db.DeleteAllNotifications(context.Background(), 2)

		require.NoError(t, err)
		assert.Empty(t, deleted)
		require.Len(t, rec.statements, 1)
		assert.Contains(t, rec.statements[0].query, "WHERE recipient_id = $1")
		assert.Equal(t, int64(2), rec.statements[0].args[0])
	})
}

func TestCreateNotificationsSingleStatement(t *testing.T) {
	db, rec := newRecordingRepository(t)
	rec.rows = [][]driver.Value{notificationRow(1, 10), notificationRow(2, 11), notificationRow(3, 12)}

	params := CreateNotificationParams{
		SenderId:     NullInt(5),
		Content:      "New assignment: Raft",
		Type:         "new_assignment",
		AssignmentId: NullInt(100),
		CourseId:     NullInt(7),
	}
	got, err := db.CreateNotifications(context.Background(), []int{10, 11, 12}, params)

	require.NoError(t, err)
	require.Len(t, rec.statements, 1, "expected every row to be written by one statement")
	assert.Contains(t, rec.statements[0].query, "FROM unnest($2::int[])")
	assert.Equal(t, "{10,11,12}", rec.statements[0].args[1])

	require.Len(t, got, 3)
	for i, rid := range []int{10, 11, 12} {
		assert.Equal(t, rid, got[i].RecipientId)
		assert.Equal(t, int64(100), got[i].AssignmentId.Int64)
		assert.False(t, got[i].ReferenceId.Valid)
	}
}

func TestCreateNotificationsNoRecipients(t *testing.T) {
	db, rec := newRecordingRepository(t)

	got, err := db.CreateNotifications(context.Background(), nil, CreateNotificationParams{Content: "x"})

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, rec.statements)
}
