package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourname/bday-bot/internal/domain"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestBirthdaysCreate(t *testing.T) {
	mock := newMock(t)
	r := NewBirthdays(mock)

	mock.ExpectQuery(`INSERT INTO birthdays`).
		WithArgs(int64(10), "Anna", "15.03.1990").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := r.Create(context.Background(), 10, "Anna", "15.03.1990")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestBirthdaysCreateStoreError(t *testing.T) {
	mock := newMock(t)
	r := NewBirthdays(mock)

	boom := errors.New("connection reset")
	mock.ExpectQuery(`INSERT INTO birthdays`).
		WithArgs(int64(10), "Anna", "15.03.1990").
		WillReturnError(boom)

	_, err := r.Create(context.Background(), 10, "Anna", "15.03.1990")
	require.ErrorIs(t, err, boom)
}

func TestBirthdaysList(t *testing.T) {
	mock := newMock(t)
	r := NewBirthdays(mock)

	rows := pgxmock.NewRows([]string{"id", "user_id", "name", "date"}).
		AddRow(int64(1), int64(10), "Anna", "15.03.1990").
		AddRow(int64(3), int64(10), "Boris", "01.01.2001")
	mock.ExpectQuery(`SELECT id, user_id, name, date`).
		WithArgs(int64(10)).
		WillReturnRows(rows)

	got, err := r.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.Birthday{
		{ID: 1, OwnerID: 10, Name: "Anna", Date: "15.03.1990"},
		{ID: 3, OwnerID: 10, Name: "Boris", Date: "01.01.2001"},
	}, got)
}

func TestBirthdaysListAll(t *testing.T) {
	mock := newMock(t)
	r := NewBirthdays(mock)

	rows := pgxmock.NewRows([]string{"id", "user_id", "name", "date"}).
		AddRow(int64(1), int64(10), "Anna", "15.03.1990").
		AddRow(int64(2), int64(20), "Boris", "01.01.2001")
	mock.ExpectQuery(`SELECT id, user_id, name, date`).
		WillReturnRows(rows)

	got, err := r.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(10), got[0].OwnerID)
	assert.Equal(t, int64(20), got[1].OwnerID)
}

func TestBirthdaysGetOwned(t *testing.T) {
	mock := newMock(t)
	r := NewBirthdays(mock)

	rows := pgxmock.NewRows([]string{"id", "user_id", "name", "date"}).
		AddRow(int64(1), int64(10), "Anna", "15.03.1990")
	mock.ExpectQuery(`WHERE id=\$1 AND user_id=\$2`).
		WithArgs(int64(1), int64(10)).
		WillReturnRows(rows)

	got, err := r.GetOwned(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.Name)
}

func TestBirthdaysGetOwnedWrongOwner(t *testing.T) {
	mock := newMock(t)
	r := NewBirthdays(mock)

	mock.ExpectQuery(`WHERE id=\$1 AND user_id=\$2`).
		WithArgs(int64(1), int64(99)).
		WillReturnError(pgx.ErrNoRows)

	_, err := r.GetOwned(context.Background(), 1, 99)
	require.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestBirthdaysDeleteAbsentIDIsNoop(t *testing.T) {
	mock := newMock(t)
	r := NewBirthdays(mock)

	mock.ExpectExec(`DELETE FROM birthdays`).
		WithArgs(int64(42)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, r.DeleteByID(context.Background(), 42))
}

func TestBirthdaysUpdateAbsentIDIsNoop(t *testing.T) {
	mock := newMock(t)
	r := NewBirthdays(mock)

	mock.ExpectExec(`UPDATE birthdays`).
		WithArgs(int64(42), "Anna", "16.03.1990").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, r.UpdateByID(context.Background(), 42, "Anna", "16.03.1990"))
}

func TestUsersUpsert(t *testing.T) {
	mock := newMock(t)
	r := NewUsers(mock)

	uname := "anna"
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(int64(10), &uname, (*string)(nil), (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(5)))

	id, err := r.Upsert(context.Background(), 10, &uname, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
}
