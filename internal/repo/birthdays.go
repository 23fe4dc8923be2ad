package repo

import (
	"context"
	"fmt"

	"github.com/yourname/bday-bot/internal/domain"
)

// Birthdays is the record store. It does no validation: dates are checked
// upstream before they get here, and delete/update of an absent id is a
// silent no-op.
type Birthdays struct{ q Querier }

func NewBirthdays(q Querier) *Birthdays { return &Birthdays{q: q} }

func (r *Birthdays) Create(ctx context.Context, ownerID int64, name, date string) (int64, error) {
	var id int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO birthdays(user_id, name, date)
		VALUES($1,$2,$3)
		RETURNING id
	`, ownerID, name, date).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create birthday: %w", err)
	}
	return id, nil
}

func (r *Birthdays) List(ctx context.Context, ownerID int64) ([]domain.Birthday, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, name, date
		FROM birthdays
		WHERE user_id=$1
		ORDER BY id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list birthdays: %w", err)
	}
	defer rows.Close()
	return scanBirthdays(rows)
}

// ListAll returns every record across all owners. Only the scheduler uses it.
func (r *Birthdays) ListAll(ctx context.Context) ([]domain.Birthday, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, name, date
		FROM birthdays
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list all birthdays: %w", err)
	}
	defer rows.Close()
	return scanBirthdays(rows)
}

// GetOwned looks a record up scoped by owner, so one user can never read
// another's record by guessing ids. Returns pgx.ErrNoRows on no match.
func (r *Birthdays) GetOwned(ctx context.Context, id, ownerID int64) (*domain.Birthday, error) {
	var b domain.Birthday
	err := r.q.QueryRow(ctx, `
		SELECT id, user_id, name, date
		FROM birthdays
		WHERE id=$1 AND user_id=$2
	`, id, ownerID).Scan(&b.ID, &b.OwnerID, &b.Name, &b.Date)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Birthdays) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM birthdays WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete birthday: %w", err)
	}
	return nil
}

func (r *Birthdays) UpdateByID(ctx context.Context, id int64, newName, newDate string) error {
	if _, err := r.q.Exec(ctx, `
		UPDATE birthdays SET name=$2, date=$3 WHERE id=$1
	`, id, newName, newDate); err != nil {
		return fmt.Errorf("update birthday: %w", err)
	}
	return nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanBirthdays(rows rowScanner) ([]domain.Birthday, error) {
	out := make([]domain.Birthday, 0, 16)
	for rows.Next() {
		var b domain.Birthday
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Date); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
