package repo

import "context"

type Users struct{ q Querier }

func NewUsers(q Querier) *Users { return &Users{q: q} }

// Upsert registers the sender on every inbound message so the users table
// always reflects current username/name. Birthday ownership is keyed by
// telegram id directly; this table is bookkeeping only.
func (r *Users) Upsert(ctx context.Context, telegramID int64, username, firstName, lastName *string) (int64, error) {
	var id int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO users(telegram_id, username, first_name, last_name)
		VALUES($1,$2,$3,$4)
		ON CONFLICT (telegram_id) DO UPDATE
		SET username=EXCLUDED.username,
			first_name=EXCLUDED.first_name,
			last_name=EXCLUDED.last_name
		RETURNING id
	`, telegramID, username, firstName, lastName).Scan(&id)
	return id, err
}
