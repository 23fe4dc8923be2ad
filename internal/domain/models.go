package domain

import "time"

// Date layouts used everywhere a birthday date is parsed or printed.
// Dates are stored as validated DD.MM.YYYY text.
const (
	DateLayout     = "02.01.2006"
	DayMonthLayout = "02.01"
)

type User struct {
	ID         int64
	TelegramID int64
	Username   *string
	FirstName  *string
	LastName   *string
	CreatedAt  time.Time
}

// Birthday is one entry in an owner's list. OwnerID is the Telegram chat id
// of the user who created it and never changes.
type Birthday struct {
	ID      int64
	OwnerID int64
	Name    string
	Date    string // DD.MM.YYYY, validated before it reaches the store
}

// Matches reports whether the record's day and month equal dayMonth
// (DD.MM). The stored year is ignored, so a record fires every year.
// Malformed stored dates never match.
func (b Birthday) Matches(dayMonth string) bool {
	d, err := time.Parse(DateLayout, b.Date)
	if err != nil {
		return false
	}
	return d.Format(DayMonthLayout) == dayMonth
}
