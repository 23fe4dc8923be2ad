// Package session implements the per-user conversation state machine. Every
// multi-step flow (add, delete, edit, congratulate) starts at idle, consumes
// one token per step and ends back at idle; a user with no session only has
// top-level commands recognized. Once a flow is active, command words are
// not privileged: they are consumed as flow input like any other text.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/yourname/bday-bot/internal/domain"
)

// Top-level command words, matching the reply keyboard buttons.
const (
	BtnAdd          = "Добавить дату"
	BtnList         = "Показать даты"
	BtnEdit         = "Изменить"
	BtnDelete       = "Удалить"
	BtnCongratulate = "Поздравление"
)

type Command int

const (
	CmdUnknown Command = iota
	CmdAdd
	CmdList
	CmdDelete
	CmdEdit
	CmdCongratulate
)

func ParseCommand(text string) Command {
	switch text {
	case BtnAdd:
		return CmdAdd
	case BtnList:
		return CmdList
	case BtnDelete:
		return CmdDelete
	case BtnEdit:
		return CmdEdit
	case BtnCongratulate:
		return CmdCongratulate
	default:
		return CmdUnknown
	}
}

type State int

const (
	StateAwaitingName State = iota + 1
	StateAwaitingDate
	StateAwaitingDeleteID
	StateAwaitingEditID
	StateAwaitingEditName
	StateAwaitingEditDate
	StateAwaitingCongratsID
)

// scratch accumulates partial input for the active flow.
type scratch struct {
	name    string // add flow
	editID  int64  // edit flow
	newName string // edit flow
}

type flow struct {
	state State
	scratch
}

// Store is the record store slice the state machine needs.
type Store interface {
	Create(ctx context.Context, ownerID int64, name, date string) (int64, error)
	List(ctx context.Context, ownerID int64) ([]domain.Birthday, error)
	GetOwned(ctx context.Context, id, ownerID int64) (*domain.Birthday, error)
	DeleteByID(ctx context.Context, id int64) error
	UpdateByID(ctx context.Context, id int64, newName, newDate string) error
}

// Dispatcher delivers replies. Failures are the caller's to log; the state
// machine treats replies as best-effort.
type Dispatcher interface {
	SendText(ctx context.Context, ownerID int64, text string) error
}

type Content interface {
	Congratulation(name string) string
}

// Manager owns all sessions, keyed by owner id. Messages from the same
// owner are serialized by a per-owner mutex; different owners run in
// parallel.
type Manager struct {
	store   Store
	disp    Dispatcher
	content Content
	log     zerolog.Logger

	mu    sync.Mutex
	flows map[int64]*flow
	locks map[int64]*sync.Mutex
}

func NewManager(store Store, disp Dispatcher, content Content, log zerolog.Logger) *Manager {
	return &Manager{
		store:   store,
		disp:    disp,
		content: content,
		log:     log,
		flows:   make(map[int64]*flow),
		locks:   make(map[int64]*sync.Mutex),
	}
}

// HandleMessage runs one input through the state machine. It reports false
// when the owner has no session and the text is not a recognized command;
// the router then decides what to do with the message. A non-nil error is a
// store failure: the flow is already aborted, the caller only logs.
func (m *Manager) HandleMessage(ctx context.Context, ownerID int64, text string) (bool, error) {
	lock := m.ownerLock(ownerID)
	lock.Lock()
	defer lock.Unlock()

	if f := m.flow(ownerID); f != nil {
		return true, m.advance(ctx, ownerID, f, text)
	}

	switch ParseCommand(text) {
	case CmdAdd:
		m.setFlow(ownerID, &flow{state: StateAwaitingName})
		m.reply(ctx, ownerID, "Введи имя:")
	case CmdList:
		return true, m.showList(ctx, ownerID)
	case CmdDelete:
		m.setFlow(ownerID, &flow{state: StateAwaitingDeleteID})
		m.reply(ctx, ownerID, "Введи ID для удаления:")
	case CmdEdit:
		m.setFlow(ownerID, &flow{state: StateAwaitingEditID})
		m.reply(ctx, ownerID, "Введи ID для изменения:")
	case CmdCongratulate:
		return true, m.startCongrats(ctx, ownerID)
	default:
		return false, nil
	}
	return true, nil
}

// Active reports whether the owner is mid-flow.
func (m *Manager) Active(ownerID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flows[ownerID] != nil
}

func (m *Manager) advance(ctx context.Context, ownerID int64, f *flow, text string) error {
	switch f.state {

	case StateAwaitingName:
		f.name = text
		f.state = StateAwaitingDate
		m.reply(ctx, ownerID, "Введи дату (дд.мм.гггг):")

	case StateAwaitingDate:
		if !validDate(text) {
			// stay in place, scratch untouched
			m.reply(ctx, ownerID, "Неверный формат. Пример: 04.12.2001")
			return nil
		}
		id, err := m.store.Create(ctx, ownerID, f.name, text)
		if err != nil {
			return m.abort(ctx, ownerID, err)
		}
		m.clearFlow(ownerID)
		m.log.Debug().Int64("owner", ownerID).Int64("id", id).Msg("birthday added")
		m.reply(ctx, ownerID, "Готово!")

	case StateAwaitingDeleteID:
		m.clearFlow(ownerID)
		id, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			// delete flow aborts on bad input, no re-prompt
			m.reply(ctx, ownerID, "Ошибка — неверный ID.")
			return nil
		}
		if err := m.store.DeleteByID(ctx, id); err != nil {
			return m.abort(ctx, ownerID, err)
		}
		// deleting an absent id is a no-op, still reported as success
		m.reply(ctx, ownerID, "Удалено.")

	case StateAwaitingEditID:
		id, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			// id entry re-prompts in place
			m.reply(ctx, ownerID, "ID должен быть числом.")
			return nil
		}
		f.editID = id
		f.state = StateAwaitingEditName
		m.reply(ctx, ownerID, "Введи новое имя:")

	case StateAwaitingEditName:
		f.newName = text
		f.state = StateAwaitingEditDate
		m.reply(ctx, ownerID, "Новая дата (дд.мм.гггг):")

	case StateAwaitingEditDate:
		if !validDate(text) {
			m.reply(ctx, ownerID, "Неверный формат даты.")
			return nil
		}
		if err := m.store.UpdateByID(ctx, f.editID, f.newName, text); err != nil {
			return m.abort(ctx, ownerID, err)
		}
		m.clearFlow(ownerID)
		m.reply(ctx, ownerID, "Обновлено!")

	case StateAwaitingCongratsID:
		m.clearFlow(ownerID)
		id, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			m.reply(ctx, ownerID, "Ошибка. ID должен быть числом.")
			return nil
		}
		rec, err := m.store.GetOwned(ctx, id, ownerID)
		if errors.Is(err, pgx.ErrNoRows) {
			m.reply(ctx, ownerID, "ID не найден.")
			return nil
		}
		if err != nil {
			return m.abort(ctx, ownerID, err)
		}
		m.reply(ctx, ownerID, m.content.Congratulation(rec.Name))

	default:
		// unreachable; drop the broken session rather than wedge the user
		m.clearFlow(ownerID)
	}
	return nil
}

func (m *Manager) showList(ctx context.Context, ownerID int64) error {
	recs, err := m.store.List(ctx, ownerID)
	if err != nil {
		return m.abort(ctx, ownerID, err)
	}
	if len(recs) == 0 {
		m.reply(ctx, ownerID, "У тебя нет записей.")
		return nil
	}
	var b strings.Builder
	b.WriteString("Твои записи:\n\n")
	for _, r := range recs {
		fmt.Fprintf(&b, "ID %d — %s, %s\n", r.ID, r.Name, r.Date)
	}
	m.reply(ctx, ownerID, b.String())
	return nil
}

func (m *Manager) startCongrats(ctx context.Context, ownerID int64) error {
	recs, err := m.store.List(ctx, ownerID)
	if err != nil {
		return m.abort(ctx, ownerID, err)
	}
	if len(recs) == 0 {
		// stays idle
		m.reply(ctx, ownerID, "У тебя нет записей. Сначала добавь кого-нибудь!")
		return nil
	}
	m.setFlow(ownerID, &flow{state: StateAwaitingCongratsID})
	var b strings.Builder
	b.WriteString("Выбери ID человека для поздравления:\n\n")
	for _, r := range recs {
		fmt.Fprintf(&b, "ID %d — %s\n", r.ID, r.Name)
	}
	m.reply(ctx, ownerID, b.String())
	return nil
}

// abort ends the flow on a store failure: the data path can no longer be
// trusted for this request, so tell the user and surface the error.
func (m *Manager) abort(ctx context.Context, ownerID int64, err error) error {
	m.clearFlow(ownerID)
	m.reply(ctx, ownerID, "❌ Не получилось, попробуй позже (БД)")
	return err
}

func (m *Manager) reply(ctx context.Context, ownerID int64, text string) {
	if err := m.disp.SendText(ctx, ownerID, text); err != nil {
		m.log.Error().Err(err).Int64("owner", ownerID).Msg("reply failed")
	}
}

func (m *Manager) flow(ownerID int64) *flow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flows[ownerID]
}

func (m *Manager) setFlow(ownerID int64, f *flow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flows[ownerID] = f
}

func (m *Manager) clearFlow(ownerID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flows, ownerID)
}

func (m *Manager) ownerLock(ownerID int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[ownerID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[ownerID] = l
	}
	return l
}

func validDate(s string) bool {
	_, err := time.Parse(domain.DateLayout, s)
	return err == nil
}
