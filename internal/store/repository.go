package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/proofbound/textkeep/internal/archive"
	"github.com/proofbound/textkeep/internal/bus"
	"github.com/proofbound/textkeep/internal/identity"
)

// Repository issues read-only relational queries against the message store.
// It holds no open connection: each operation opens and releases its own
// handle, so concurrent listing/preview/export loads share no state.
type Repository struct {
	path    string
	dir     identity.Directory
	decoder archive.Decoder
	bus     *bus.Bus
	logger  *zap.Logger
}

// NewRepository creates a repository over the store at path. dir and b may
// be nil (normalized-key grouping only, no events).
func NewRepository(path string, dir identity.Directory, decoder archive.Decoder, b *bus.Bus, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{path: path, dir: dir, decoder: decoder, bus: b, logger: logger}
}

// IndividualHandles returns all (handleID, identifier) pairs belonging to
// single-participant chats.
func (r *Repository) IndividualHandles(ctx context.Context) ([]identity.Handle, error) {
	db, err := open(r.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, `
		SELECT DISTINCT h.ROWID, h.id
		FROM handle h
		JOIN chat_handle_join chj ON h.ROWID = chj.handle_id
		WHERE chj.chat_id IN (
			SELECT chat_id FROM chat_handle_join
			GROUP BY chat_id HAVING COUNT(handle_id) = 1
		)
		ORDER BY h.id`)
	if err != nil {
		return nil, fmt.Errorf("query individual handles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var handles []identity.Handle
	for rows.Next() {
		var h identity.Handle
		if err := rows.Scan(&h.ID, &h.Identifier); err != nil {
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, rows.Err()
}

// GroupChats returns all chats with more than one participant, with their
// participants resolved. Naming falls back display name, then room name,
// then synthesis from participants.
func (r *Repository) GroupChats(ctx context.Context) ([]Group, error) {
	db, err := open(r.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, `
		SELECT c.ROWID, COALESCE(c.display_name, ''), COALESCE(c.room_name, '')
		FROM chat c
		WHERE c.ROWID IN (
			SELECT chat_id FROM chat_handle_join
			GROUP BY chat_id HAVING COUNT(handle_id) > 1
		)
		ORDER BY c.ROWID`)
	if err != nil {
		return nil, fmt.Errorf("query group chats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	type chatRow struct {
		id       int64
		name     string
		roomName string
	}
	var chats []chatRow
	for rows.Next() {
		var c chatRow
		if err := rows.Scan(&c.id, &c.name, &c.roomName); err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	groups := make([]Group, 0, len(chats))
	for _, c := range chats {
		participants, err := r.participants(ctx, db, c.id)
		if err != nil {
			return nil, err
		}
		name := c.name
		if name == "" {
			name = c.roomName
		}
		if name == "" {
			name = synthesizeGroupName(participants)
		}
		groups = append(groups, Group{
			ID:           fmt.Sprintf("group_%d", c.id),
			ChatID:       c.id,
			Name:         name,
			Participants: participants,
		})
	}
	return groups, nil
}

// Participants returns the distinct handles of one chat with display names
// resolved through the directory lookup.
func (r *Repository) Participants(ctx context.Context, chatID int64) ([]Participant, error) {
	db, err := open(r.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	return r.participants(ctx, db, chatID)
}

func (r *Repository) participants(ctx context.Context, db *sql.DB, chatID int64) ([]Participant, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT DISTINCT h.ROWID, h.id
		FROM handle h
		JOIN chat_handle_join chj ON h.ROWID = chj.handle_id
		WHERE chj.chat_id = ?
		ORDER BY h.ROWID`, chatID)
	if err != nil {
		return nil, fmt.Errorf("query participants of chat %d: %w", chatID, err)
	}
	defer func() { _ = rows.Close() }()

	var participants []Participant
	for rows.Next() {
		var p Participant
		if err := rows.Scan(&p.HandleID, &p.Identifier); err != nil {
			return nil, err
		}
		p.DisplayName = identity.DisplayName(p.Identifier, r.dir)
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// Conversations merges consolidated contacts and group chats under the
// single total order used everywhere: case-insensitive display name, ties
// by ID.
func (r *Repository) Conversations(ctx context.Context) ([]Conversation, error) {
	handles, err := r.IndividualHandles(ctx)
	if err != nil {
		return nil, err
	}
	contacts := identity.Consolidate(handles, r.dir)

	groups, err := r.GroupChats(ctx)
	if err != nil {
		return nil, err
	}

	convs := make([]Conversation, 0, len(contacts)+len(groups))
	for i := range contacts {
		convs = append(convs, Conversation{Contact: &contacts[i]})
	}
	for i := range groups {
		convs = append(convs, Conversation{Group: &groups[i]})
	}

	sort.Slice(convs, func(i, j int) bool {
		return identity.Less(convs[i].DisplayName(), convs[i].ID(), convs[j].DisplayName(), convs[j].ID())
	})

	r.logger.Info("conversations loaded",
		zap.Int("contacts", len(contacts)),
		zap.Int("groups", len(groups)))
	if r.bus != nil {
		r.bus.Publish(bus.Event{
			Kind:      bus.KindConversationsLoaded,
			Timestamp: time.Now(),
			Payload:   bus.ConversationsLoaded{Contacts: len(contacts), Groups: len(groups)},
		})
	}
	return convs, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
