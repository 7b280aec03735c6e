package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/proofbound/textkeep/internal/identity"
	"github.com/proofbound/textkeep/internal/tapback"
)

const messageColumns = `
	SELECT DISTINCT m.ROWID, m.text, m.date, m.is_from_me, m.cache_has_attachments,
		m.attributedBody, COALESCE(m.handle_id, 0),
		COALESCE(m.associated_message_type, 0), COALESCE(m.group_action_type, 0),
		COALESCE(h.id, '')
	FROM message m
	LEFT JOIN handle h ON m.handle_id = h.ROWID
	JOIN chat_message_join cmj ON m.ROWID = cmj.message_id`

// Messages loads a conversation's messages in chronological order,
// optionally bounded by an inclusive [start, end] window (zero times mean
// unbounded). Retracted reactions are skipped entirely.
func (r *Repository) Messages(ctx context.Context, conv Conversation, start, end time.Time) ([]Message, error) {
	query, args := messageQuery(conv)
	if !start.IsZero() {
		query += " AND m.date >= ?"
		args = append(args, toAppleNanos(start))
	}
	if !end.IsZero() {
		query += " AND m.date <= ?"
		args = append(args, toAppleNanos(end))
	}
	query += " ORDER BY m.date ASC"

	return r.queryMessages(ctx, conv, query, args)
}

// RecentMessages loads the limit most recent messages of a conversation,
// returned in chronological order for preview rendering.
func (r *Repository) RecentMessages(ctx context.Context, conv Conversation, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 5
	}
	query, args := messageQuery(conv)
	query += " ORDER BY m.date DESC LIMIT ?"
	args = append(args, limit)

	msgs, err := r.queryMessages(ctx, conv, query, args)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// messageQuery builds the base filter for a conversation: group chats match
// by chat ID, individual conversations by the contact's full handle set.
func messageQuery(conv Conversation) (string, []any) {
	if conv.Group != nil {
		return messageColumns + ` WHERE cmj.chat_id = ?`, []any{conv.Group.ChatID}
	}

	ids := conv.Contact.HandleIDs()
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	query := messageColumns + `
	JOIN chat_handle_join chj ON cmj.chat_id = chj.chat_id
	WHERE chj.handle_id IN (` + placeholders(len(ids)) + `)`
	return query, args
}

func (r *Repository) queryMessages(ctx context.Context, conv Conversation, query string, args []any) ([]Message, error) {
	db, err := open(r.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var msgs []Message
	for rows.Next() {
		var (
			m              Message
			text           sql.NullString
			dateNanos      int64
			fromMe         int64
			hasAttachments int64
			body           []byte
			assocType      int64
			groupAction    int64
			senderID       string
		)
		if err := rows.Scan(&m.ID, &text, &dateNanos, &fromMe, &hasAttachments,
			&body, &m.SenderHandleID, &assocType, &groupAction, &senderID); err != nil {
			return nil, err
		}

		decoded := r.decoder.Decode(text.String, body)
		res := tapback.Apply(decoded, assocType, groupAction)
		if res.Kind == tapback.RemovedReaction {
			continue
		}

		m.Text = res.Text
		m.Kind = res.Kind
		m.Emoji = res.Emoji
		m.Verb = res.Verb
		m.Timestamp = fromAppleNanos(dateNanos)
		m.FromMe = fromMe == 1

		if conv.Group != nil && !m.FromMe {
			m.SenderIdentifier = senderID
			m.SenderName = r.senderName(senderID, conv.Group)
		}

		if hasAttachments == 1 {
			m.Attachments, err = attachmentsFor(ctx, db, m.ID)
			if err != nil {
				return nil, err
			}
		}

		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// senderName prefers the already-resolved participant entry, so the whole
// export shows one consistent name per handle.
func (r *Repository) senderName(identifier string, g *Group) string {
	for _, p := range g.Participants {
		if p.Identifier == identifier {
			return p.DisplayName
		}
	}
	if identifier == "" {
		return ""
	}
	return identity.DisplayName(identifier, r.dir)
}

func attachmentsFor(ctx context.Context, db *sql.DB, messageID int64) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT a.filename
		FROM attachment a
		JOIN message_attachment_join maj ON a.ROWID = maj.attachment_id
		WHERE maj.message_id = ?
		ORDER BY a.ROWID`, messageID)
	if err != nil {
		return nil, fmt.Errorf("query attachments of message %d: %w", messageID, err)
	}
	defer func() { _ = rows.Close() }()

	var files []string
	for rows.Next() {
		var filename sql.NullString
		if err := rows.Scan(&filename); err != nil {
			return nil, err
		}
		if filename.String != "" {
			files = append(files, filename.String)
		}
	}
	return files, rows.Err()
}
