package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/proofbound/textkeep/internal/identity"
	"github.com/proofbound/textkeep/internal/tapback"
)

// Group represents a group chat: more than one participant by definition
// (single-participant chats surface as Contacts instead).
type Group struct {
	ID           string // "group_" + chat ROWID
	ChatID       int64
	Name         string
	Participants []Participant
}

// Participant is one distinct handle in a group chat.
type Participant struct {
	HandleID    int64
	Identifier  string
	DisplayName string
}

// Conversation is a tagged union over an individual contact and a group
// chat: exactly one of Contact/Group is set.
type Conversation struct {
	Contact *identity.Contact
	Group   *Group
}

// IsGroup reports which variant is set.
func (c Conversation) IsGroup() bool { return c.Group != nil }

// ID returns the stable conversation identifier used for selection and
// export naming.
func (c Conversation) ID() string {
	if c.Group != nil {
		return c.Group.ID
	}
	return c.Contact.ID
}

// DisplayName returns the resolved conversation name.
func (c Conversation) DisplayName() string {
	if c.Group != nil {
		return c.Group.Name
	}
	return c.Contact.DisplayName
}

// ParticipantCount returns the number of parties in the conversation.
func (c Conversation) ParticipantCount() int {
	if c.Group != nil {
		return len(c.Group.Participants)
	}
	return 1
}

// ParticipantNames returns names usable for search and rendering. For
// individual conversations this includes raw identifiers, matching how the
// contact is addressed.
func (c Conversation) ParticipantNames() []string {
	if c.Group != nil {
		names := make([]string, len(c.Group.Participants))
		for i, p := range c.Group.Participants {
			names[i] = p.DisplayName
		}
		return names
	}
	return append([]string{c.Contact.DisplayName}, c.Contact.Identifiers()...)
}

// Message is a fully decoded message row. Sender fields are empty for
// individual conversations (the sender is implicit).
type Message struct {
	ID               int64
	Text             string
	Timestamp        time.Time
	FromMe           bool
	Attachments      []string
	SenderHandleID   int64
	SenderIdentifier string
	SenderName       string
	Kind             tapback.Kind
	Emoji            string
	Verb             string
}

// synthesizeGroupName builds a display name for a group chat without one:
// up to three participant names, a "+N more" tail, or a fixed fallback when
// no participants resolve.
func synthesizeGroupName(participants []Participant) string {
	var names []string
	for _, p := range participants {
		if p.DisplayName != "" {
			names = append(names, p.DisplayName)
		}
		if len(names) == 3 {
			break
		}
	}
	if len(names) == 0 {
		return "Unnamed Group Chat"
	}
	remaining := len(participants) - len(names)
	if remaining > 0 {
		return fmt.Sprintf("Group with %s and %d more", strings.Join(names, ", "), remaining)
	}
	return "Group with " + strings.Join(names, ", ")
}
