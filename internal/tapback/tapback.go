// Package tapback reinterprets reaction and system-action metadata stored
// alongside message rows into display text.
package tapback

import (
	"fmt"
	"strings"
)

// Kind classifies a message row after metadata interpretation.
type Kind int

const (
	Regular Kind = iota
	Reaction
	RemovedReaction // caller must drop the row entirely
	SystemAction
)

// Result is the interpreted row: its kind and the text to display.
type Result struct {
	Kind  Kind
	Text  string
	Emoji string
	Verb  string
}

// Reaction type codes occupy [2000,3000); their retractions [3000,3006).
const (
	reactionBase  = 2000
	reactionEnd   = 3000
	removedEnd    = 3006
	memberChanged = 1
)

type reaction struct {
	emoji string
	verb  string
}

var reactions = map[int64]reaction{
	2000: {"❤️", "Loved"},
	2001: {"\U0001F44D", "Liked"},
	2002: {"\U0001F44E", "Disliked"},
	2003: {"\U0001F602", "Laughed at"},
	2004: {"‼️", "Emphasized"},
	2005: {"❓", "Questioned"},
}

// Apply interprets a row's associated-message type and group-action type.
// Text passes through unchanged for regular messages.
func Apply(text string, associatedType, groupActionType int64) Result {
	switch {
	case associatedType >= reactionBase && associatedType < reactionEnd:
		r, known := reactions[associatedType]
		if !known {
			return Result{Kind: Reaction, Text: text}
		}
		return Result{
			Kind:  Reaction,
			Text:  formatReaction(r, text),
			Emoji: r.emoji,
			Verb:  r.verb,
		}
	case associatedType >= reactionEnd && associatedType < removedEnd:
		return Result{Kind: RemovedReaction}
	case groupActionType == memberChanged:
		return Result{Kind: SystemAction, Text: "ℹ️ [System] " + text}
	}
	return Result{Kind: Regular, Text: text}
}

// formatReaction renders a tapback. The store duplicates the English verb
// form in the text ("Loved a message"); when present, the target excerpt
// after the verb is kept.
func formatReaction(r reaction, text string) string {
	if rest, ok := strings.CutPrefix(text, r.verb+" "); ok {
		return fmt.Sprintf("%s %s: %s", r.emoji, r.verb, rest)
	}
	return fmt.Sprintf("%s %s this message", r.emoji, r.verb)
}
