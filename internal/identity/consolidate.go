package identity

import (
	"sort"
	"strings"
)

// Handle is a single contact address (phone or email) as recorded by the
// message store. Identifiers are kept exactly as stored.
type Handle struct {
	ID         int64
	Identifier string
}

// Contact is the logical person obtained by merging all handles that resolve
// to one directory entry or one normalized key.
type Contact struct {
	ID           string // directory ref if matched, else normalized key
	DisplayName  string
	Handles      []Handle
	DirectoryRef string // empty when grouped by normalized key
}

// HandleIDs returns all handle row IDs for store queries.
func (c *Contact) HandleIDs() []int64 {
	ids := make([]int64, len(c.Handles))
	for i, h := range c.Handles {
		ids[i] = h.ID
	}
	return ids
}

// Identifiers returns all raw identifiers (phone numbers/emails).
func (c *Contact) Identifiers() []string {
	ids := make([]string, len(c.Handles))
	for i, h := range c.Handles {
		ids[i] = h.Identifier
	}
	return ids
}

// Directory resolves a raw identifier to a durable directory entry.
// Implementations are read-only from the consolidator's perspective.
type Directory interface {
	Lookup(identifier string) (ref, displayName string, ok bool)
}

// Consolidate groups raw handles into logical contacts. Handles matching a
// directory entry group by its ref (first-seen display name wins); the rest
// group by normalized key. Output is sorted by the conversation total order.
func Consolidate(handles []Handle, dir Directory) []Contact {
	type group struct {
		ref         string
		displayName string
		handles     []Handle
	}

	groups := make(map[string]*group)
	var order []string

	for _, h := range handles {
		var key string
		g, ok := (*group)(nil), false

		if dir != nil {
			if ref, name, matched := dir.Lookup(h.Identifier); matched {
				key = ref
				if g, ok = groups[key]; !ok {
					if name == "" {
						name = FormatIdentifier(h.Identifier)
					}
					g = &group{ref: ref, displayName: name}
				}
			}
		}
		if key == "" {
			key = NormalizeKey(h.Identifier)
			if g, ok = groups[key]; !ok {
				g = &group{displayName: FormatIdentifier(h.Identifier)}
			}
		}

		g.handles = append(g.handles, h)
		if !ok {
			groups[key] = g
			order = append(order, key)
		}
	}

	contacts := make([]Contact, 0, len(order))
	for _, key := range order {
		g := groups[key]
		contacts = append(contacts, Contact{
			ID:           key,
			DisplayName:  g.displayName,
			Handles:      g.handles,
			DirectoryRef: g.ref,
		})
	}

	sort.Slice(contacts, func(i, j int) bool {
		return Less(contacts[i].DisplayName, contacts[i].ID, contacts[j].DisplayName, contacts[j].ID)
	})
	return contacts
}

// DisplayName resolves an identifier through the directory, falling back to
// a formatted identifier. Used for group participants (no grouping).
func DisplayName(identifier string, dir Directory) string {
	if dir != nil {
		if _, name, ok := dir.Lookup(identifier); ok && name != "" {
			return name
		}
	}
	return FormatIdentifier(identifier)
}

// Less is the conversation total order: ascending case-insensitive display
// name, ties broken by ID. Strict and stable across runs on identical input.
func Less(nameA, idA, nameB, idB string) bool {
	la, lb := strings.ToLower(nameA), strings.ToLower(nameB)
	if la != lb {
		return la < lb
	}
	return idA < idB
}
