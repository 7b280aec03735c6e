// Package directory provides the external contact lookup: a rebuildable
// index mapping normalized handle identifiers to durable contact entries,
// loaded from a TOML address book. Consumers only ever read it.
package directory

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/proofbound/textkeep/internal/identity"
)

// Entry is a resolved directory entry.
type Entry struct {
	Ref         string
	DisplayName string
}

type addressBook struct {
	Contacts []bookContact `toml:"contact"`
}

type bookContact struct {
	Ref    string   `toml:"ref"`
	Name   string   `toml:"name"`
	Phones []string `toml:"phones"`
	Emails []string `toml:"emails"`
}

// Index is an in-memory lookup keyed by normalized identifier. It is
// explicitly rebuildable via Reload; there is no lazy global state.
type Index struct {
	path string

	mu    sync.RWMutex
	byKey map[string]Entry
}

// Load builds an index from the address book at path. A missing file yields
// an empty index, not an error: the pipeline degrades to normalized-key
// grouping, exactly as when the directory has no matches.
func Load(path string) (*Index, error) {
	idx := &Index{path: path, byKey: map[string]Entry{}}
	if err := idx.Reload(); err != nil {
		return nil, err
	}
	return idx, nil
}

// Reload re-reads the address book and atomically replaces the index.
func (x *Index) Reload() error {
	var book addressBook
	if _, err := toml.DecodeFile(x.path, &book); err != nil {
		if errors.As(err, new(*fs.PathError)) {
			x.mu.Lock()
			x.byKey = map[string]Entry{}
			x.mu.Unlock()
			return nil
		}
		return fmt.Errorf("decode address book %s: %w", x.path, err)
	}

	byKey := make(map[string]Entry)
	for _, c := range book.Contacts {
		ref := c.Ref
		keys := make([]string, 0, len(c.Phones)+len(c.Emails))
		for _, p := range c.Phones {
			keys = append(keys, identity.NormalizePhone(p))
		}
		for _, e := range c.Emails {
			keys = append(keys, identity.NormalizeKey(e))
		}
		if ref == "" && len(keys) > 0 {
			// First normalized identifier doubles as the durable ref.
			ref = keys[0]
		}
		for _, k := range keys {
			if k == "" {
				continue
			}
			if _, exists := byKey[k]; !exists {
				byKey[k] = Entry{Ref: ref, DisplayName: c.Name}
			}
		}
	}

	x.mu.Lock()
	x.byKey = byKey
	x.mu.Unlock()
	return nil
}

// Lookup resolves an identifier to its directory entry. Implements
// identity.Directory.
func (x *Index) Lookup(identifier string) (ref, displayName string, ok bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	e, ok := x.byKey[identity.NormalizeKey(identifier)]
	if !ok {
		return "", "", false
	}
	return e.Ref, e.DisplayName, true
}

// Size returns the number of indexed identifiers.
func (x *Index) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.byKey)
}

var _ identity.Directory = (*Index)(nil)
