// Package lightmap binds baked lightmap textures to imported materials.
//
// A Registry is an ordered, immutable set of named lightmap textures. A
// Binder walks the scene's materials once the model import has finished and
// attaches the texture whose name matches each material's metadata.
package lightmap

import (
	"errors"
	"fmt"

	"github.com/Faultbox/lightmap-viewer/internal/engine/texture"
)

// Registry validation errors.
var (
	ErrEmptyName     = errors.New("lightmap name is empty")
	ErrDuplicateName = errors.New("duplicate lightmap name")
	ErrNilTexture    = errors.New("lightmap texture is nil")
)

// Entry pairs a lightmap name with its texture.
type Entry struct {
	Name    string
	Texture *texture.Texture
}

// Registry is an ordered collection of uniquely named lightmaps.
type Registry struct {
	entries []Entry
}

// NewRegistry validates entries and keeps them in the given order.
func NewRegistry(entries ...Entry) (*Registry, error) {
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("entry %d: %w", i, ErrEmptyName)
		}
		if e.Texture == nil {
			return nil, fmt.Errorf("entry %q: %w", e.Name, ErrNilTexture)
		}
		if _, dup := seen[e.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, e.Name)
		}
		seen[e.Name] = struct{}{}
	}

	return &Registry{entries: append([]Entry(nil), entries...)}, nil
}

// Lookup returns the texture registered under name. Matching is exact and
// case-sensitive; the first entry in registry order wins.
func (r *Registry) Lookup(name string) (*texture.Texture, bool) {
	if r == nil {
		return nil, false
	}
	for _, e := range r.entries {
		if e.Name == name {
			return e.Texture, true
		}
	}
	return nil, false
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Entries returns a copy of the entries in registry order.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	return append([]Entry(nil), r.entries...)
}

// Names returns the entry names in registry order.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.Len())
	for _, e := range r.Entries() {
		names = append(names, e.Name)
	}
	return names
}

// Textures returns the textures in registry order.
func (r *Registry) Textures() []*texture.Texture {
	out := make([]*texture.Texture, 0, r.Len())
	for _, e := range r.Entries() {
		out = append(out, e.Texture)
	}
	return out
}
