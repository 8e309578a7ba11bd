package post

import (
	"fmt"
	"sync"
)

// Capabilities holds a post type's own names for the primitive
// capabilities that gate operations on its posts.
type Capabilities struct {
	EditPosts          string
	EditOthersPosts    string
	EditPublishedPosts string
	EditPrivatePosts   string

	DeletePosts          string
	DeleteOthersPosts    string
	DeletePublishedPosts string
	DeletePrivatePosts   string

	PublishPosts     string
	Read             string
	ReadPrivatePosts string
}

// capabilitiesFor derives the capability group for a capability type
// base, e.g. "post" -> edit_posts, "page" -> edit_pages.
func capabilitiesFor(capType string) Capabilities {
	plural := capType + "s"

	return Capabilities{
		EditPosts:            fmt.Sprintf("edit_%s", plural),
		EditOthersPosts:      fmt.Sprintf("edit_others_%s", plural),
		EditPublishedPosts:   fmt.Sprintf("edit_published_%s", plural),
		EditPrivatePosts:     fmt.Sprintf("edit_private_%s", plural),
		DeletePosts:          fmt.Sprintf("delete_%s", plural),
		DeleteOthersPosts:    fmt.Sprintf("delete_others_%s", plural),
		DeletePublishedPosts: fmt.Sprintf("delete_published_%s", plural),
		DeletePrivatePosts:   fmt.Sprintf("delete_private_%s", plural),
		PublishPosts:         fmt.Sprintf("publish_%s", plural),
		Read:                 "read",
		ReadPrivatePosts:     fmt.Sprintf("read_private_%s", plural),
	}
}

// Type describes a registered post type.
type Type struct {
	Name string

	// SupportsAuthor is the participation flag: post types without author
	// support never touch the attribution relation.
	SupportsAuthor bool

	Cap Capabilities
}

// TypeRegistry holds the known post types.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]Type
}

// NewTypeRegistry creates a registry with the built-in types registered.
func NewTypeRegistry() *TypeRegistry {
	r := &TypeRegistry{
		types: make(map[string]Type),
	}

	r.Register(Type{
		Name:           "post",
		SupportsAuthor: true,
		Cap:            capabilitiesFor("post"),
	})
	r.Register(Type{
		Name:           "page",
		SupportsAuthor: true,
		Cap:            capabilitiesFor("page"),
	})

	return r
}

// Register adds or replaces a post type.
func (r *TypeRegistry) Register(t Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t.Name] = t
}

// Get returns the named post type.
func (r *TypeRegistry) Get(name string) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// IsSupported reports whether the named post type participates in
// attribution.
func (r *TypeRegistry) IsSupported(name string) bool {
	t, ok := r.Get(name)
	return ok && t.SupportsAuthor
}

// SupportedTypes returns the names of all participating post types.
func (r *TypeRegistry) SupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name, t := range r.types {
		if t.SupportsAuthor {
			names = append(names, name)
		}
	}
	return names
}
