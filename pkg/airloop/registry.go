package airloop

import (
	"fmt"
	"strings"
)

// NodeID is an opaque, registry-issued identifier for one point in the
// air-distribution graph. Zero is invalid. Only the Registry mints
// NodeIDs; components pass them by value and never synthesize names.
type NodeID int

// Valid reports whether the id was issued by a registry.
func (id NodeID) Valid() bool {
	return id > 0
}

// Registry is the sole naming authority for one building instance.
// It guarantees global uniqueness of node names and per-zone instance
// suffixes within that instance. A registry is exclusively owned by one
// building-generation run; concurrent buildings each own their own.
type Registry struct {
	names     []string
	index     map[string]NodeID
	instances map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		index:     make(map[string]NodeID),
		instances: make(map[string]int),
	}
}

// Instance mints a unique zone-instance label for a program type, e.g.
// "lobby 1", "lobby 2". A building with several zones of the same
// program gets a distinct suffix per zone, which scopes every node name
// belonging to that zone.
func (r *Registry) Instance(program string) string {
	key := strings.ToLower(strings.TrimSpace(program))
	if key == "" {
		key = "zone"
	}
	r.instances[key]++
	return fmt.Sprintf("%s %d", key, r.instances[key])
}

// Mint issues a NodeID for the given zone instance and role label.
// The composed name is guaranteed unique across the building; a repeat
// of the same instance/label pair gets a disambiguating counter rather
// than a silently shared identity.
func (r *Registry) Mint(instance, label string) NodeID {
	name := fmt.Sprintf("%s %s", instance, label)
	if _, taken := r.index[name]; taken {
		for n := 2; ; n++ {
			candidate := fmt.Sprintf("%s %d", name, n)
			if _, taken := r.index[candidate]; !taken {
				name = candidate
				break
			}
		}
	}
	r.names = append(r.names, name)
	id := NodeID(len(r.names))
	r.index[name] = id
	return id
}

// Name returns the text form of an id. Serialization is the only
// legitimate consumer; components must compare NodeIDs, not names.
// Panics on an id the registry never issued.
func (r *Registry) Name(id NodeID) string {
	if !r.Has(id) {
		panic(fmt.Sprintf("airloop: node id %d was never minted", id))
	}
	return r.names[id-1]
}

// Has reports whether the id was issued by this registry.
func (r *Registry) Has(id NodeID) bool {
	return id >= 1 && int(id) <= len(r.names)
}

// Len returns the number of minted nodes.
func (r *Registry) Len() int {
	return len(r.names)
}
