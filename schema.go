package statv

import "fmt"

// Schema is the explicit registration table of the stats a container type
// declares. It replaces runtime introspection: a container type lists its
// descriptors once, at definition time, and every instance shares the
// resulting Schema read-only.
type Schema struct {
	stats []Descriptor
	byID  map[string]Descriptor
}

// NewSchema builds a Schema from the given descriptors. Declaration order
// is preserved and determines initialization order at construction.
// Duplicate ids are a definition-time programmer error and panic.
func NewSchema(stats ...Descriptor) *Schema {
	s := &Schema{
		stats: make([]Descriptor, 0, len(stats)),
		byID:  make(map[string]Descriptor, len(stats)),
	}
	for _, d := range stats {
		if _, exists := s.byID[d.ID()]; exists {
			panic(fmt.Sprintf("statv: duplicate stat id %q in schema", d.ID()))
		}
		s.stats = append(s.stats, d)
		s.byID[d.ID()] = d
	}
	return s
}

// Stats returns the declared descriptors in declaration order.
func (s *Schema) Stats() []Descriptor {
	out := make([]Descriptor, len(s.stats))
	copy(out, s.stats)
	return out
}

// Lookup returns the declared descriptor for an id, or nil.
func (s *Schema) Lookup(id string) Descriptor {
	return s.byID[id]
}

// owns reports whether d itself is declared by the schema. A distinct
// descriptor that happens to share an id is foreign.
func (s *Schema) owns(d Descriptor) bool {
	return s.byID[d.ID()] == d
}
