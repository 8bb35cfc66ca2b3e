package collection

import (
	"maps"
	"slices"
)

// Props is an ordinary named property bag carried by raw collections,
// next to their members.
type Props struct {
	values map[string]any
}

// Prop returns the property value, or nil if it is not set.
func (p *Props) Prop(name string) any {
	return p.values[name]
}

// LookupProp returns the property value and whether it is set.
func (p *Props) LookupProp(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

func (p *Props) HasProp(name string) bool {
	_, ok := p.values[name]
	return ok
}

func (p *Props) SetProp(name string, value any) {
	if p.values == nil {
		p.values = make(map[string]any)
	}
	p.values[name] = value
}

// DeleteProp removes the property and reports whether it was set.
func (p *Props) DeleteProp(name string) bool {
	if _, ok := p.values[name]; !ok {
		return false
	}
	delete(p.values, name)
	return true
}

// PropNames returns the property names in sorted order.
func (p *Props) PropNames() []string {
	return slices.Sorted(maps.Keys(p.values))
}
