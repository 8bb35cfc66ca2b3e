package internal

import "fmt"

// KeyKind tells what part of a target a Key stands for.
type KeyKind int

const (
	// KeyProp is a named property of a record or a custom property of a collection.
	KeyProp KeyKind = iota
	// KeyMember is a set member, a map key or a sequence index.
	KeyMember
	// KeySize is the number of members or keys of a target.
	KeySize
	// KeyIterate stands for the structure and order of a target as seen by iteration.
	KeyIterate
)

// Key identifies what was read or mutated within a target.
type Key struct {
	Kind KeyKind
	Name any // identity of the property, member or index; nil for size and iterate
}

var (
	SizeKey    = Key{Kind: KeySize}
	IterateKey = Key{Kind: KeyIterate}
)

func PropKey(name string) Key {
	return Key{Kind: KeyProp, Name: name}
}

// MemberKey must be given an identity (see collection.Identity), not a raw value.
func MemberKey(id any) Key {
	return Key{Kind: KeyMember, Name: id}
}

func (k Key) String() string {
	switch k.Kind {
	case KeyProp:
		return fmt.Sprintf("prop(%v)", k.Name)
	case KeyMember:
		return fmt.Sprintf("member(%v)", k.Name)
	case KeySize:
		return "size"
	case KeyIterate:
		return "iterate"
	}
	return "unknown"
}

// Label is a low cardinality name for the key kind, used in metrics.
func (k Key) Label() string {
	switch k.Kind {
	case KeyProp:
		return "prop"
	case KeyMember:
		return "member"
	case KeySize:
		return "size"
	case KeyIterate:
		return "iterate"
	}
	return "unknown"
}
