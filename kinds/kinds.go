package kinds

const (
	length   = 64
	idLength = 8
	depthMax = length / idLength
	idMask   = (1 << idLength) - 1
)

// Bases returns the "base" IDs at each level
// (beyond the first) by shifting and masking.
func Bases(t uint64) [depthMax]uint64 {
	var bases [depthMax]uint64
	for i := 1; i < depthMax; i++ {
		bases[i-1] = (t >> (idLength * i)) & idMask
	}
	return bases
}

func Kind(id uint64, bases ...uint64) uint64 {
	id = id & idMask
	ids := make(map[uint64]struct{})

	for _, base := range bases {
		for j := 0; j < depthMax; j++ {
			baseId := (base >> (idLength * j)) & idMask
			if baseId == 0 {
				break
			}
			if _, ok := ids[baseId]; !ok {
				ids[baseId] = struct{}{}
				id |= baseId << (idLength * len(ids))
			}
		}
	}
	return id
}

// IsKind checks if 'kind' matches any of the bases provided.
func IsKind(kind uint64, bases ...uint64) bool {
	for _, base := range bases {
		baseId := base & idMask
		if kind == baseId {
			return true
		}
		for i := 0; i < depthMax; i++ {
			currentId := (kind >> (idLength * i)) & idMask
			if currentId == baseId {
				return true
			}
		}
	}
	return false
}

// The slice of the SysML v2 metamodel the converter cares about.
// Kinds form a lattice: IsKind(StateUsage, Usage) holds,
// IsKind(StateUsage, Definition) does not.
var (
	Null         = Kind(0)
	Element      = Kind(1)
	Relationship = Kind(2, Element)
	Definition   = Kind(3, Element)
	Usage        = Kind(4, Element)

	Specialization = Kind(5, Relationship)
	Typing         = Kind(6, Specialization)

	StateDefinition     = Kind(7, Definition)
	AttributeDefinition = Kind(8, Definition)
	PartDefinition      = Kind(9, Definition)

	StateUsage      = Kind(10, Usage)
	TransitionUsage = Kind(11, Usage)
	ActionUsage     = Kind(12, Usage)
	AcceptAction    = Kind(13, ActionUsage)
	SuccessionUsage = Kind(14, Usage)
	ReferenceUsage  = Kind(15, Usage)
	AttributeUsage  = Kind(16, Usage)
)
