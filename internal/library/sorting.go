package library

import (
	"cmp"
	"slices"
	"strings"
)

// SortKey selects how siblings are ordered for display.
type SortKey int

const (
	SortDefault SortKey = iota
	SortNameAsc
	SortNameDesc
	SortLengthAsc
	SortLengthDesc
	SortIDAsc
	SortIDDesc
	SortSizeAsc
	SortSizeDesc
)

// SortKeys returns the keys in menu order.
// The game labels its id sort reversed ("ID +" means 9 - 0), so SortIDDesc
// comes first and carries the "ID +" label.
func SortKeys() []SortKey {
	return []SortKey{
		SortDefault,
		SortNameAsc,
		SortNameDesc,
		SortLengthAsc,
		SortLengthDesc,
		SortIDDesc,
		SortIDAsc,
		SortSizeAsc,
		SortSizeDesc,
	}
}

var sortKeyNames = map[SortKey]string{
	SortDefault:    "default",
	SortNameAsc:    "name.ascending",
	SortNameDesc:   "name.descending",
	SortLengthAsc:  "length.ascending",
	SortLengthDesc: "length.descending",
	SortIDAsc:      "id.ascending",
	SortIDDesc:     "id.descending",
	SortSizeAsc:    "size.ascending",
	SortSizeDesc:   "size.descending",
}

var sortKeyLabels = map[SortKey]string{
	SortDefault:    "Default",
	SortNameAsc:    "Name A-Z",
	SortNameDesc:   "Name Z-A",
	SortLengthAsc:  "Length +",
	SortLengthDesc: "Length -",
	SortIDDesc:     "ID +",
	SortIDAsc:      "ID -",
	SortSizeAsc:    "Size +",
	SortSizeDesc:   "Size -",
}

// String returns the stable identifier of the key, suitable for persistence.
func (k SortKey) String() string {
	if name, ok := sortKeyNames[k]; ok {
		return name
	}
	return sortKeyNames[SortDefault]
}

// Label returns the menu label shown to the user.
func (k SortKey) Label() string {
	if label, ok := sortKeyLabels[k]; ok {
		return label
	}
	return sortKeyLabels[SortDefault]
}

// ParseSortKey is the inverse of String. Unknown names map to SortDefault.
func ParseSortKey(name string) SortKey {
	name = strings.TrimSpace(strings.ToLower(name))
	for key, n := range sortKeyNames {
		if n == name {
			return key
		}
	}
	return SortDefault
}

// SortKeyForLabel returns the key whose menu label is label.
func SortKeyForLabel(label string) (SortKey, bool) {
	for key, l := range sortKeyLabels {
		if l == label {
			return key, true
		}
	}
	return SortDefault, false
}

// Compare orders two siblings. Categories always come before sounds; within
// the same kind the key decides. Categories contribute 0 to length and size.
func (k SortKey) Compare(a, b *Entry) int {
	// categories on top
	if c := cmp.Compare(kindRank(a), kindRank(b)); c != 0 {
		return c
	}

	switch k {
	case SortNameAsc:
		return strings.Compare(a.Name, b.Name)
	case SortNameDesc:
		return strings.Compare(b.Name, a.Name)
	case SortLengthAsc:
		return cmp.Compare(sortDuration(a), sortDuration(b))
	case SortLengthDesc:
		return cmp.Compare(sortDuration(b), sortDuration(a))
	case SortIDAsc:
		return cmp.Compare(a.ID, b.ID)
	case SortIDDesc:
		return cmp.Compare(b.ID, a.ID)
	case SortSizeAsc:
		return cmp.Compare(sortBytes(a), sortBytes(b))
	case SortSizeDesc:
		return cmp.Compare(sortBytes(b), sortBytes(a))
	default:
		return 0
	}
}

// Sort orders sibling entries in place. The sort is stable, so entries the
// key considers equal keep their relative order.
func (k SortKey) Sort(entries []*Entry) {
	slices.SortStableFunc(entries, k.Compare)
}

// Sorted returns a sorted copy of entries, leaving the input untouched.
func (k SortKey) Sorted(entries []*Entry) []*Entry {
	sorted := slices.Clone(entries)
	k.Sort(sorted)
	return sorted
}

func kindRank(e *Entry) int {
	if e.IsCategory() {
		return 0
	}
	return 1
}

func sortDuration(e *Entry) Duration {
	if e.IsSound() {
		return e.Duration
	}
	return 0
}

func sortBytes(e *Entry) int64 {
	if e.IsSound() {
		return e.Bytes
	}
	return 0
}
