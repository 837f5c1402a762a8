package library

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind distinguishes the two shapes of a library entry.
type Kind int

const (
	KindCategory Kind = iota
	KindSound
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindCategory:
		return "category"
	case KindSound:
		return "sound"
	default:
		return "unknown"
	}
}

// RootParentID is the parent id carried by the top-level category.
const RootParentID = 0

// Duration is a sound length in centiseconds, the unit used by the library manifest.
type Duration int64

// Seconds returns the duration in seconds
func (d Duration) Seconds() float64 {
	return float64(d) / 100
}

// String renders the duration as seconds with two decimals (e.g. 123 -> "1.23").
func (d Duration) String() string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	return fmt.Sprintf("%s%d.%02d", sign, d/100, d%100)
}

// EntryKey identifies an entry. Categories and sounds are keyed separately
// since the manifest does not promise a shared id space.
type EntryKey struct {
	Kind Kind
	ID   int
}

// String returns a compact textual key such as "c12" or "s345".
func (k EntryKey) String() string {
	prefix := "s"
	if k.Kind == KindCategory {
		prefix = "c"
	}
	return prefix + strconv.Itoa(k.ID)
}

// Entry is a node of the library tree: either a category owning an ordered
// list of children, or a sound leaf. ParentID refers to the owning category
// by value; there are no parent pointers.
type Entry struct {
	ID       int
	Name     string
	ParentID int
	Kind     Kind

	// Sound-only fields
	Duration Duration
	Bytes    int64

	// Category-only field
	Children []*Entry
}

// NewCategory creates a category entry owning the given children.
func NewCategory(id int, name string, parentID int, children ...*Entry) *Entry {
	return &Entry{
		ID:       id,
		Name:     name,
		ParentID: parentID,
		Kind:     KindCategory,
		Children: children,
	}
}

// NewSound creates a sound leaf.
func NewSound(id int, name string, parentID int, duration Duration, bytes int64) *Entry {
	return &Entry{
		ID:       id,
		Name:     name,
		ParentID: parentID,
		Kind:     KindSound,
		Duration: duration,
		Bytes:    bytes,
	}
}

// IsCategory reports whether the entry is a category
func (e *Entry) IsCategory() bool {
	return e.Kind == KindCategory
}

// IsSound reports whether the entry is a sound
func (e *Entry) IsSound() bool {
	return e.Kind == KindSound
}

// IsRoot reports whether the entry is the top-level category.
func (e *Entry) IsRoot() bool {
	return e.IsCategory() && e.ParentID == RootParentID
}

// Key returns the identity of the entry.
func (e *Entry) Key() EntryKey {
	return EntryKey{Kind: e.Kind, ID: e.ID}
}

// FileName returns the name of the cached audio file for a sound.
func (e *Entry) FileName() string {
	return SoundFileName(e.ID)
}

// SoundFileName returns the on-disk file name used for the sound with the given id.
func SoundFileName(id int) string {
	return "s" + strconv.Itoa(id) + ".ogg"
}

// ParseSoundFileName extracts the sound id from a name produced by SoundFileName.
func ParseSoundFileName(name string) (int, bool) {
	digits, ok := strings.CutPrefix(name, "s")
	if !ok {
		return 0, false
	}
	digits, ok = strings.CutSuffix(digits, ".ogg")
	if !ok || digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return 0, false
	}
	id, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Clone returns a deep copy of the subtree rooted at e.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	clone := *e
	if e.Children != nil {
		clone.Children = make([]*Entry, len(e.Children))
		for i, child := range e.Children {
			clone.Children[i] = child.Clone()
		}
	}
	return &clone
}

// Walk visits the subtree in pre-order. Returning false from fn skips the
// children of the visited entry.
func (e *Entry) Walk(fn func(*Entry) bool) {
	if e == nil {
		return
	}
	if !fn(e) {
		return
	}
	for _, child := range e.Children {
		child.Walk(fn)
	}
}

// Sounds returns every sound leaf in the subtree, in tree order.
func (e *Entry) Sounds() []*Entry {
	var sounds []*Entry
	e.Walk(func(entry *Entry) bool {
		if entry.IsSound() {
			sounds = append(sounds, entry)
		}
		return true
	})
	return sounds
}

// Find returns the entry with the given key, or nil.
func (e *Entry) Find(key EntryKey) *Entry {
	var found *Entry
	e.Walk(func(entry *Entry) bool {
		if found != nil {
			return false
		}
		if entry.Key() == key {
			found = entry
			return false
		}
		return true
	})
	return found
}

// Index maps every entry of the subtree by key. It is the side index used to
// resolve ParentID back-references.
type Index map[EntryKey]*Entry

// Index builds the key index of the subtree.
func (e *Entry) Index() Index {
	index := make(Index)
	e.Walk(func(entry *Entry) bool {
		index[entry.Key()] = entry
		return true
	})
	return index
}

// Parent returns the category owning e, or nil for the root or unknown parents.
func (idx Index) Parent(e *Entry) *Entry {
	if e == nil || e.ParentID == RootParentID {
		return nil
	}
	return idx[EntryKey{Kind: KindCategory, ID: e.ParentID}]
}

// Path returns the names of the ancestors of e from the outermost category
// down to its direct parent. The root category is not included.
func (idx Index) Path(e *Entry) []string {
	var names []string
	seen := make(map[int]struct{})
	for parent := idx.Parent(e); parent != nil && !parent.IsRoot(); parent = idx.Parent(parent) {
		if _, loop := seen[parent.ID]; loop {
			break
		}
		seen[parent.ID] = struct{}{}
		names = append([]string{parent.Name}, names...)
	}
	return names
}

// Credit names an author of sounds in the library.
type Credit struct {
	Name string
	Link string
}

// Library is a parsed sound-effect library.
type Library struct {
	Root    *Entry
	Credits []Credit
	Version int

	// Orphans counts manifest records dropped because their parent was unknown.
	Orphans int
}

// Sound returns the sound with the given id, or nil.
func (l *Library) Sound(id int) *Entry {
	if l == nil {
		return nil
	}
	return l.Root.Find(EntryKey{Kind: KindSound, ID: id})
}
