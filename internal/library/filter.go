package library

import (
	"strconv"
	"strings"
)

// Predicate decides whether a sound matches the current query state.
type Predicate func(*Entry) bool

// MatchAll matches every sound.
func MatchAll(*Entry) bool { return true }

// QueryPredicate matches sounds whose name contains query (case-insensitive)
// or whose id equals query exactly. An empty query matches everything.
func QueryPredicate(query string) Predicate {
	if query == "" {
		return MatchAll
	}
	lowered := strings.ToLower(query)
	return func(e *Entry) bool {
		return strings.Contains(strings.ToLower(e.Name), lowered) ||
			strconv.Itoa(e.ID) == query
	}
}

// FavoriteSet is the read side of the favorites set.
type FavoriteSet interface {
	Contains(id int) bool
}

// FavoritesPredicate matches sounds in the set. Membership is read when the
// predicate runs, so later mutations are reflected by later filter passes.
func FavoritesPredicate(favorites FavoriteSet) Predicate {
	return func(e *Entry) bool {
		return favorites != nil && favorites.Contains(e.ID)
	}
}

// DownloadedPredicate matches sounds present on disk.
func DownloadedPredicate(exists func(id int) bool) Predicate {
	return func(e *Entry) bool {
		return exists != nil && exists(e.ID)
	}
}

// All combines predicates with logical AND. Nil predicates are ignored.
func All(preds ...Predicate) Predicate {
	return func(e *Entry) bool {
		for _, pred := range preds {
			if pred != nil && !pred(e) {
				return false
			}
		}
		return true
	}
}

// Visibility is the result of a filter pass: the visible state of every
// entry of the filtered tree, keyed by entry key.
type Visibility map[EntryKey]bool

// Visible reports whether e was visible in the pass. Entries the pass did not
// visit are not visible.
func (v Visibility) Visible(e *Entry) bool {
	if e == nil {
		return false
	}
	return v[e.Key()]
}

// Count returns the number of visible sounds.
func (v Visibility) Count() int {
	n := 0
	for key, visible := range v {
		if visible && key.Kind == KindSound {
			n++
		}
	}
	return n
}

// Filter computes visibility bottom-up: a sound is visible iff it matches
// pred, a category iff at least one child is visible. A category without
// children is not visible. The tree is not modified.
func Filter(root *Entry, pred Predicate) Visibility {
	vis := make(Visibility)
	if root == nil {
		return vis
	}
	if pred == nil {
		pred = MatchAll
	}
	filterEntry(root, pred, vis)
	return vis
}

func filterEntry(e *Entry, pred Predicate, vis Visibility) bool {
	if e.IsSound() {
		visible := pred(e)
		vis[e.Key()] = visible
		return visible
	}

	anyVisible := false
	for _, child := range e.Children {
		// every child is visited so its own state is recorded
		if filterEntry(child, pred, vis) {
			anyVisible = true
		}
	}
	vis[e.Key()] = anyVisible
	return anyVisible
}

// Prune returns a copy of the tree holding only visible entries. It returns
// nil when the root itself is not visible.
func Prune(root *Entry, vis Visibility) *Entry {
	if root == nil || !vis.Visible(root) {
		return nil
	}
	clone := *root
	if root.IsCategory() {
		clone.Children = make([]*Entry, 0, len(root.Children))
		for _, child := range root.Children {
			if pruned := Prune(child, vis); pruned != nil {
				clone.Children = append(clone.Children, pruned)
			}
		}
	}
	return &clone
}
