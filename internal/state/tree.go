package state

import (
	"github.com/ytget/gdsfx/internal/config"
	"github.com/ytget/gdsfx/internal/library"
)

// RootUID is the uid of the invisible tree root
const RootUID = ""

// TreeView is a filtered, sorted projection of the library addressed by
// string uids, shaped for a widget tree. Category uids look like "c10" and
// sound uids like "s42".
type TreeView struct {
	children map[string][]string
	entries  map[string]*library.Entry
	vis      library.Visibility
}

func newTreeView(root *library.Entry, vis library.Visibility, mode config.FilterMode, sorting library.SortKey) *TreeView {
	tv := &TreeView{
		children: make(map[string][]string),
		entries:  make(map[string]*library.Entry),
		vis:      vis,
	}
	if root == nil {
		return tv
	}

	// sounds attached directly to the root are not listed
	var top []*library.Entry
	for _, child := range root.Children {
		if child.IsCategory() {
			top = append(top, child)
		}
	}
	tv.children[RootUID] = tv.add(top, mode, sorting)
	return tv
}

// add registers the shown subset of entries and returns their uids in display order
func (tv *TreeView) add(entries []*library.Entry, mode config.FilterMode, sorting library.SortKey) []string {
	var uids []string
	for _, e := range sorting.Sorted(entries) {
		if !tv.shown(e, mode) {
			continue
		}
		uid := e.Key().String()
		tv.entries[uid] = e
		uids = append(uids, uid)
		if e.IsCategory() {
			tv.children[uid] = tv.add(e.Children, mode, sorting)
		}
	}
	return uids
}

// shown applies the display policy: filtered-out sounds are never listed,
// filtered-out categories are hidden or grayed out depending on mode.
func (tv *TreeView) shown(e *library.Entry, mode config.FilterMode) bool {
	if tv.vis.Visible(e) {
		return true
	}
	return e.IsCategory() && mode == config.FilterGrayOut
}

// ChildUIDs returns the uids shown under uid
func (tv *TreeView) ChildUIDs(uid string) []string {
	return tv.children[uid]
}

// IsBranch reports whether uid can hold children
func (tv *TreeView) IsBranch(uid string) bool {
	if uid == RootUID {
		return true
	}
	e := tv.entries[uid]
	return e != nil && e.IsCategory()
}

// Entry returns the library entry behind uid, or nil
func (tv *TreeView) Entry(uid string) *library.Entry {
	return tv.entries[uid]
}

// Enabled reports whether uid passed the filter. Grayed-out categories are not enabled.
func (tv *TreeView) Enabled(uid string) bool {
	return tv.vis.Visible(tv.entries[uid])
}

// Len returns the number of listed entries
func (tv *TreeView) Len() int {
	return len(tv.entries)
}

// VisibleSounds returns the number of sounds that passed the filter
func (tv *TreeView) VisibleSounds() int {
	return tv.vis.Count()
}
