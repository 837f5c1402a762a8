package state

import (
	"github.com/ytget/gdsfx/internal/config"
	"github.com/ytget/gdsfx/internal/library"
)

// Tab identifies a page of the main window
type Tab int

const (
	TabLibrary Tab = iota
	TabFavorites
	TabTools
	TabSettings
	TabStats
	TabCredits
)

var tabNames = map[Tab]string{
	TabLibrary:   "library",
	TabFavorites: "favorites",
	TabTools:     "tools",
	TabSettings:  "settings",
	TabStats:     "stats",
	TabCredits:   "credits",
}

// Tabs returns every tab in display order
func Tabs() []Tab {
	return []Tab{TabLibrary, TabFavorites, TabTools, TabSettings, TabStats, TabCredits}
}

// String returns the tab name used for localization keys
func (t Tab) String() string {
	if name, ok := tabNames[t]; ok {
		return name
	}
	return "unknown"
}

// Searchable reports whether the tab shows the search and sort controls
func (t Tab) Searchable() bool {
	return t == TabLibrary || t == TabFavorites
}

// AppState is the UI state shared by the views. It is owned by the UI
// goroutine and is not safe for concurrent use.
type AppState struct {
	Query          string
	Sorting        library.SortKey
	ShowDownloaded bool
	Tab            Tab
	Selected       *library.Entry
	Favorites      *library.Favorites
	FilterMode     config.FilterMode
}

// New creates a state with the given favorites. A nil set starts empty.
func New(favorites *library.Favorites) *AppState {
	if favorites == nil {
		favorites = library.NewFavorites()
	}
	return &AppState{
		Sorting:    library.SortDefault,
		Tab:        TabLibrary,
		Favorites:  favorites,
		FilterMode: config.DefaultFilterMode,
	}
}

// Predicate combines the search query with the downloaded-only toggle
func (s *AppState) Predicate(exists func(id int) bool) library.Predicate {
	preds := []library.Predicate{library.QueryPredicate(s.Query)}
	if s.ShowDownloaded {
		preds = append(preds, library.DownloadedPredicate(exists))
	}
	return library.All(preds...)
}

// LibraryView filters and sorts the library for the tree on the Library tab
func (s *AppState) LibraryView(lib *library.Library, exists func(id int) bool) *TreeView {
	if lib == nil || lib.Root == nil {
		return newTreeView(nil, nil, s.FilterMode, s.Sorting)
	}
	vis := library.Filter(lib.Root, s.Predicate(exists))
	return newTreeView(lib.Root, vis, s.FilterMode, s.Sorting)
}

// FavoritesView returns the favorite sounds that pass the current filter, sorted
func (s *AppState) FavoritesView(lib *library.Library, exists func(id int) bool) []*library.Entry {
	if lib == nil || lib.Root == nil {
		return nil
	}
	pred := library.All(s.Predicate(exists), library.FavoritesPredicate(s.Favorites))

	var sounds []*library.Entry
	for _, sound := range lib.Root.Sounds() {
		if pred(sound) {
			sounds = append(sounds, sound)
		}
	}
	s.Sorting.Sort(sounds)
	return sounds
}

// Stats aggregates the whole library
func (s *AppState) Stats(lib *library.Library) library.Stats {
	if lib == nil {
		return library.Stats{}
	}
	return library.Aggregate(lib.Root)
}

// ToggleFavorite flips the favorite state of the selected sound and reports the new state
func (s *AppState) ToggleFavorite() bool {
	if s.Selected == nil || !s.Selected.IsSound() {
		return false
	}
	return s.Favorites.Toggle(s.Selected.ID)
}
