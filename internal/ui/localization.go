package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// DefaultLanguage is used when a locale has no translation
const DefaultLanguage = "en_US"

// Text keys for localization
const (
	KeyAppTitle = "app_title"
	KeyFile     = "file"
	KeyLanguage = "language"

	KeyTabLibrary   = "tab_library"
	KeyTabFavorites = "tab_favorites"
	KeyTabTools     = "tab_tools"
	KeyTabSettings  = "tab_settings"
	KeyTabStats     = "tab_stats"
	KeyTabCredits   = "tab_credits"

	KeySearch         = "search"
	KeySort           = "sort"
	KeyDownloadedOnly = "downloaded_only"
	KeyLoadingLibrary = "loading_library"
	KeyLibraryFailed  = "library_failed"
	KeyNoSelection    = "no_selection"
	KeyNoFavorites    = "no_favorites"

	KeyDownload   = "download"
	KeyDelete     = "delete"
	KeyPlay       = "play"
	KeyStop       = "stop"
	KeyFavorite   = "favorite"
	KeyUnfavorite = "unfavorite"
	KeyReveal     = "reveal"

	KeyID         = "id"
	KeyCategoryID = "category_id"
	KeySize       = "size"
	KeyDuration   = "duration"
	KeySeconds    = "seconds"

	KeyDownloadRange    = "download_range"
	KeyDownloadAll      = "download_all"
	KeyDeleteAll        = "delete_all"
	KeyConfirmDeleteAll = "confirm_delete_all"
	KeyOpenGameFolder   = "open_game_folder"
	KeyClearFinished    = "clear_finished"
	KeyDownloads        = "downloads"
	KeyTasksAdded       = "tasks_added"
	KeyFilesDeleted     = "files_deleted"
	KeyDownloadFailed   = "download_failed"

	KeyGameFolder    = "game_folder"
	KeyBrowse        = "browse"
	KeyFilterMode    = "filter_mode"
	KeyFilterGrayOut = "filter_gray_out"
	KeyFilterHide    = "filter_hide"
	KeySelectMode    = "select_mode"
	KeySelectHover   = "select_hover"
	KeySelectClick   = "select_click"
	KeyPlayOnClick   = "play_on_click"
	KeyMaxParallel   = "max_parallel"
	KeyCDNURL        = "cdn_url"
	KeySave          = "save"
	KeySettingsSaved = "settings_saved"

	KeyTotalFiles      = "total_files"
	KeyTotalSize       = "total_size"
	KeyTotalDuration   = "total_duration"
	KeyDownloadedFiles = "downloaded_files"
	KeyShownSounds     = "shown_sounds"
	KeyLibraryVersion  = "library_version"

	KeyCreditsIntro = "credits_intro"
	KeyError        = "error"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: DefaultLanguage,
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. Unknown locales are ignored.
func (l *Localization) SetLanguage(lang string) {
	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts[DefaultLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// GetCurrentLanguage returns the current locale
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

func (l *Localization) initializeTexts() {
	l.texts["en_US"] = map[string]string{
		KeyAppTitle: "GDSFX",
		KeyFile:     "File",
		KeyLanguage: "Language",

		KeyTabLibrary:   "Library",
		KeyTabFavorites: "Favourites",
		KeyTabTools:     "Tools",
		KeyTabSettings:  "Settings",
		KeyTabStats:     "Stats",
		KeyTabCredits:   "Credits",

		KeySearch:         "Search by name or ID...",
		KeySort:           "Sort",
		KeyDownloadedOnly: "Downloaded only",
		KeyLoadingLibrary: "Loading library...",
		KeyLibraryFailed:  "Could not load the library",
		KeyNoSelection:    "Select a sound to see its details",
		KeyNoFavorites:    "No favourites yet",

		KeyDownload:   "Download",
		KeyDelete:     "Delete",
		KeyPlay:       "Play",
		KeyStop:       "Stop",
		KeyFavorite:   "Favourite",
		KeyUnfavorite: "Remove favourite",
		KeyReveal:     "Reveal",

		KeyID:         "ID",
		KeyCategoryID: "Category ID",
		KeySize:       "Size",
		KeyDuration:   "Duration",
		KeySeconds:    "s",

		KeyDownloadRange:    "Sound ID range",
		KeyDownloadAll:      "Download all sounds",
		KeyDeleteAll:        "Delete all sounds",
		KeyConfirmDeleteAll: "Delete every downloaded sound from the game folder?",
		KeyOpenGameFolder:   "Open game folder",
		KeyClearFinished:    "Clear finished",
		KeyDownloads:        "Downloads",
		KeyTasksAdded:       "%d sounds queued",
		KeyFilesDeleted:     "%d sounds deleted",
		KeyDownloadFailed:   "Download failed",

		KeyGameFolder:    "Game folder",
		KeyBrowse:        "Browse",
		KeyFilterMode:    "Filtered categories",
		KeyFilterGrayOut: "Gray out",
		KeyFilterHide:    "Hide",
		KeySelectMode:    "Select sounds on",
		KeySelectHover:   "Hover",
		KeySelectClick:   "Click",
		KeyPlayOnClick:   "Play sound on click",
		KeyMaxParallel:   "Max parallel downloads",
		KeyCDNURL:        "CDN URL",
		KeySave:          "Save",
		KeySettingsSaved: "Settings saved",

		KeyTotalFiles:      "Total files",
		KeyTotalSize:       "Total size",
		KeyTotalDuration:   "Total duration",
		KeyDownloadedFiles: "Downloaded files",
		KeyShownSounds:     "Sounds matching the search",
		KeyLibraryVersion:  "Library version",

		KeyCreditsIntro: "Sound effects by:",
		KeyError:        "Error",
	}

	l.texts["de_DE"] = map[string]string{
		KeyAppTitle: "GDSFX",
		KeyFile:     "Datei",
		KeyLanguage: "Sprache",

		KeyTabLibrary:   "Bibliothek",
		KeyTabFavorites: "Favoriten",
		KeyTabTools:     "Werkzeuge",
		KeyTabSettings:  "Einstellungen",
		KeyTabStats:     "Statistik",
		KeyTabCredits:   "Mitwirkende",

		KeySearch:         "Nach Name oder ID suchen...",
		KeySort:           "Sortierung",
		KeyDownloadedOnly: "Nur heruntergeladene",
		KeyLoadingLibrary: "Bibliothek wird geladen...",
		KeyLibraryFailed:  "Bibliothek konnte nicht geladen werden",
		KeyNoSelection:    "Wähle einen Sound, um Details zu sehen",
		KeyNoFavorites:    "Noch keine Favoriten",

		KeyDownload:   "Herunterladen",
		KeyDelete:     "Löschen",
		KeyPlay:       "Abspielen",
		KeyStop:       "Stopp",
		KeyFavorite:   "Favorisieren",
		KeyUnfavorite: "Favorit entfernen",
		KeyReveal:     "Anzeigen",

		KeyID:         "ID",
		KeyCategoryID: "Kategorie-ID",
		KeySize:       "Größe",
		KeyDuration:   "Dauer",
		KeySeconds:    "s",

		KeyDownloadRange:    "Sound-ID-Bereich",
		KeyDownloadAll:      "Alle Sounds herunterladen",
		KeyDeleteAll:        "Alle Sounds löschen",
		KeyConfirmDeleteAll: "Alle heruntergeladenen Sounds aus dem Spielordner löschen?",
		KeyOpenGameFolder:   "Spielordner öffnen",
		KeyClearFinished:    "Fertige entfernen",
		KeyDownloads:        "Downloads",
		KeyTasksAdded:       "%d Sounds eingereiht",
		KeyFilesDeleted:     "%d Sounds gelöscht",
		KeyDownloadFailed:   "Download fehlgeschlagen",

		KeyGameFolder:    "Spielordner",
		KeyBrowse:        "Durchsuchen",
		KeyFilterMode:    "Gefilterte Kategorien",
		KeyFilterGrayOut: "Ausgrauen",
		KeyFilterHide:    "Ausblenden",
		KeySelectMode:    "Sounds auswählen bei",
		KeySelectHover:   "Überfahren",
		KeySelectClick:   "Klick",
		KeyPlayOnClick:   "Sound bei Klick abspielen",
		KeyMaxParallel:   "Max. parallele Downloads",
		KeyCDNURL:        "CDN-URL",
		KeySave:          "Speichern",
		KeySettingsSaved: "Einstellungen gespeichert",

		KeyTotalFiles:      "Dateien insgesamt",
		KeyTotalSize:       "Gesamtgröße",
		KeyTotalDuration:   "Gesamtdauer",
		KeyDownloadedFiles: "Heruntergeladene Dateien",
		KeyShownSounds:     "Sounds in der Suche",
		KeyLibraryVersion:  "Bibliotheksversion",

		KeyCreditsIntro: "Soundeffekte von:",
		KeyError:        "Fehler",
	}
}
