package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"

	"github.com/ytget/gdsfx/internal/config"
	"github.com/ytget/gdsfx/internal/download"
	"github.com/ytget/gdsfx/internal/library"
	"github.com/ytget/gdsfx/internal/model"
	"github.com/ytget/gdsfx/internal/platform"
	"github.com/ytget/gdsfx/internal/state"
)

// Notification constants
const (
	NotificationAutoHide = 5 * time.Second
)

// Player plays decoded sound data. *audio.Player implements it.
type Player interface {
	Play(data []byte) error
	Playing() bool
	Stop()
	SetFinishCallback(callback func())
}

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	settings     *config.Settings
	localization *Localization
	state        *state.AppState

	downloadSvc download.Downloader
	player      Player
	index       *platform.SoundIndex

	lib       *library.Library
	view      *state.TreeView
	favorites []*library.Entry
	tasks     []*model.DownloadTask
	playing   *library.Entry
	playSeq   atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc

	refreshMu    sync.Mutex
	refreshTimer *time.Timer
	closed       bool

	// widgets
	tabs            *container.AppTabs
	toolbar         *fyne.Container
	searchEntry     *widget.Entry
	sortSelect      *widget.Select
	downloadedCheck *widget.Check
	tree            *widget.Tree
	favoritesList   *widget.List
	favoritesEmpty  *widget.Label
	panel           *SoundPanel
	settingsTab     *SettingsTab
	taskList        *widget.List
	fromEntry       *widget.Entry
	toEntry         *widget.Entry
	creditsBox      *fyne.Container

	statFiles      *widget.Label
	statSize       *widget.Label
	statDuration   *widget.Label
	statDownloaded *widget.Label
	statShown      *widget.Label
	statVersion    *widget.Label

	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSpinner   *widget.ProgressBarInfinite
	notificationTimer     *time.Timer
}

// NewRootUI creates and initializes the main UI. The library is shown once
// SetLibrary is called; until then a loading notice is displayed.
func NewRootUI(window fyne.Window, settings *config.Settings, downloadSvc download.Downloader, player Player, favorites *library.Favorites) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLocale())

	appState := state.New(favorites)
	appState.Sorting = settings.GetSortKey()
	appState.FilterMode = settings.GetFilterMode()

	ctx, cancel := context.WithCancel(context.Background())

	ui := &RootUI{
		window:       window,
		settings:     settings,
		localization: localization,
		state:        appState,
		downloadSvc:  downloadSvc,
		player:       player,
		ctx:          ctx,
		cancel:       cancel,
	}

	window.SetTitle(localization.GetText(KeyAppTitle))

	ui.downloadSvc.SetMaxParallelDownloads(settings.GetMaxParallelDownloads())
	ui.downloadSvc.SetUpdateCallback(ui.onTaskUpdate)
	ui.openIndex(settings.GetGameFolder())
	ui.player.SetFinishCallback(func() {
		fyne.Do(ui.refreshPanel)
	})

	ui.setupUI()
	ui.showNotification(localization.GetText(KeyLoadingLibrary), true)
	return ui
}

// SetLibrary shows lib. It must be called on the UI goroutine.
func (ui *RootUI) SetLibrary(lib *library.Library) {
	ui.lib = lib
	if ui.state.Selected != nil {
		ui.state.Selected = lib.Sound(ui.state.Selected.ID)
	}
	ui.hideNotification()
	ui.rebuildCredits()
	ui.refreshViews()
}

// SetLoadError reports that the library could not be loaded
func (ui *RootUI) SetLoadError(err error) {
	log.Printf("Library load failed: %v", err)
	ui.showNotification(ui.localization.GetText(KeyLibraryFailed)+": "+err.Error(), false)
}

// Close stops playback, pending refreshes and the folder watcher
func (ui *RootUI) Close() {
	ui.cancel()

	ui.refreshMu.Lock()
	ui.closed = true
	if ui.refreshTimer != nil {
		ui.refreshTimer.Stop()
		ui.refreshTimer = nil
	}
	ui.refreshMu.Unlock()

	ui.player.Stop()
	if ui.index != nil {
		if err := ui.index.Close(); err != nil {
			log.Printf("Failed to close sound index: %v", err)
		}
	}
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	l := ui.localization

	ui.createMenu()

	ui.searchEntry = widget.NewEntry()
	ui.searchEntry.SetPlaceHolder(l.GetText(KeySearch))
	ui.searchEntry.SetText(ui.state.Query)
	ui.searchEntry.OnChanged = ui.onQueryChanged

	var sortLabels []string
	for _, key := range library.SortKeys() {
		sortLabels = append(sortLabels, key.Label())
	}
	ui.sortSelect = widget.NewSelect(sortLabels, nil)
	ui.sortSelect.SetSelected(ui.state.Sorting.Label())
	ui.sortSelect.OnChanged = ui.onSortChanged

	ui.downloadedCheck = widget.NewCheck(l.GetText(KeyDownloadedOnly), nil)
	ui.downloadedCheck.SetChecked(ui.state.ShowDownloaded)
	ui.downloadedCheck.OnChanged = ui.onDownloadedOnlyChanged

	ui.toolbar = container.NewBorder(nil, nil, nil,
		container.NewHBox(ui.downloadedCheck, widget.NewLabel(l.GetText(KeySort)), ui.sortSelect),
		ui.searchEntry,
	)

	// Notification panel under the toolbar (hidden by default)
	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Truncation = fyne.TextTruncateEllipsis
	ui.notificationSpinner = widget.NewProgressBarInfinite()
	ui.notificationSpinner.Hide()
	ui.notificationContainer = container.NewBorder(nil, nil, ui.notificationSpinner, nil, ui.notificationLabel)
	ui.notificationContainer.Hide()

	ui.tree = widget.NewTree(ui.treeChildUIDs, ui.treeIsBranch, ui.treeCreateNode, ui.treeUpdateNode)

	ui.favoritesEmpty = widget.NewLabel(l.GetText(KeyNoFavorites))
	ui.favoritesList = widget.NewList(
		func() int { return len(ui.favorites) },
		func() fyne.CanvasObject { return ui.newRow() },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(ui.favorites) {
				entry := ui.favorites[id]
				obj.(*SoundRow).Update(entry, ui.rowState(entry, true))
			}
		},
	)

	ui.panel = NewSoundPanel(l, ui.onDownloadToggle, ui.onPlayToggle, ui.onFavoriteToggle)
	ui.settingsTab = NewSettingsTab(ui.settings, l, ui.window, ui.onSettingsSaved)

	var items []*container.TabItem
	for _, tab := range state.Tabs() {
		items = append(items, container.NewTabItem(l.GetText("tab_"+tab.String()), ui.tabContent(tab)))
	}
	ui.tabs = container.NewAppTabs(items...)
	ui.tabs.SelectIndex(int(ui.state.Tab))
	ui.tabs.OnSelected = func(*container.TabItem) {
		ui.onTabChanged(state.Tabs()[ui.tabs.SelectedIndex()])
	}

	sidePanel := container.NewPadded(container.NewVScroll(ui.panel.Container()))
	split := container.NewHSplit(ui.tabs, sidePanel)
	split.Offset = TreeSplitOffset

	top := container.NewVBox(ui.toolbar, ui.notificationContainer)
	ui.window.SetContent(container.NewBorder(top, nil, nil, nil, split))

	ui.updateToolbarVisibility()
	ui.rebuildCredits()
	ui.refreshTasks()
	ui.refreshViews()
}

func (ui *RootUI) tabContent(tab state.Tab) fyne.CanvasObject {
	switch tab {
	case state.TabLibrary:
		return ui.tree
	case state.TabFavorites:
		return container.NewStack(ui.favoritesList, container.NewCenter(ui.favoritesEmpty))
	case state.TabTools:
		return ui.createToolsTab()
	case state.TabSettings:
		return ui.settingsTab.Container()
	case state.TabStats:
		return ui.createStatsTab()
	case state.TabCredits:
		ui.creditsBox = container.NewVBox()
		return container.NewVScroll(ui.creditsBox)
	}
	return widget.NewLabel(tab.String())
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	openFolderItem := fyne.NewMenuItem(ui.localization.GetText(KeyOpenGameFolder), ui.onOpenGameFolder)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	locales := ui.settings.GetLocaleOptions()
	codes := make([]string, 0, len(locales))
	for code := range locales {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	for _, code := range codes {
		langItem := fyne.NewMenuItem(locales[code], func() {
			ui.onLanguageChange(code)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), openFolderItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(locale string) {
	ui.localization.SetLanguage(locale)
	ui.settings.SetLocale(locale)
	ui.refreshUITexts()
}

// refreshUITexts rebuilds the window in the current language. State lives in
// ui.state so nothing is lost.
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.setupUI()
}

// Tree callbacks

func (ui *RootUI) treeChildUIDs(uid widget.TreeNodeID) []widget.TreeNodeID {
	if ui.view == nil {
		return nil
	}
	return ui.view.ChildUIDs(uid)
}

func (ui *RootUI) treeIsBranch(uid widget.TreeNodeID) bool {
	if ui.view == nil {
		return uid == state.RootUID
	}
	return ui.view.IsBranch(uid)
}

func (ui *RootUI) treeCreateNode(bool) fyne.CanvasObject {
	return ui.newRow()
}

func (ui *RootUI) treeUpdateNode(uid widget.TreeNodeID, _ bool, obj fyne.CanvasObject) {
	if ui.view == nil {
		return
	}
	entry := ui.view.Entry(uid)
	obj.(*SoundRow).Update(entry, ui.rowState(entry, ui.view.Enabled(uid)))
}

func (ui *RootUI) newRow() *SoundRow {
	return NewSoundRow(ui.onEntryTapped, ui.onEntryHovered, ui.onEntryMenu)
}

func (ui *RootUI) rowState(entry *library.Entry, enabled bool) RowState {
	rs := RowState{Enabled: enabled}
	if entry != nil && entry.IsSound() {
		rs.Favorite = ui.state.Favorites.Contains(entry.ID)
		rs.Downloaded = ui.exists(entry.ID)
	}
	return rs
}

func (ui *RootUI) exists(id int) bool {
	return ui.index != nil && ui.index.Exists(id)
}

// Interaction

func (ui *RootUI) onEntryTapped(entry *library.Entry) {
	if entry.IsCategory() {
		ui.tree.ToggleBranch(entry.Key().String())
		return
	}
	ui.selectEntry(entry)
	if ui.settings.GetPlayOnClick() {
		ui.play(entry)
	}
}

func (ui *RootUI) onEntryHovered(entry *library.Entry) {
	if entry.IsSound() && ui.settings.GetSelectMode() == config.SelectHover {
		ui.selectEntry(entry)
	}
}

func (ui *RootUI) onEntryMenu(entry *library.Entry, pos fyne.Position) {
	l := ui.localization

	favoriteText := l.GetText(KeyFavorite)
	if ui.state.Favorites.Contains(entry.ID) {
		favoriteText = l.GetText(KeyUnfavorite)
	}
	downloadText := l.GetText(KeyDownload)
	if ui.exists(entry.ID) {
		downloadText = l.GetText(KeyDelete)
	}

	menu := fyne.NewMenu("",
		fyne.NewMenuItem(l.GetText(KeyPlay), func() { ui.play(entry) }),
		fyne.NewMenuItem(favoriteText, func() {
			ui.state.Favorites.Toggle(entry.ID)
			ui.refreshViews()
		}),
		fyne.NewMenuItem(downloadText, func() { ui.onDownloadToggle(entry) }),
	)
	widget.ShowPopUpMenuAtPosition(menu, ui.window.Canvas(), pos)
}

func (ui *RootUI) selectEntry(entry *library.Entry) {
	if ui.state.Selected == entry {
		return
	}
	ui.state.Selected = entry
	ui.refreshPanel()
}

func (ui *RootUI) onQueryChanged(query string) {
	ui.state.Query = query
	ui.refreshViews()
}

func (ui *RootUI) onSortChanged(label string) {
	key, ok := library.SortKeyForLabel(label)
	if !ok {
		return
	}
	ui.state.Sorting = key
	ui.settings.SetSortKey(key)
	ui.refreshViews()
}

func (ui *RootUI) onDownloadedOnlyChanged(checked bool) {
	ui.state.ShowDownloaded = checked
	ui.refreshViews()
}

func (ui *RootUI) onTabChanged(tab state.Tab) {
	ui.state.Tab = tab
	ui.updateToolbarVisibility()
}

func (ui *RootUI) updateToolbarVisibility() {
	if ui.state.Tab.Searchable() {
		ui.toolbar.Show()
	} else {
		ui.toolbar.Hide()
	}
}

func (ui *RootUI) onDownloadToggle(entry *library.Entry) {
	if ui.exists(entry.ID) {
		if err := ui.downloadSvc.Delete(entry.ID); err != nil {
			ui.showError(err)
			return
		}
		ui.refreshViews()
		return
	}

	if _, err := ui.downloadSvc.AddTask(entry); err != nil {
		ui.showError(err)
		return
	}
	ui.refreshTasks()
}

func (ui *RootUI) onPlayToggle(entry *library.Entry) {
	if ui.playing == entry && ui.player.Playing() {
		ui.player.Stop()
		ui.playing = nil
		ui.refreshPanel()
		return
	}
	ui.play(entry)
}

func (ui *RootUI) onFavoriteToggle(entry *library.Entry) {
	if ui.state.Selected != entry {
		ui.state.Selected = entry
	}
	ui.state.ToggleFavorite()
	ui.refreshViews()
}

// play fetches the sound in the background and starts playback. Only the
// most recent request is played.
func (ui *RootUI) play(entry *library.Entry) {
	ui.playing = entry
	seq := ui.playSeq.Add(1)

	go func() {
		ctx, cancel := context.WithTimeout(ui.ctx, PlayFetchTimeout)
		defer cancel()

		data, err := ui.downloadSvc.Read(ctx, entry.ID)
		if ui.playSeq.Load() != seq {
			return
		}
		if err == nil {
			err = ui.player.Play(data)
		}
		if err != nil && errors.Is(err, context.Canceled) {
			return
		}

		fyne.Do(func() {
			if err != nil {
				log.Printf("Failed to play sound %d: %v", entry.ID, err)
				if ui.playing == entry {
					ui.playing = nil
				}
				ui.showError(err)
			}
			ui.refreshPanel()
		})
	}()
}

// Tools tab

func (ui *RootUI) createToolsTab() fyne.CanvasObject {
	l := ui.localization

	from, to := ui.settings.GetDownloadRange()
	ui.fromEntry = widget.NewEntry()
	ui.fromEntry.SetText(strconv.Itoa(from))
	ui.toEntry = widget.NewEntry()
	ui.toEntry.SetText(strconv.Itoa(to))
	rangeRow := container.NewBorder(nil, nil, widget.NewLabel(l.GetText(KeyDownloadRange)), nil,
		container.NewGridWithColumns(2, ui.fromEntry, ui.toEntry))

	downloadAllBtn := widget.NewButtonWithIcon(l.GetText(KeyDownloadAll), theme.DownloadIcon(), ui.onDownloadAll)
	downloadAllBtn.Importance = widget.HighImportance
	deleteAllBtn := widget.NewButtonWithIcon(l.GetText(KeyDeleteAll), theme.DeleteIcon(), ui.onDeleteAll)
	deleteAllBtn.Importance = widget.DangerImportance
	openFolderBtn := widget.NewButtonWithIcon(l.GetText(KeyOpenGameFolder), theme.FolderOpenIcon(), ui.onOpenGameFolder)

	clearBtn := widget.NewButton(l.GetText(KeyClearFinished), func() {
		ui.downloadSvc.ClearFinished()
		ui.refreshTasks()
	})
	clearBtn.Importance = widget.LowImportance

	downloadsLabel := widget.NewLabel(l.GetText(KeyDownloads))
	downloadsLabel.TextStyle = fyne.TextStyle{Bold: true}

	ui.taskList = widget.NewList(
		func() int { return len(ui.tasks) },
		func() fyne.CanvasObject {
			row := NewTaskRow(nil, ui.localization)
			row.SetCallbacks(ui.onStopTask, ui.onRevealFile)
			return row
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(ui.tasks) {
				obj.(*TaskRow).UpdateTask(ui.tasks[id])
			}
		},
	)

	header := container.NewVBox(
		rangeRow,
		container.NewHBox(downloadAllBtn, deleteAllBtn, openFolderBtn),
		widget.NewSeparator(),
		container.NewBorder(nil, nil, downloadsLabel, clearBtn),
	)
	return container.NewBorder(header, nil, nil, nil, ui.taskList)
}

func (ui *RootUI) onDownloadAll() {
	from, errFrom := strconv.Atoi(strings.TrimSpace(ui.fromEntry.Text))
	to, errTo := strconv.Atoi(strings.TrimSpace(ui.toEntry.Text))
	if err := errors.Join(errFrom, errTo); err != nil {
		ui.showError(fmt.Errorf("invalid sound id range: %w", err))
		return
	}
	ui.settings.SetDownloadRange(from, to)
	from, to = ui.settings.GetDownloadRange()

	queued := 0
	for _, sound := range soundsInRange(ui.lib, from, to, ui.exists) {
		if _, err := ui.downloadSvc.AddTask(sound); err == nil {
			queued++
		}
	}
	log.Printf("Queued %d sounds in range [%d, %d)", queued, from, to)
	ui.showNotification(fmt.Sprintf(ui.localization.GetText(KeyTasksAdded), queued), false)
	ui.refreshTasks()
}

// soundsInRange returns the sounds with from <= id < to that are not on disk, by id
func soundsInRange(lib *library.Library, from, to int, exists func(id int) bool) []*library.Entry {
	if lib == nil || lib.Root == nil {
		return nil
	}
	var sounds []*library.Entry
	for _, sound := range lib.Root.Sounds() {
		if sound.ID >= from && sound.ID < to && !exists(sound.ID) {
			sounds = append(sounds, sound)
		}
	}
	slices.SortFunc(sounds, func(a, b *library.Entry) int { return a.ID - b.ID })
	return sounds
}

func (ui *RootUI) onDeleteAll() {
	l := ui.localization
	dialog.ShowConfirm(l.GetText(KeyDeleteAll), l.GetText(KeyConfirmDeleteAll), func(confirmed bool) {
		if confirmed {
			ui.deleteAll()
		}
	}, ui.window)
}

func (ui *RootUI) deleteAll() {
	deleted, err := ui.downloadSvc.DeleteAll()
	if err != nil {
		ui.showError(err)
	}
	ui.showNotification(fmt.Sprintf(ui.localization.GetText(KeyFilesDeleted), deleted), false)
	ui.refreshViews()
}

func (ui *RootUI) onOpenGameFolder() {
	if err := platform.OpenFolder(ui.settings.GetGameFolder()); err != nil {
		ui.showError(err)
	}
}

func (ui *RootUI) onStopTask(taskID string) {
	if err := ui.downloadSvc.StopTask(taskID); err != nil {
		log.Printf("Failed to stop task %s: %v", taskID, err)
		ui.showError(err)
	}
}

// onRevealFile reveals the file in the system file manager
func (ui *RootUI) onRevealFile(filePath string) {
	if err := platform.OpenFileInManager(filePath); err != nil {
		log.Printf("Failed to reveal file %s: %v", filePath, err)
		ui.showError(err)
	}
}

// Stats and credits tabs

func (ui *RootUI) createStatsTab() fyne.CanvasObject {
	l := ui.localization

	ui.statFiles = widget.NewLabel("")
	ui.statSize = widget.NewLabel("")
	ui.statDuration = widget.NewLabel("")
	ui.statDownloaded = widget.NewLabel("")
	ui.statShown = widget.NewLabel("")
	ui.statVersion = widget.NewLabel("")

	return container.New(layout.NewFormLayout(),
		widget.NewLabel(l.GetText(KeyTotalFiles)), ui.statFiles,
		widget.NewLabel(l.GetText(KeyTotalSize)), ui.statSize,
		widget.NewLabel(l.GetText(KeyTotalDuration)), ui.statDuration,
		widget.NewLabel(l.GetText(KeyDownloadedFiles)), ui.statDownloaded,
		widget.NewLabel(l.GetText(KeyShownSounds)), ui.statShown,
		widget.NewLabel(l.GetText(KeyLibraryVersion)), ui.statVersion,
	)
}

func (ui *RootUI) refreshStats() {
	stats := ui.state.Stats(ui.lib)
	ui.statFiles.SetText(humanize.Comma(stats.Files))
	ui.statSize.SetText(stats.FormatBytes())
	ui.statDuration.SetText(stats.FormatDuration() + ui.localization.GetText(KeySeconds))

	downloaded := 0
	if ui.index != nil {
		downloaded = ui.index.Count()
	}
	ui.statDownloaded.SetText(humanize.Comma(int64(downloaded)))

	shown := 0
	if ui.view != nil {
		shown = ui.view.VisibleSounds()
	}
	ui.statShown.SetText(humanize.Comma(int64(shown)))

	version := DashPlaceholder
	if ui.lib != nil {
		version = strconv.Itoa(ui.lib.Version)
	}
	ui.statVersion.SetText(version)
}

func (ui *RootUI) rebuildCredits() {
	ui.creditsBox.RemoveAll()
	if ui.lib == nil || len(ui.lib.Credits) == 0 {
		return
	}

	ui.creditsBox.Add(widget.NewLabel(ui.localization.GetText(KeyCreditsIntro)))
	for _, credit := range ui.lib.Credits {
		link, err := url.Parse(credit.Link)
		if err != nil || credit.Link == "" {
			ui.creditsBox.Add(widget.NewLabel(credit.Name))
			continue
		}
		ui.creditsBox.Add(widget.NewHyperlink(credit.Name, link))
	}
}

// Settings

func (ui *RootUI) onSettingsSaved() {
	folder := ui.settings.GetGameFolder()
	if ui.index == nil || ui.index.Dir() != folder {
		ui.openIndex(folder)
	}
	ui.downloadSvc.SetMaxParallelDownloads(ui.settings.GetMaxParallelDownloads())
	ui.state.FilterMode = ui.settings.GetFilterMode()

	if locale := ui.settings.GetLocale(); locale != ui.localization.GetCurrentLanguage() {
		ui.localization.SetLanguage(locale)
		ui.refreshUITexts()
	} else {
		ui.refreshViews()
	}
	ui.showNotification(ui.localization.GetText(KeySettingsSaved), false)
}

// openIndex starts watching dir and points the download service at it
func (ui *RootUI) openIndex(dir string) {
	if ui.index != nil {
		if err := ui.index.Close(); err != nil {
			log.Printf("Failed to close sound index: %v", err)
		}
		ui.index = nil
	}

	ui.downloadSvc.SetGameFolder(dir)

	idx, err := platform.NewSoundIndex(dir, platform.DefaultRefreshDelay, nil)
	if err != nil {
		log.Printf("Failed to index game folder %s: %v", dir, err)
		ui.downloadSvc.SetTracker(nil)
		return
	}
	idx.SetChangeCallback(ui.scheduleRefresh)
	ui.index = idx
	ui.downloadSvc.SetTracker(idx)
}

// Refresh

// refreshViews recomputes the filtered views and redraws everything derived from them
func (ui *RootUI) refreshViews() {
	ui.view = ui.state.LibraryView(ui.lib, ui.exists)
	ui.favorites = ui.state.FavoritesView(ui.lib, ui.exists)

	if ui.state.Query != "" {
		ui.tree.OpenAllBranches()
	}
	ui.tree.Refresh()

	ui.favoritesList.Refresh()
	if len(ui.favorites) == 0 {
		ui.favoritesEmpty.Show()
	} else {
		ui.favoritesEmpty.Hide()
	}

	ui.refreshStats()
	ui.refreshPanel()
}

func (ui *RootUI) refreshPanel() {
	selected := ui.state.Selected
	if selected == nil {
		ui.panel.Show(nil, PanelState{})
		return
	}
	ui.panel.Show(selected, PanelState{
		Downloaded: ui.exists(selected.ID),
		Favorite:   ui.state.Favorites.Contains(selected.ID),
		Playing:    ui.playing == selected && ui.player.Playing(),
	})
}

func (ui *RootUI) refreshTasks() {
	ui.tasks = ui.downloadSvc.GetAllTasks()
	ui.taskList.Refresh()
}

// scheduleRefresh coalesces background changes into one redraw per UIUpdateDebounce
func (ui *RootUI) scheduleRefresh() {
	ui.refreshMu.Lock()
	defer ui.refreshMu.Unlock()

	if ui.closed || ui.refreshTimer != nil {
		return
	}
	ui.refreshTimer = time.AfterFunc(UIUpdateDebounce, func() {
		ui.refreshMu.Lock()
		ui.refreshTimer = nil
		ui.refreshMu.Unlock()

		fyne.Do(func() {
			ui.refreshTasks()
			ui.refreshViews()
		})
	})
}

// onTaskUpdate handles task updates from the download service
func (ui *RootUI) onTaskUpdate(task *model.DownloadTask) {
	if task.Status == model.TaskStatusError {
		log.Printf("Download of sound %d failed: %s", task.SoundID, task.LastError)
		message := fmt.Sprintf("%s: %s: %s", ui.localization.GetText(KeyDownloadFailed), task.GetDisplayTitle(), task.LastError)
		fyne.Do(func() {
			ui.showNotification(message, false)
		})
	}
	ui.scheduleRefresh()
}

// Notifications

// showNotification displays a message in the notification panel under the toolbar.
// When spinning is true, a spinner is shown and the message stays until hidden.
func (ui *RootUI) showNotification(message string, spinning bool) {
	ui.notificationLabel.SetText(message)
	if spinning {
		ui.notificationSpinner.Show()
	} else {
		ui.notificationSpinner.Hide()
	}
	ui.notificationContainer.Show()

	if ui.notificationTimer != nil {
		ui.notificationTimer.Stop()
		ui.notificationTimer = nil
	}
	if !spinning {
		ui.notificationTimer = time.AfterFunc(NotificationAutoHide, func() {
			fyne.Do(ui.hideNotification)
		})
	}
}

// hideNotification hides the notification panel.
func (ui *RootUI) hideNotification() {
	ui.notificationSpinner.Hide()
	ui.notificationContainer.Hide()
}

func (ui *RootUI) showError(err error) {
	dialog.ShowError(err, ui.window)
}
