package ui

import (
	"slices"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/gdsfx/internal/cdn"
	"github.com/ytget/gdsfx/internal/config"
)

// SettingsTab edits the persisted settings
type SettingsTab struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	content      fyne.CanvasObject

	// UI components
	gameFolderEntry  *widget.Entry
	filterModeSelect *widget.Select
	selectModeSelect *widget.Select
	playOnClickCheck *widget.Check
	languageSelect   *widget.Select
	maxParallelEntry *widget.Entry
	cdnURLEntry      *widget.Entry

	onSaved func()
}

// NewSettingsTab creates the settings page. onSaved runs after the settings were stored.
func NewSettingsTab(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func()) *SettingsTab {
	st := &SettingsTab{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	st.createUI()
	st.loadCurrentSettings()
	return st
}

// Container returns the page content
func (st *SettingsTab) Container() fyne.CanvasObject {
	return st.content
}

func (st *SettingsTab) createUI() {
	l := st.localization

	st.gameFolderEntry = widget.NewEntry()
	browseBtn := widget.NewButton(l.GetText(KeyBrowse), st.onBrowseDirectory)
	gameFolderRow := container.NewBorder(nil, nil, nil, browseBtn, st.gameFolderEntry)

	var filterOptions []string
	for _, mode := range st.settings.GetFilterModeOptions() {
		filterOptions = append(filterOptions, st.filterModeLabel(mode))
	}
	st.filterModeSelect = widget.NewSelect(filterOptions, nil)

	var selectOptions []string
	for _, mode := range st.settings.GetSelectModeOptions() {
		selectOptions = append(selectOptions, st.selectModeLabel(mode))
	}
	st.selectModeSelect = widget.NewSelect(selectOptions, nil)

	st.playOnClickCheck = widget.NewCheck(l.GetText(KeyPlayOnClick), nil)

	st.languageSelect = widget.NewSelect(st.languageNames(), nil)

	st.maxParallelEntry = widget.NewEntry()
	st.maxParallelEntry.SetPlaceHolder("1-" + strconv.Itoa(config.MaxParallelLimit))
	st.maxParallelEntry.Validator = func(text string) error {
		_, err := strconv.Atoi(text)
		return err
	}

	st.cdnURLEntry = widget.NewEntry()
	st.cdnURLEntry.SetPlaceHolder(cdn.DefaultBaseURL)

	form := widget.NewForm(
		widget.NewFormItem(l.GetText(KeyGameFolder), gameFolderRow),
		widget.NewFormItem(l.GetText(KeyFilterMode), st.filterModeSelect),
		widget.NewFormItem(l.GetText(KeySelectMode), st.selectModeSelect),
		widget.NewFormItem("", st.playOnClickCheck),
		widget.NewFormItem(l.GetText(KeyLanguage), st.languageSelect),
		widget.NewFormItem(l.GetText(KeyMaxParallel), st.maxParallelEntry),
		widget.NewFormItem(l.GetText(KeyCDNURL), st.cdnURLEntry),
	)

	saveBtn := widget.NewButton(l.GetText(KeySave), st.onSave)
	saveBtn.Importance = widget.HighImportance

	st.content = container.NewVScroll(container.NewVBox(form, container.NewHBox(saveBtn)))
}

func (st *SettingsTab) loadCurrentSettings() {
	st.gameFolderEntry.SetText(st.settings.GetGameFolder())
	st.filterModeSelect.SetSelected(st.filterModeLabel(st.settings.GetFilterMode()))
	st.selectModeSelect.SetSelected(st.selectModeLabel(st.settings.GetSelectMode()))
	st.playOnClickCheck.SetChecked(st.settings.GetPlayOnClick())
	st.languageSelect.SetSelected(st.settings.GetLocaleOptions()[st.settings.GetLocale()])
	st.maxParallelEntry.SetText(strconv.Itoa(st.settings.GetMaxParallelDownloads()))
	st.cdnURLEntry.SetText(st.settings.GetCDNURL())
}

func (st *SettingsTab) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		st.gameFolderEntry.SetText(uri.Path())
	}, st.window)
}

// onSave stores the form values and notifies the window
func (st *SettingsTab) onSave() {
	if folder := st.gameFolderEntry.Text; folder != "" {
		st.settings.SetGameFolder(folder)
	}

	for _, mode := range st.settings.GetFilterModeOptions() {
		if st.filterModeLabel(mode) == st.filterModeSelect.Selected {
			st.settings.SetFilterMode(mode)
		}
	}
	for _, mode := range st.settings.GetSelectModeOptions() {
		if st.selectModeLabel(mode) == st.selectModeSelect.Selected {
			st.settings.SetSelectMode(mode)
		}
	}
	st.settings.SetPlayOnClick(st.playOnClickCheck.Checked)

	for code, name := range st.settings.GetLocaleOptions() {
		if name == st.languageSelect.Selected {
			st.settings.SetLocale(code)
		}
	}

	if maxParallel, err := strconv.Atoi(st.maxParallelEntry.Text); err == nil {
		st.settings.SetMaxParallelDownloads(maxParallel)
	}

	st.settings.SetCDNURL(st.cdnURLEntry.Text)

	if st.onSaved != nil {
		st.onSaved()
	}
}

func (st *SettingsTab) languageNames() []string {
	var names []string
	for _, name := range st.settings.GetLocaleOptions() {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (st *SettingsTab) filterModeLabel(mode config.FilterMode) string {
	if mode == config.FilterHide {
		return st.localization.GetText(KeyFilterHide)
	}
	return st.localization.GetText(KeyFilterGrayOut)
}

func (st *SettingsTab) selectModeLabel(mode config.SelectMode) string {
	if mode == config.SelectClick {
		return st.localization.GetText(KeySelectClick)
	}
	return st.localization.GetText(KeySelectHover)
}
