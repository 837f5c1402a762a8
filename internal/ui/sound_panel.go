package ui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"

	"github.com/ytget/gdsfx/internal/library"
)

// PanelState carries what the side panel needs besides the entry itself
type PanelState struct {
	Downloaded bool
	Favorite   bool
	Playing    bool
}

// SoundPanel shows the details and actions of the selected sound
type SoundPanel struct {
	localization *Localization
	content      *fyne.Container

	placeholder *widget.Label
	details     *fyne.Container

	title       *widget.Label
	record      *widget.Label
	idValue     *widget.Label
	parentValue *widget.Label
	sizeValue   *widget.Label
	lengthValue *widget.Label

	downloadBtn *widget.Button
	playBtn     *widget.Button
	favoriteBtn *widget.Button

	entry *library.Entry
	state PanelState

	onDownload func(*library.Entry)
	onPlay     func(*library.Entry)
	onFavorite func(*library.Entry)
}

// NewSoundPanel creates the panel. The callbacks toggle download, playback and
// favourite state of the shown sound.
func NewSoundPanel(localization *Localization, onDownload, onPlay, onFavorite func(*library.Entry)) *SoundPanel {
	p := &SoundPanel{
		localization: localization,
		onDownload:   onDownload,
		onPlay:       onPlay,
		onFavorite:   onFavorite,
	}
	p.createUI()
	p.Show(nil, PanelState{})
	return p
}

func (p *SoundPanel) createUI() {
	p.placeholder = widget.NewLabel(p.localization.GetText(KeyNoSelection))
	p.placeholder.Wrapping = fyne.TextWrapWord

	p.title = widget.NewLabel("")
	p.title.TextStyle = fyne.TextStyle{Bold: true}
	p.title.Wrapping = fyne.TextWrapWord

	p.record = widget.NewLabel("")
	p.record.TextStyle = fyne.TextStyle{Monospace: true}
	p.record.Truncation = fyne.TextTruncateEllipsis

	p.idValue = widget.NewLabel("")
	p.parentValue = widget.NewLabel("")
	p.sizeValue = widget.NewLabel("")
	p.lengthValue = widget.NewLabel("")

	facts := container.New(layout.NewFormLayout(),
		widget.NewLabel(p.localization.GetText(KeyID)), p.idValue,
		widget.NewLabel(p.localization.GetText(KeyCategoryID)), p.parentValue,
		widget.NewLabel(p.localization.GetText(KeySize)), p.sizeValue,
		widget.NewLabel(p.localization.GetText(KeyDuration)), p.lengthValue,
	)

	p.downloadBtn = widget.NewButton("", func() {
		if p.entry != nil && p.onDownload != nil {
			p.onDownload(p.entry)
		}
	})
	p.playBtn = widget.NewButton("", func() {
		if p.entry != nil && p.onPlay != nil {
			p.onPlay(p.entry)
		}
	})
	p.favoriteBtn = widget.NewButton("", func() {
		if p.entry != nil && p.onFavorite != nil {
			p.onFavorite(p.entry)
		}
	})

	p.details = container.NewVBox(
		p.title,
		p.record,
		widget.NewSeparator(),
		facts,
		widget.NewSeparator(),
		container.NewGridWithColumns(2, p.downloadBtn, p.playBtn),
		p.favoriteBtn,
	)

	p.content = container.NewVBox(p.placeholder, p.details)
}

// Container returns the panel's canvas object
func (p *SoundPanel) Container() fyne.CanvasObject {
	return p.content
}

// Entry returns the sound currently shown, or nil
func (p *SoundPanel) Entry() *library.Entry {
	return p.entry
}

// Show displays entry. Categories and nil clear the panel.
func (p *SoundPanel) Show(entry *library.Entry, state PanelState) {
	if entry == nil || !entry.IsSound() {
		p.entry = nil
		p.state = PanelState{}
		p.details.Hide()
		p.placeholder.Show()
		return
	}

	p.entry = entry
	p.state = state

	p.title.SetText(entry.Name)
	p.record.SetText(library.FormatRecord(entry))
	p.idValue.SetText(strconv.Itoa(entry.ID))
	p.parentValue.SetText(strconv.Itoa(entry.ParentID))
	p.sizeValue.SetText(humanize.Bytes(uint64(max(entry.Bytes, 0))) + " (" + humanize.Comma(entry.Bytes) + " B)")
	p.lengthValue.SetText(entry.Duration.String() + p.localization.GetText(KeySeconds))

	if state.Downloaded {
		p.downloadBtn.SetText(p.localization.GetText(KeyDelete))
		p.downloadBtn.SetIcon(theme.DeleteIcon())
		p.downloadBtn.Importance = widget.DangerImportance
	} else {
		p.downloadBtn.SetText(p.localization.GetText(KeyDownload))
		p.downloadBtn.SetIcon(theme.DownloadIcon())
		p.downloadBtn.Importance = widget.HighImportance
	}
	p.downloadBtn.Refresh()

	if state.Playing {
		p.playBtn.SetText(p.localization.GetText(KeyStop))
		p.playBtn.SetIcon(theme.MediaStopIcon())
	} else {
		p.playBtn.SetText(p.localization.GetText(KeyPlay))
		p.playBtn.SetIcon(theme.MediaPlayIcon())
	}

	if state.Favorite {
		p.favoriteBtn.SetText(p.localization.GetText(KeyUnfavorite))
	} else {
		p.favoriteBtn.SetText(p.localization.GetText(KeyFavorite))
	}

	p.placeholder.Hide()
	p.details.Show()
}
