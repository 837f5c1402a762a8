package ui

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/gdsfx/internal/library"
	"github.com/ytget/gdsfx/internal/model"
)

func TestSoundRow_Update(t *testing.T) {
	test.NewApp()

	row := NewSoundRow(nil, nil, nil)
	boom := library.NewSound(100, "Boom", 10, 123, 1000)

	row.Update(boom, RowState{Enabled: true})
	assert.Equal(t, "Boom", row.Text())
	assert.Equal(t, "1.23", row.detail.Text)
	assert.False(t, row.name.TextStyle.Bold)

	row.Update(boom, RowState{Enabled: true, Favorite: true, Downloaded: true})
	assert.Equal(t, IconFavorite+" Boom", row.Text())
	assert.Equal(t, "1.23 "+IconDownloaded, row.detail.Text)
	assert.Equal(t, theme.Color(theme.ColorNameSuccess), row.detail.Color)

	folder := library.NewCategory(10, "Explosions", 1)
	row.Update(folder, RowState{})
	assert.Equal(t, "Explosions", row.Text())
	assert.Empty(t, row.detail.Text)
	assert.True(t, row.name.TextStyle.Bold)
	assert.Equal(t, theme.Color(theme.ColorNameDisabled), row.name.Color)
	assert.Same(t, folder, row.Entry())
}

func TestSoundRow_Events(t *testing.T) {
	test.NewApp()

	var tapped, hovered, menu []*library.Entry
	row := NewSoundRow(
		func(e *library.Entry) { tapped = append(tapped, e) },
		func(e *library.Entry) { hovered = append(hovered, e) },
		func(e *library.Entry, _ fyne.Position) { menu = append(menu, e) },
	)

	// nothing happens before an entry is shown
	test.Tap(row)
	row.MouseIn(nil)
	assert.Empty(t, tapped)
	assert.Empty(t, hovered)

	boom := library.NewSound(100, "Boom", 10, 1, 1)
	row.Update(boom, RowState{Enabled: true})
	test.Tap(row)
	row.MouseIn(nil)
	row.TappedSecondary(&fyne.PointEvent{})
	assert.Equal(t, []*library.Entry{boom}, tapped)
	assert.Equal(t, []*library.Entry{boom}, hovered)
	assert.Equal(t, []*library.Entry{boom}, menu)

	// categories have no context menu, disabled rows ignore input
	folder := library.NewCategory(10, "Explosions", 1)
	row.Update(folder, RowState{Enabled: true})
	row.TappedSecondary(&fyne.PointEvent{})
	assert.Len(t, menu, 1)

	row.Update(folder, RowState{})
	test.Tap(row)
	row.MouseIn(nil)
	assert.Len(t, tapped, 1)
	assert.Len(t, hovered, 1)
}

func TestSoundPanel_Show(t *testing.T) {
	test.NewApp()
	l := NewLocalization()

	var downloads, plays, favorites int
	panel := NewSoundPanel(l,
		func(*library.Entry) { downloads++ },
		func(*library.Entry) { plays++ },
		func(*library.Entry) { favorites++ },
	)
	assert.Nil(t, panel.Entry())
	assert.True(t, panel.placeholder.Visible())
	assert.False(t, panel.details.Visible())

	// buttons do nothing without a sound
	test.Tap(panel.downloadBtn)
	assert.Zero(t, downloads)

	boom := library.NewSound(100, "Boom", 10, 500, 1500)
	panel.Show(boom, PanelState{})
	assert.Same(t, boom, panel.Entry())
	assert.False(t, panel.placeholder.Visible())
	assert.Equal(t, "100,Boom,0,10,1500,500", panel.record.Text)
	assert.Equal(t, "100", panel.idValue.Text)
	assert.Equal(t, "10", panel.parentValue.Text)
	assert.Equal(t, "1.5 kB (1,500 B)", panel.sizeValue.Text)
	assert.Equal(t, "5.00s", panel.lengthValue.Text)
	assert.Equal(t, "Download", panel.downloadBtn.Text)
	assert.Equal(t, "Play", panel.playBtn.Text)
	assert.Equal(t, "Favourite", panel.favoriteBtn.Text)

	panel.Show(boom, PanelState{Downloaded: true, Favorite: true, Playing: true})
	assert.Equal(t, "Delete", panel.downloadBtn.Text)
	assert.Equal(t, "Stop", panel.playBtn.Text)
	assert.Equal(t, "Remove favourite", panel.favoriteBtn.Text)

	test.Tap(panel.downloadBtn)
	test.Tap(panel.playBtn)
	test.Tap(panel.favoriteBtn)
	assert.Equal(t, 1, downloads)
	assert.Equal(t, 1, plays)
	assert.Equal(t, 1, favorites)

	panel.Show(library.NewCategory(10, "Explosions", 1), PanelState{})
	assert.Nil(t, panel.Entry())
	assert.True(t, panel.placeholder.Visible())
}

func TestTaskRow(t *testing.T) {
	test.NewApp()
	l := NewLocalization()

	row := NewTaskRow(nil, l)
	assert.Equal(t, "#0", row.titleLabel.Text)

	var stopped []string
	var revealed []string
	row.SetCallbacks(
		func(id string) { stopped = append(stopped, id) },
		func(path string) { revealed = append(revealed, path) },
	)

	row.UpdateTask(&model.DownloadTask{ID: "task-1", SoundID: 5, Name: "Boom", Status: model.TaskStatusDownloading})
	assert.Equal(t, "Boom", row.titleLabel.Text)
	assert.False(t, row.stopBtn.Disabled())
	assert.True(t, row.revealBtn.Disabled())
	test.Tap(row.stopBtn)
	assert.Equal(t, []string{"task-1"}, stopped)

	started := time.Now()
	row.UpdateTask(&model.DownloadTask{
		ID: "task-1", Name: "Boom", Status: model.TaskStatusCompleted, Bytes: 2048,
		OutputPath: "/gd/s5.ogg", StartedAt: started, FinishedAt: started.Add(1500 * time.Millisecond),
	})
	assert.True(t, row.stopBtn.Disabled())
	assert.False(t, row.revealBtn.Disabled())
	assert.Equal(t, "2.0 kB"+MiddleDotSeparator+"1.5s", row.detailLabel.Text)
	test.Tap(row.revealBtn)
	assert.Equal(t, []string{"/gd/s5.ogg"}, revealed)

	row.UpdateTask(&model.DownloadTask{ID: "task-1", Status: model.TaskStatusError, LastError: "unexpected status 403"})
	assert.Contains(t, row.detailLabel.Text, "403")
	assert.Equal(t, "Error", row.statusLabel.Text)

	// nil updates are ignored
	row.UpdateTask(nil)
	require.Equal(t, model.TaskStatusError, row.task.Status)
}
