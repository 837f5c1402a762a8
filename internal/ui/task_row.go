package ui

import (
	"image/color"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"

	"github.com/ytget/gdsfx/internal/model"
)

// TaskRow is one line of the download queue on the Tools tab
type TaskRow struct {
	widget.BaseWidget

	task         *model.DownloadTask
	localization *Localization

	titleLabel  *widget.Label
	statusLabel *widget.Label
	detailLabel *widget.Label

	stopBtn   *widget.Button
	revealBtn *widget.Button

	onStop   func(taskID string)
	onReveal func(filePath string)
}

// NewTaskRow creates a new task row widget
func NewTaskRow(task *model.DownloadTask, localization *Localization) *TaskRow {
	if task == nil {
		task = &model.DownloadTask{Status: model.TaskStatusPending}
	}

	tr := &TaskRow{
		task:         task,
		localization: localization,
	}
	tr.ExtendBaseWidget(tr)
	tr.createUI()
	tr.updateFromTask()
	return tr
}

// SetCallbacks sets the action callbacks
func (tr *TaskRow) SetCallbacks(onStop func(taskID string), onReveal func(filePath string)) {
	tr.onStop = onStop
	tr.onReveal = onReveal
}

// UpdateTask updates the row with new task data
func (tr *TaskRow) UpdateTask(task *model.DownloadTask) {
	if task == nil {
		log.Printf("Warning: UpdateTask called with nil task for existing task %s", tr.task.ID)
		return
	}
	tr.task = task
	tr.updateFromTask()
	tr.Refresh()
}

func (tr *TaskRow) createUI() {
	tr.titleLabel = widget.NewLabel("")
	tr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	tr.titleLabel.Truncation = fyne.TextTruncateEllipsis

	tr.statusLabel = widget.NewLabel("")
	tr.statusLabel.Alignment = fyne.TextAlignTrailing

	tr.detailLabel = widget.NewLabel("")
	tr.detailLabel.TextStyle = fyne.TextStyle{Monospace: true}
	tr.detailLabel.Truncation = fyne.TextTruncateEllipsis

	tr.stopBtn = widget.NewButtonWithIcon("", theme.MediaStopIcon(), func() {
		if tr.onStop != nil {
			tr.onStop(tr.task.ID)
		}
	})
	tr.stopBtn.Importance = widget.LowImportance

	tr.revealBtn = widget.NewButtonWithIcon("", theme.FolderOpenIcon(), func() {
		if tr.onReveal != nil && tr.task.OutputPath != "" {
			tr.onReveal(tr.task.OutputPath)
		}
	})
	tr.revealBtn.Importance = widget.LowImportance
}

func (tr *TaskRow) updateFromTask() {
	tr.titleLabel.SetText(tr.task.GetDisplayTitle())

	switch tr.task.Status {
	case model.TaskStatusError:
		tr.statusLabel.Importance = widget.DangerImportance
	case model.TaskStatusCompleted:
		tr.statusLabel.Importance = widget.SuccessImportance
	case model.TaskStatusDownloading, model.TaskStatusStopping:
		tr.statusLabel.Importance = widget.HighImportance
	default:
		tr.statusLabel.Importance = widget.MediumImportance
	}
	tr.statusLabel.SetText(tr.task.Status.String())

	detail := DashPlaceholder
	switch {
	case tr.task.Status == model.TaskStatusError && tr.task.LastError != "":
		detail = tr.task.LastError
	case tr.task.Status == model.TaskStatusCompleted:
		detail = humanize.Bytes(uint64(max(tr.task.Bytes, 0))) + MiddleDotSeparator + tr.task.Elapsed().Round(time.Millisecond).String()
	}
	tr.detailLabel.SetText(detail)

	if tr.task.Status == model.TaskStatusPending || tr.task.Status == model.TaskStatusDownloading {
		tr.stopBtn.Enable()
	} else {
		tr.stopBtn.Disable()
	}
	if tr.task.Status == model.TaskStatusCompleted && tr.task.OutputPath != "" {
		tr.revealBtn.Enable()
	} else {
		tr.revealBtn.Disable()
	}
}

// CreateRenderer creates the widget renderer
func (tr *TaskRow) CreateRenderer() fyne.WidgetRenderer {
	// fixed width keeps the status column aligned across rows
	spacer := canvas.NewRectangle(color.Transparent)
	spacer.SetMinSize(fyne.NewSize(StatusLabelWidth, 0))
	status := container.NewStack(spacer, tr.statusLabel)

	actions := container.NewHBox(status, tr.stopBtn, tr.revealBtn)
	text := container.NewVBox(tr.titleLabel, tr.detailLabel)
	return widget.NewSimpleRenderer(container.NewBorder(nil, nil, nil, actions, text))
}
