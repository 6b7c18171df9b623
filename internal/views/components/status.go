package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar displays application status and information
type StatusBar struct {
	container    *fyne.Container
	statusLabel  *widget.Label
	modelInfo    *widget.Label
	sessionStats *widget.Label
}

func NewStatusBar() *StatusBar {
	sb := &StatusBar{}
	sb.createComponents()
	sb.buildLayout()
	return sb
}

func (sb *StatusBar) createComponents() {
	sb.statusLabel = widget.NewLabel("Ready")
	sb.modelInfo = widget.NewLabel("Model: not trained")
	sb.sessionStats = widget.NewLabel("Assessments: 0")
}

func (sb *StatusBar) buildLayout() {
	sb.container = container.NewHBox(
		sb.statusLabel,
		widget.NewSeparator(),
		sb.modelInfo,
		widget.NewSeparator(),
		sb.sessionStats,
	)
}

func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

// SetModelAccuracy shows the held-out accuracy of the served model.
func (sb *StatusBar) SetModelAccuracy(testAccuracy float64, rows int) {
	sb.modelInfo.SetText(fmt.Sprintf("Model: %.2f%% test accuracy, %d rows", testAccuracy*100, rows))
}

func (sb *StatusBar) SetModelUnavailable(reason string) {
	sb.modelInfo.SetText("Model: " + reason)
}

func (sb *StatusBar) GetModelInfo() string {
	return sb.modelInfo.Text
}

func (sb *StatusBar) SetSessionStats(total, high int) {
	sb.sessionStats.SetText(fmt.Sprintf("Assessments: %d (%d high risk)", total, high))
}

func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}

// ProgressBar displays training progress with stage information
type ProgressBar struct {
	container   *fyne.Container
	progressBar *widget.ProgressBar
	stageLabel  *widget.Label
	visible     bool
}

func NewProgressBar() *ProgressBar {
	pb := &ProgressBar{}
	pb.createComponents()
	pb.buildLayout()
	return pb
}

func (pb *ProgressBar) createComponents() {
	pb.progressBar = widget.NewProgressBar()
	pb.stageLabel = widget.NewLabel("Ready")
}

func (pb *ProgressBar) buildLayout() {
	pb.container = container.NewVBox(
		pb.stageLabel,
		pb.progressBar,
	)
	pb.container.Hide()
}

// SetProgress updates the progress value (0.0 to 1.0)
func (pb *ProgressBar) SetProgress(progress float64) {
	if progress < 0.0 {
		progress = 0.0
	} else if progress > 1.0 {
		progress = 1.0
	}
	pb.progressBar.SetValue(progress)
}

func (pb *ProgressBar) GetProgress() float64 {
	return pb.progressBar.Value
}

func (pb *ProgressBar) SetStage(stage string) {
	pb.stageLabel.SetText(stage)
}

func (pb *ProgressBar) GetStage() string {
	return pb.stageLabel.Text
}

func (pb *ProgressBar) SetVisible(visible bool) {
	pb.visible = visible
	if visible {
		pb.container.Show()
	} else {
		pb.container.Hide()
	}
}

func (pb *ProgressBar) IsVisible() bool {
	return pb.visible
}

func (pb *ProgressBar) GetContainer() *fyne.Container {
	return pb.container
}
