package views

import (
	"fmt"
	"strings"
	"time"

	"risk-assessor/internal/models"
	"risk-assessor/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// MainView represents the main application view using MVC pattern
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container
	header        *widget.Label
	toolbar       *components.Toolbar
	form          *components.FeatureForm
	statusBar     *components.StatusBar
	progressBar   *components.ProgressBar

	// Event handlers - connected to controller
	assessHandler  func(map[string]string)
	clearHandler   func()
	modelHandler   func()
	historyHandler func()
	reopenHandler  func(models.Assessment)
}

func NewMainView(window fyne.Window) *MainView {
	view := &MainView{
		window: window,
	}

	view.initializeComponents()
	view.buildLayout()
	view.setupEventHandlers()

	return view
}

func (mv *MainView) initializeComponents() {
	mv.header = widget.NewLabelWithStyle(
		"Alzheimer's Disease Risk Assessment",
		fyne.TextAlignCenter,
		fyne.TextStyle{Bold: true},
	)
	mv.toolbar = components.NewToolbar()
	mv.form = components.NewFeatureForm()
	mv.statusBar = components.NewStatusBar()
	mv.progressBar = components.NewProgressBar()
}

func (mv *MainView) buildLayout() {
	topArea := container.NewVBox(
		mv.header,
		mv.toolbar.GetContainer(),
		mv.progressBar.GetContainer(),
		widget.NewSeparator(),
	)

	mv.mainContainer = container.NewBorder(
		topArea,
		mv.statusBar.GetContainer(),
		nil,
		nil,
		mv.form.GetContainer(),
	)

	mv.window.SetContent(mv.mainContainer)
}

// setupEventHandlers connects internal component events
func (mv *MainView) setupEventHandlers() {
	submit := func() {
		if mv.assessHandler != nil && mv.toolbar.IsModelReady() {
			mv.assessHandler(mv.form.Values())
		}
	}
	mv.toolbar.SetAssessHandler(submit)
	mv.form.SetSubmitHandler(submit)

	mv.toolbar.SetClearHandler(func() {
		if mv.clearHandler != nil {
			mv.clearHandler()
		}
	})
	mv.toolbar.SetModelHandler(func() {
		if mv.modelHandler != nil {
			mv.modelHandler()
		}
	})
	mv.toolbar.SetHistoryHandler(func() {
		if mv.historyHandler != nil {
			mv.historyHandler()
		}
	})
}

// SetAssessHandler receives the raw form values on submit.
func (mv *MainView) SetAssessHandler(handler func(map[string]string)) {
	mv.assessHandler = handler
}

func (mv *MainView) SetClearHandler(handler func()) {
	mv.clearHandler = handler
}

func (mv *MainView) SetModelInfoHandler(handler func()) {
	mv.modelHandler = handler
}

func (mv *MainView) SetHistoryHandler(handler func()) {
	mv.historyHandler = handler
}

// SetReopenHandler is called with the assessment picked in the history dialog.
func (mv *MainView) SetReopenHandler(handler func(models.Assessment)) {
	mv.reopenHandler = handler
}

// UI update methods - called by controller

func (mv *MainView) UpdateStatus(status string) {
	fyne.Do(func() {
		mv.statusBar.SetStatus(status)
	})
}

func (mv *MainView) UpdateTrainingProgress(stage string, progress float64) {
	fyne.Do(func() {
		mv.progressBar.SetVisible(true)
		mv.progressBar.SetProgress(progress)
		mv.progressBar.SetStage(stage)
	})
}

// SetModelReady toggles the model-dependent actions and hides the progress bar.
func (mv *MainView) SetModelReady(ready bool, testAccuracy float64, rows int) {
	fyne.Do(func() {
		mv.toolbar.SetModelReady(ready)
		mv.progressBar.SetVisible(false)
		if ready {
			mv.statusBar.SetModelAccuracy(testAccuracy, rows)
		} else {
			mv.statusBar.SetModelUnavailable("unavailable")
		}
	})
}

func (mv *MainView) UpdateSessionStats(stats models.AssessmentStats) {
	fyne.Do(func() {
		mv.statusBar.SetSessionStats(stats.Total, stats.HighRisk)
	})
}

// ShowResult pops up the predicted risk for one assessment.
func (mv *MainView) ShowResult(a models.Assessment) {
	message := fmt.Sprintf("%s\n\nProbability of Alzheimer's diagnosis: %.1f%%\nModel confidence: %.1f%%",
		a.Risk, a.Probability*100, a.Confidence()*100)
	fyne.Do(func() {
		mv.form.ClearErrors()
		dialog.ShowInformation("Risk Assessment", message, mv.window)
	})
}

// ShowValidationErrors marks the failing fields and lists them in one dialog.
func (mv *MainView) ShowValidationErrors(errs models.ValidationErrors) {
	fyne.Do(func() {
		mv.form.ShowFieldErrors(errs)
		dialog.ShowError(fmt.Errorf("please correct the following fields:\n%s", errs.Error()), mv.window)
	})
}

func (mv *MainView) ShowError(title string, err error) {
	fyne.Do(func() {
		dialog.ShowError(fmt.Errorf("%s: %w", title, err), mv.window)
	})
}

func (mv *MainView) ShowConfirm(title, message string, callback func(bool)) {
	fyne.Do(func() {
		dialog.ShowConfirm(title, message, callback, mv.window)
	})
}

// ModelInfo is the summary shown by the model info dialog.
type ModelInfo struct {
	Dataset       string
	Rows          int
	TrainRows     int
	TestRows      int
	TrainAccuracy float64
	TestAccuracy  float64
	Confusion     string
	TrainDuration time.Duration
	AvgPredict    time.Duration
	Predictions   int
}

func (mv *MainView) ShowModelInfo(info ModelInfo) {
	text := fmt.Sprintf(
		"Dataset: %s\nRows: %d (train %d, test %d)\nTrain accuracy: %.2f%%\nTest accuracy: %.2f%%\nTraining time: %s\nPredictions: %d (average %s)\n\n%s",
		info.Dataset, info.Rows, info.TrainRows, info.TestRows,
		info.TrainAccuracy*100, info.TestAccuracy*100,
		info.TrainDuration.Round(time.Millisecond), info.Predictions, info.AvgPredict, info.Confusion,
	)
	label := widget.NewLabel(text)
	label.TextStyle = fyne.TextStyle{Monospace: true}
	fyne.Do(func() {
		dialog.ShowCustom("Model", "Close", label, mv.window)
	})
}

// ShowHistory lists recent assessments, newest first. Selecting one hands it
// to the reopen handler and closes the dialog.
func (mv *MainView) ShowHistory(items []models.Assessment) {
	fyne.Do(func() {
		if len(items) == 0 {
			dialog.ShowInformation("History", FormatHistory(nil), mv.window)
			return
		}

		list := widget.NewList(
			func() int { return len(items) },
			func() fyne.CanvasObject { return widget.NewLabel("") },
			func(id widget.ListItemID, obj fyne.CanvasObject) {
				obj.(*widget.Label).SetText(FormatHistoryLine(items[id]))
			},
		)
		d := dialog.NewCustom("History", "Close", container.NewGridWrap(fyne.NewSize(420, 300), list), mv.window)
		list.OnSelected = func(id widget.ListItemID) {
			d.Hide()
			if mv.reopenHandler != nil {
				mv.reopenHandler(items[id])
			}
		}
		d.Show()
	})
}

// FormatHistory renders one line per assessment.
func FormatHistory(items []models.Assessment) string {
	if len(items) == 0 {
		return "No assessments yet"
	}
	lines := make([]string, len(items))
	for i, a := range items {
		lines[i] = FormatHistoryLine(a)
	}
	return strings.Join(lines, "\n")
}

func FormatHistoryLine(a models.Assessment) string {
	return fmt.Sprintf("%s  %-9s  %5.1f%%",
		a.CreatedAt.Local().Format("2006-01-02 15:04:05"), a.Risk, a.Probability*100)
}

// LoadFeatures fills the form with a previous assessment's inputs.
func (mv *MainView) LoadFeatures(vec models.FeatureVector) {
	raw := vec.Raw()
	fyne.Do(func() {
		mv.form.ClearErrors()
		mv.form.SetValues(raw)
	})
}

func (mv *MainView) ResetForm() {
	fyne.Do(func() {
		mv.form.Reset()
	})
}

func (mv *MainView) Show() {
	fyne.Do(func() {
		mv.window.Show()
	})
}

func (mv *MainView) GetWindow() fyne.Window {
	return mv.window
}

func (mv *MainView) GetContainer() *fyne.Container {
	return mv.mainContainer
}

func (mv *MainView) GetForm() *components.FeatureForm {
	return mv.form
}

// ViewState represents the current state of the view
type ViewState struct {
	ModelReady    bool
	IsTraining    bool
	StatusMessage string
	ModelInfo     string
	ProgressValue float64
	ProgressStage string
}

func (mv *MainView) GetViewState() ViewState {
	return ViewState{
		ModelReady:    mv.toolbar.IsModelReady(),
		IsTraining:    mv.progressBar.IsVisible(),
		StatusMessage: mv.statusBar.GetStatus(),
		ModelInfo:     mv.statusBar.GetModelInfo(),
		ProgressValue: mv.progressBar.GetProgress(),
		ProgressStage: mv.progressBar.GetStage(),
	}
}
