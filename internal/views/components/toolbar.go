package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Toolbar holds the form actions.
type Toolbar struct {
	container     *fyne.Container
	assessButton  *widget.Button
	clearButton   *widget.Button
	modelButton   *widget.Button
	historyButton *widget.Button

	assessHandler  func()
	clearHandler   func()
	modelHandler   func()
	historyHandler func()

	modelReady bool
}

func NewToolbar() *Toolbar {
	toolbar := &Toolbar{}
	toolbar.createComponents()
	toolbar.buildLayout()
	toolbar.setupEventHandlers()
	return toolbar
}

func (t *Toolbar) createComponents() {
	t.assessButton = widget.NewButtonWithIcon("Assess Risk", theme.ConfirmIcon(), nil)
	t.assessButton.Importance = widget.HighImportance
	t.assessButton.Disable()

	t.clearButton = widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), nil)
	t.modelButton = widget.NewButtonWithIcon("Model", theme.InfoIcon(), nil)
	t.modelButton.Disable()
	t.historyButton = widget.NewButtonWithIcon("History", theme.HistoryIcon(), nil)
}

func (t *Toolbar) buildLayout() {
	t.container = container.NewHBox(
		t.assessButton,
		t.clearButton,
		widget.NewSeparator(),
		t.modelButton,
		t.historyButton,
	)
}

func (t *Toolbar) setupEventHandlers() {
	t.assessButton.OnTapped = func() {
		if t.assessHandler != nil {
			t.assessHandler()
		}
	}
	t.clearButton.OnTapped = func() {
		if t.clearHandler != nil {
			t.clearHandler()
		}
	}
	t.modelButton.OnTapped = func() {
		if t.modelHandler != nil {
			t.modelHandler()
		}
	}
	t.historyButton.OnTapped = func() {
		if t.historyHandler != nil {
			t.historyHandler()
		}
	}
}

func (t *Toolbar) SetAssessHandler(handler func())  { t.assessHandler = handler }
func (t *Toolbar) SetClearHandler(handler func())   { t.clearHandler = handler }
func (t *Toolbar) SetModelHandler(handler func())   { t.modelHandler = handler }
func (t *Toolbar) SetHistoryHandler(handler func()) { t.historyHandler = handler }

// SetModelReady enables the actions that need a trained model.
func (t *Toolbar) SetModelReady(ready bool) {
	t.modelReady = ready
	if ready {
		t.assessButton.Enable()
		t.modelButton.Enable()
	} else {
		t.assessButton.Disable()
		t.modelButton.Disable()
	}
}

func (t *Toolbar) IsModelReady() bool {
	return t.modelReady
}

func (t *Toolbar) AssessButton() *widget.Button {
	return t.assessButton
}

func (t *Toolbar) ClearButton() *widget.Button {
	return t.clearButton
}

func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}
