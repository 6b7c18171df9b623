package components

import (
	"strings"

	"risk-assessor/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// fieldInput is the widget a single feature is edited with.
type fieldInput struct {
	spec     models.FeatureSpec
	entry    *widget.Entry
	radio    *widget.RadioGroup
	dropdown *widget.Select
	errLabel *widget.Label
}

func (fi *fieldInput) object() fyne.CanvasObject {
	switch {
	case fi.entry != nil:
		return fi.entry
	case fi.radio != nil:
		return fi.radio
	default:
		return fi.dropdown
	}
}

func (fi *fieldInput) value() string {
	switch {
	case fi.entry != nil:
		return strings.TrimSpace(fi.entry.Text)
	case fi.radio != nil:
		return fi.radio.Selected
	default:
		return fi.dropdown.Selected
	}
}

func (fi *fieldInput) setValue(v string) {
	switch {
	case fi.entry != nil:
		fi.entry.SetText(v)
	case fi.radio != nil:
		fi.radio.SetSelected(v)
	default:
		if v == "" {
			fi.dropdown.ClearSelected()
			return
		}
		fi.dropdown.SetSelected(v)
	}
}

func (fi *fieldInput) setError(msg string) {
	if msg == "" {
		fi.errLabel.SetText("")
		fi.errLabel.Hide()
		return
	}
	fi.errLabel.SetText(msg)
	fi.errLabel.Show()
}

// FeatureForm renders one input per clinical feature in schema order.
type FeatureForm struct {
	container *container.Scroll
	fields    []*fieldInput
	byKey     map[string]*fieldInput

	submitHandler func()
}

func NewFeatureForm() *FeatureForm {
	form := &FeatureForm{byKey: make(map[string]*fieldInput)}
	form.createComponents()
	form.buildLayout()
	return form
}

func (ff *FeatureForm) createComponents() {
	for _, spec := range models.FeatureSchema() {
		fi := &fieldInput{spec: spec}

		switch spec.Widget {
		case models.Radio:
			fi.radio = widget.NewRadioGroup(spec.OptionLabels(), nil)
			fi.radio.Horizontal = true
		case models.Dropdown:
			fi.dropdown = widget.NewSelect(spec.OptionLabels(), nil)
			fi.dropdown.PlaceHolder = "Select"
		default:
			fi.entry = widget.NewEntry()
			fi.entry.SetPlaceHolder(spec.Placeholder())
			fi.entry.OnSubmitted = func(string) {
				if ff.submitHandler != nil {
					ff.submitHandler()
				}
			}
		}

		fi.errLabel = widget.NewLabel("")
		fi.errLabel.Importance = widget.DangerImportance
		fi.errLabel.Hide()

		ff.fields = append(ff.fields, fi)
		ff.byKey[spec.Key] = fi
	}
}

func (ff *FeatureForm) buildLayout() {
	grid := container.New(layout.NewFormLayout())
	for _, fi := range ff.fields {
		label := fi.spec.Label
		if fi.spec.Unit != "" {
			label += " (" + fi.spec.Unit + ")"
		}
		input := container.NewVBox(fi.object(), fi.errLabel)
		if fi.spec.Help != "" {
			help := widget.NewLabel(fi.spec.Help)
			help.Importance = widget.LowImportance
			input.Add(help)
		}
		grid.Add(widget.NewLabelWithStyle(label, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
		grid.Add(input)
	}
	ff.container = container.NewVScroll(container.NewPadded(grid))
}

// SetSubmitHandler is invoked when Enter is pressed in a numeric entry.
func (ff *FeatureForm) SetSubmitHandler(handler func()) {
	ff.submitHandler = handler
}

// Values returns the raw text of every field keyed by feature key.
func (ff *FeatureForm) Values() map[string]string {
	out := make(map[string]string, len(ff.fields))
	for _, fi := range ff.fields {
		out[fi.spec.Key] = fi.value()
	}
	return out
}

// SetValues fills the named fields; unknown keys are ignored.
func (ff *FeatureForm) SetValues(values map[string]string) {
	for key, v := range values {
		if fi, ok := ff.byKey[key]; ok {
			fi.setValue(v)
		}
	}
}

// Reset empties every field and hides all error messages.
func (ff *FeatureForm) Reset() {
	for _, fi := range ff.fields {
		fi.setValue("")
		fi.setError("")
	}
	ff.container.ScrollToTop()
}

// ShowFieldErrors marks each failing field with its message.
func (ff *FeatureForm) ShowFieldErrors(errs models.ValidationErrors) {
	ff.ClearErrors()
	for _, ve := range errs {
		if fi, ok := ff.byKey[ve.Field]; ok {
			fi.setError(ve.Message)
		}
	}
}

func (ff *FeatureForm) ClearErrors() {
	for _, fi := range ff.fields {
		fi.setError("")
	}
}

// FieldError returns the message currently shown under a field.
func (ff *FeatureForm) FieldError(key string) string {
	if fi, ok := ff.byKey[key]; ok {
		return fi.errLabel.Text
	}
	return ""
}

// Entry exposes the text input of a numeric field, or nil.
func (ff *FeatureForm) Entry(key string) *widget.Entry {
	if fi, ok := ff.byKey[key]; ok {
		return fi.entry
	}
	return nil
}

func (ff *FeatureForm) GetContainer() fyne.CanvasObject {
	return ff.container
}
