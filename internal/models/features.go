package models

import (
	"fmt"
	"strconv"
	"strings"
)

// FeatureKind distinguishes continuous measurements from yes/no flags.
type FeatureKind int

const (
	Numeric FeatureKind = iota
	Binary
)

// Widget is the input control a feature is rendered with.
type Widget int

const (
	Entry Widget = iota
	Radio
	Dropdown
)

// ParameterRange defines the accepted interval for a numeric feature.
type ParameterRange struct {
	Min     float64
	Max     float64
	Step    float64
	Integer bool
}

// Option is one labelled value of a binary feature.
type Option struct {
	Label string
	Value float64
}

// FeatureSpec describes one clinical input: its dataset column, how it is
// presented and what values it accepts.
type FeatureSpec struct {
	Key     string
	Label   string
	Kind    FeatureKind
	Widget  Widget
	Range   ParameterRange
	Options []Option
	Unit    string
	Help    string
}

// OptionLabels returns the labels of a binary feature in display order.
func (fs FeatureSpec) OptionLabels() []string {
	labels := make([]string, len(fs.Options))
	for i, opt := range fs.Options {
		labels[i] = opt.Label
	}
	return labels
}

// LabelFor maps a stored value back to its option label.
func (fs FeatureSpec) LabelFor(v float64) (string, bool) {
	for _, opt := range fs.Options {
		if opt.Value == v {
			return opt.Label, true
		}
	}
	return "", false
}

// Placeholder is the hint shown in an empty entry.
func (fs FeatureSpec) Placeholder() string {
	if fs.Kind == Binary {
		return strings.Join(fs.OptionLabels(), " / ")
	}
	return fmt.Sprintf("%s to %s", formatNumber(fs.Range.Min), formatNumber(fs.Range.Max))
}

var yesNo = []Option{{Label: "No", Value: 0}, {Label: "Yes", Value: 1}}

var featureSchema = []FeatureSpec{
	{Key: "Age", Label: "Age", Kind: Numeric, Widget: Entry,
		Range: ParameterRange{Min: 60, Max: 90, Step: 1, Integer: true}, Unit: "years"},
	{Key: "Gender", Label: "Gender", Kind: Binary, Widget: Radio,
		Options: []Option{{Label: "Male", Value: 0}, {Label: "Female", Value: 1}}},
	{Key: "BMI", Label: "BMI", Kind: Numeric, Widget: Entry,
		Range: ParameterRange{Min: 15, Max: 40, Step: 0.1}, Unit: "kg/m²"},
	{Key: "AlcoholConsumption", Label: "Alcohol consumption", Kind: Numeric, Widget: Entry,
		Range: ParameterRange{Min: 0, Max: 20, Step: 0.1}, Unit: "units/week"},
	{Key: "DietQuality", Label: "Diet quality", Kind: Numeric, Widget: Entry,
		Range: ParameterRange{Min: 0, Max: 10, Step: 0.1}, Help: "0 = poor, 10 = excellent"},
	{Key: "FamilyHistoryAlzheimers", Label: "Family history of Alzheimer's", Kind: Binary, Widget: Dropdown,
		Options: yesNo},
	{Key: "HeadInjury", Label: "Head injury", Kind: Binary, Widget: Dropdown, Options: yesNo},
	{Key: "CholesterolTotal", Label: "Total cholesterol", Kind: Numeric, Widget: Entry,
		Range: ParameterRange{Min: 150, Max: 300, Step: 0.1}, Unit: "mg/dL"},
	{Key: "MMSE", Label: "MMSE score", Kind: Numeric, Widget: Entry,
		Range: ParameterRange{Min: 0, Max: 30, Step: 0.1}, Help: "Mini-Mental State Examination; lower is worse"},
	{Key: "MemoryComplaints", Label: "Memory complaints", Kind: Binary, Widget: Radio, Options: yesNo},
	{Key: "BehavioralProblems", Label: "Behavioral problems", Kind: Binary, Widget: Radio, Options: yesNo},
	{Key: "ADL", Label: "Activities of daily living", Kind: Numeric, Widget: Entry,
		Range: ParameterRange{Min: 0, Max: 10, Step: 0.1}, Help: "0 = fully impaired, 10 = independent"},
	{Key: "Confusion", Label: "Confusion", Kind: Binary, Widget: Dropdown, Options: yesNo},
	{Key: "Forgetfulness", Label: "Forgetfulness", Kind: Binary, Widget: Dropdown, Options: yesNo},
}

// FeatureCount is the length of every FeatureVector.
const FeatureCount = 14

// FeatureSchema returns a copy of the form's features in input order.
func FeatureSchema() []FeatureSpec {
	out := make([]FeatureSpec, len(featureSchema))
	copy(out, featureSchema)
	return out
}

// FeatureKeys returns the dataset columns the classifier is trained on.
func FeatureKeys() []string {
	keys := make([]string, len(featureSchema))
	for i, fs := range featureSchema {
		keys[i] = fs.Key
	}
	return keys
}

// lookupFeature finds a feature by key, case-insensitively.
func lookupFeature(key string) (FeatureSpec, bool) {
	for _, fs := range featureSchema {
		if strings.EqualFold(fs.Key, key) {
			return fs, true
		}
	}
	return FeatureSpec{}, false
}

// FeatureVector is one patient's inputs in FeatureSchema order.
type FeatureVector []float64

// Map keys the vector by feature name.
func (v FeatureVector) Map() map[string]float64 {
	out := make(map[string]float64, len(v))
	for i, fs := range featureSchema {
		if i < len(v) {
			out[fs.Key] = v[i]
		}
	}
	return out
}

// Raw renders the vector back into the strings a form would hold.
func (v FeatureVector) Raw() map[string]string {
	out := make(map[string]string, len(v))
	for i, fs := range featureSchema {
		if i >= len(v) {
			break
		}
		if label, ok := fs.LabelFor(v[i]); ok {
			out[fs.Key] = label
			continue
		}
		out[fs.Key] = formatNumber(v[i])
	}
	return out
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
