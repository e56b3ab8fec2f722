package domain

import "github.com/go-playground/validator/v10"

// Allowed accent colors for slide subheadings.
const DefaultColor = "blue.600"

var allowedColors = map[string]struct{}{
	"blue.600":   {},
	"green.600":  {},
	"amber.600":  {},
	"red.600":    {},
	"purple.600": {},
}

// EnsureColor returns c when it is an allowed accent color, else the default.
func EnsureColor(c string) string {
	if _, ok := allowedColors[c]; ok {
		return c
	}
	return DefaultColor
}

// Subsection is a nested group of bullets inside a narrative section.
type Subsection struct {
	Title   string   `json:"title" validate:"required"`
	Bullets []string `json:"bullets"`
}

// NarrativeSection is one prose-style section of the study summary.
type NarrativeSection struct {
	Title       string       `json:"title" validate:"required"`
	Bullets     []string     `json:"bullets"`
	Subsections []Subsection `json:"subsections" validate:"dive"`
}

// Subheading is one labeled bullet group on a slide.
type Subheading struct {
	Heading string   `json:"heading" validate:"required"`
	Color   string   `json:"color"   validate:"required,oneof=blue.600 green.600 amber.600 red.600 purple.600"`
	Content []string `json:"content"`
}

// Slide is one card of the slide deck view.
type Slide struct {
	Title       string       `json:"title" validate:"required"`
	Subtitle    *string      `json:"subtitle"`
	Subheadings []Subheading `json:"subheadings" validate:"required,min=1,dive"`
}

// StudySummary is the study-companion artifact: a narrative outline plus a
// slide deck, both derived from the same source.
type StudySummary struct {
	SchemaVersion     string             `json:"schema_version" validate:"required,eq=1.0"`
	NarrativeSections []NarrativeSection `json:"narrativeSections" validate:"dive"`
	Slides            []Slide            `json:"slides" validate:"dive"`
}

var summaryValidate = validator.New()

// Validate checks the summary against its structural schema.
func (s *StudySummary) Validate() error {
	return summaryValidate.Struct(s)
}
