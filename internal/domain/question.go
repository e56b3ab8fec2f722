package domain

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Question types.
const (
	TypeMCQ = "mcq" // single answer, five choices
	TypeMSQ = "msq" // multi answer, five choices
	TypeTF  = "tf"  // binary, two choices
)

// Question-specific validation errors.
var (
	ErrChoiceCount    = errors.New("choice count does not match question type")
	ErrCorrectCount   = errors.New("correct-choice count does not match question type")
	ErrGradingMode    = errors.New("grading mode does not match question type")
	ErrGradingMissing = errors.New("question has no grading policy")
)

// Rich is one rich-text block. Blocks are treated opaquely; the pipeline
// only ever reads the flattened text.
type Rich = map[string]any

// Choice is one of a question's answer options.
type Choice struct {
	ID            string `json:"id"             validate:"required"`
	TextRich      []Rich `json:"text_rich"      validate:"required,min=1"`
	IsCorrect     bool   `json:"is_correct"`
	RationaleRich []Rich `json:"rationale_rich,omitempty" validate:"omitempty,min=1"`
}

// Grading is the scoring policy attached to a question.
type Grading struct {
	Mode              string `json:"mode" validate:"required,oneof=mcq msq"`
	PartialCredit     bool   `json:"partial_credit"`
	Penalty           int    `json:"penalty"`
	RequireAllCorrect bool   `json:"require_all_correct"`
}

// Question is a fully repaired, schema-valid generated item.
type Question struct {
	ID                     string   `json:"id"       validate:"required"`
	Type                   string   `json:"type"     validate:"required,oneof=mcq msq tf"`
	UnitID                 string   `json:"unit_id"  validate:"required"`
	TopicID                string   `json:"topic_id" validate:"required"`
	QuestionRich           []Rich   `json:"question_rich"            validate:"required,min=1"`
	ContextRich            []Rich   `json:"context_rich"             validate:"required,min=1"`
	Choices                []Choice `json:"choices"                  validate:"required,min=2,dive"`
	Difficulty             int      `json:"difficulty"               validate:"min=1,max=5"`
	Tags                   []string `json:"tags"                     validate:"required,min=1"`
	ConceptTags            []string `json:"concept_tags"             validate:"required,min=1"`
	ContextTags            []string `json:"context_tags"             validate:"required,min=1"`
	HintsRich              []Rich   `json:"hints_rich"               validate:"required,min=2,max=3"`
	MnemonicRich           []Rich   `json:"mnemonic_rich"            validate:"required,min=1"`
	ExplanationRich        []Rich   `json:"explanation_rich"         validate:"required,min=1"`
	ElaborationPromptsRich []Rich   `json:"elaboration_prompts_rich" validate:"required,min=1"`
	Shuffle                bool     `json:"shuffle"`
	Grading                *Grading `json:"grading"                  validate:"required"`
	ExampleRich            []Rich   `json:"example_rich"             validate:"required,min=1"`
}

// QuestionFile is the final corpus artifact.
type QuestionFile struct {
	SchemaVersion string     `json:"schema_version" validate:"required,eq=1.0"`
	Questions     []Question `json:"questions"`
}

var validate = validator.New()

// Validate checks structural tags and the per-type invariants: mcq and msq
// carry exactly five choices (one correct for mcq, two to three for msq),
// tf carries exactly two with one correct, and the grading mode must agree
// with the question type.
func (q *Question) Validate() error {
	if err := validate.Struct(q); err != nil {
		return err
	}

	correct := 0
	for _, c := range q.Choices {
		if c.IsCorrect {
			correct++
		}
	}

	switch q.Type {
	case TypeTF:
		if len(q.Choices) != 2 {
			return fmt.Errorf("%w: tf needs 2 choices, got %d", ErrChoiceCount, len(q.Choices))
		}
		if correct != 1 {
			return fmt.Errorf("%w: tf needs 1 correct, got %d", ErrCorrectCount, correct)
		}
	case TypeMCQ:
		if len(q.Choices) != 5 {
			return fmt.Errorf("%w: mcq needs 5 choices, got %d", ErrChoiceCount, len(q.Choices))
		}
		if correct != 1 {
			return fmt.Errorf("%w: mcq needs exactly 1 correct, got %d", ErrCorrectCount, correct)
		}
		if q.Grading == nil {
			return ErrGradingMissing
		}
		if q.Grading.Mode != TypeMCQ {
			return fmt.Errorf("%w: mcq grading mode is %q", ErrGradingMode, q.Grading.Mode)
		}
	case TypeMSQ:
		if len(q.Choices) != 5 {
			return fmt.Errorf("%w: msq needs 5 choices, got %d", ErrChoiceCount, len(q.Choices))
		}
		if correct < 2 || correct > 3 {
			return fmt.Errorf("%w: msq needs 2-3 correct, got %d", ErrCorrectCount, correct)
		}
		if q.Grading == nil {
			return ErrGradingMissing
		}
		if q.Grading.Mode != TypeMSQ {
			return fmt.Errorf("%w: msq grading mode is %q", ErrGradingMode, q.Grading.Mode)
		}
	}
	return nil
}
