package domain

// QuestionType represents the type of an extracted question
type QuestionType string

const (
	QuestionTypeMCQ         QuestionType = "MCQ"
	QuestionTypeMSQ         QuestionType = "MSQ"
	QuestionTypeTheoretical QuestionType = "Theoretical"
)

// IsValid reports whether the question type is one of the known variants.
func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionTypeMCQ, QuestionTypeMSQ, QuestionTypeTheoretical:
		return true
	}
	return false
}

// Question is a single question extracted from an uploaded document.
// CorrectOption holds option letters, comma-separated for MSQ (e.g. "A,B").
// Tags is a comma-separated topic list.
type Question struct {
	Content       string       `json:"content"`
	QuestionType  QuestionType `json:"question_type"`
	OptionA       string       `json:"option_A,omitempty"`
	OptionB       string       `json:"option_B,omitempty"`
	OptionC       string       `json:"option_C,omitempty"`
	OptionD       string       `json:"option_D,omitempty"`
	CorrectOption string       `json:"correct_option"`
	Marks         float64      `json:"marks"`
	Tags          string       `json:"tags"`
}

// StructuredTest is the test object produced by document extraction.
type StructuredTest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Duration    int        `json:"duration"`
	Questions   []Question `json:"questions"`
}
