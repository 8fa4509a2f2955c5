package domain

// ScoreRequest is one free-text answer to grade.
type ScoreRequest struct {
	QuestionID string  `json:"question_id"`
	Question   string  `json:"question"`
	Expected   string  `json:"expected"`
	Given      string  `json:"given"`
	MaxMarks   float64 `json:"max_marks"`
}

// ScoreResult is the graded outcome for one request.
// Invariant: 0 <= MarksAwarded <= MaxMarks.
type ScoreResult struct {
	QuestionID   string  `json:"question_id"`
	MarksAwarded int     `json:"marks_awarded"`
	MaxMarks     float64 `json:"max_marks"`
	Given        string  `json:"given"`
}
