package screening

import (
	"hirepath/internal/common"
)

type QuestionType string

const (
	TypeBoolean QuestionType = "boolean"
	TypeNumeric QuestionType = "numeric"
)

type Rule string

const (
	RuleEqualsYes Rule = "equals_yes"
	RuleEqualsNo  Rule = "equals_no"
	RuleMinimum   Rule = "minimum"
	RuleMaximum   Rule = "maximum"
	RuleExact     Rule = "exact"
)

// Question is a mandatory knockout question attached to a vacancy. A failed
// or missing answer disqualifies the candidate at intake.
type Question struct {
	ID             common.UUID  `json:"id"`
	VacancyID      common.UUID  `json:"vacancy_id"`
	Text           string       `json:"text"`
	Type           QuestionType `json:"type"`
	Rule           Rule         `json:"rule"`
	ReferenceValue float64      `json:"reference_value"`
}

type Answer struct {
	BoolValue    bool    `json:"bool_value"`
	NumericValue float64 `json:"numeric_value"`
}

type Result struct {
	Pass              bool          `json:"pass"`
	FailedQuestionIDs []common.UUID `json:"failed_question_ids,omitempty"`
}

// Evaluate applies every question's rule to its answer. Questions are all
// mandatory: an answer missing from the map fails its question. An empty
// question set passes.
func Evaluate(questions []Question, answers map[common.UUID]Answer) Result {
	result := Result{Pass: true}
	for _, question := range questions {
		answer, ok := answers[question.ID]
		if !ok || !passes(question, answer) {
			result.Pass = false
			result.FailedQuestionIDs = append(result.FailedQuestionIDs, question.ID)
		}
	}
	return result
}

func passes(question Question, answer Answer) bool {
	switch question.Type {
	case TypeBoolean:
		switch question.Rule {
		case RuleEqualsYes:
			return answer.BoolValue
		case RuleEqualsNo:
			return !answer.BoolValue
		}
	case TypeNumeric:
		switch question.Rule {
		case RuleMinimum:
			return answer.NumericValue >= question.ReferenceValue
		case RuleMaximum:
			return answer.NumericValue <= question.ReferenceValue
		case RuleExact:
			return answer.NumericValue == question.ReferenceValue
		}
	}
	return false
}
