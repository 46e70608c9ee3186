package layout

const (
	// QuestionTypes
	QuestionTypeSingleSelect     = "q_type_single_select"
	QuestionTypeSegmentedControl = "q_type_segmented_control"
	QuestionTypeMultipleChoice   = "q_type_multiple_choice"
	QuestionTypeFreeText         = "q_type_free_text"
	QuestionTypeAutoComplete     = "q_type_autocomplete"
	QuestionTypePhotoSection     = "q_type_photo_section"

	// AnswerTypes
	AnswerTypeMultipleChoice   = "a_type_multiple_choice"
	AnswerTypeSegmentedControl = "a_type_segmented_control"

	// ScreenTypes
	ScreenTypePhoto        = "screen_type_photo"
	ScreenTypePharmacy     = "screen_type_pharmacy"
	ScreenTypeTriage       = "screen_type_triage"
	ScreenTypeWarningPopup = "screen_type_warning_popup"

	PhotoSlotTypeStandard = "photo_slot_standard"

	// Condition operators
	ConditionAnswerEquals      = "answer_equals"
	ConditionAnswerEqualsExact = "answer_equals_exact"
	ConditionAnswerContainsAny = "answer_contains_any"
	ConditionAnswerContainsAll = "answer_contains_all"
	ConditionGenderEquals      = "gender_equals"
	ConditionAnd               = "and"
	ConditionOr                = "or"
	ConditionNot               = "not"

	LanguageIDEnglish = "1"
	StatusActive      = "ACTIVE"
)

// DefaultAnswerType returns the answer type implied by a question type for
// answers that do not declare one.
func DefaultAnswerType(questionType string) (string, bool) {
	switch questionType {
	case QuestionTypeMultipleChoice, QuestionTypeSingleSelect:
		return AnswerTypeMultipleChoice, true
	case QuestionTypeSegmentedControl:
		return AnswerTypeSegmentedControl, true
	}
	return "", false
}
