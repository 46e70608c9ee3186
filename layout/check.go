package layout

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorList collects the problems found in a layout.
type ErrorList []string

func (e ErrorList) Error() string {
	return "layout.check: " + strings.Join([]string(e), ", ")
}

// Check reports structural problems in a normalized intake such as sections
// without screens, answers on free form questions or malformed conditions. Questions without Details are only checked for a tag.
func Check(in *Intake) error {
	var errs ErrorList
	if len(in.Sections) == 0 {
		errs = append(errs, "layout contains no sections")
	}
	if in.HealthCondition == "" {
		errs = append(errs, "health condition not set")
	}
	for secIdx, sec := range in.Sections {
		secPath := fmt.Sprintf("section[%d]", secIdx)
		if sec.Section == "" {
			errs = append(errs, fmt.Sprintf("%s missing 'section'", secPath))
		}
		if len(sec.Screens) == 0 {
			errs = append(errs, fmt.Sprintf("%s has no screens", secPath))
		}
		for scrIdx, scr := range sec.Screens {
			errs = checkScreen(scr, fmt.Sprintf("%s.screen[%d]", secPath, scrIdx), errs)
		}
	}
	if len(errs) != 0 {
		return errs
	}
	return nil
}

func checkScreen(scr *Screen, path string, errs ErrorList) ErrorList {
	if len(scr.Questions) == 0 && scr.Type == "" {
		errs = append(errs, fmt.Sprintf("%s has no questions and no screen type", path))
	}
	errs = checkCondition(scr.Condition, path, errs)
	for i, q := range scr.Questions {
		errs = checkQuestion(q, fmt.Sprintf("%s.question[%d]", path, i), errs)
	}
	return errs
}

func checkQuestion(q *Question, path string, errs ErrorList) ErrorList {
	if q.Tag == "" {
		errs = append(errs, fmt.Sprintf("%s missing 'question'", path))
	}
	if d := q.Details; d != nil {
		switch d.Type {
		case QuestionTypeMultipleChoice, QuestionTypeSingleSelect, QuestionTypeSegmentedControl:
			if len(d.VersionedAnswers) == 0 {
				errs = append(errs, fmt.Sprintf("%s missing potential answers", path))
			}
		case QuestionTypePhotoSection:
			if len(d.VersionedPhotoSlots) == 0 {
				errs = append(errs, fmt.Sprintf("%s missing photo slots", path))
			}
		case QuestionTypeFreeText, QuestionTypeAutoComplete:
			if len(d.VersionedAnswers) != 0 {
				errs = append(errs, fmt.Sprintf("%s should not have potential answers", path))
			}
		}
	}
	errs = checkCondition(q.Condition, path, errs)
	if c := q.SubquestionsConfig; c != nil {
		for i, sq := range c.Questions {
			errs = checkQuestion(sq, fmt.Sprintf("%s.subquestion[%d]", path, i), errs)
		}
		for i, scr := range c.Screens {
			errs = checkScreen(scr, fmt.Sprintf("%s.subscreen[%d]", path, i), errs)
		}
	}
	return errs
}

func checkCondition(c *Condition, path string, errs ErrorList) ErrorList {
	if c == nil {
		return errs
	}
	switch c.Op {
	case "":
		errs = append(errs, fmt.Sprintf("%s missing op in condition", path))
	case ConditionAnswerEquals, ConditionAnswerEqualsExact, ConditionAnswerContainsAny, ConditionAnswerContainsAll:
		if c.Question == "" {
			errs = append(errs, fmt.Sprintf("%s missing question for '%s' condition", path, c.Op))
		}
		if len(c.PotentialAnswers) == 0 {
			errs = append(errs, fmt.Sprintf("%s missing potential answers for '%s' condition", path, c.Op))
		}
	case ConditionGenderEquals:
		if c.Gender == "" {
			errs = append(errs, fmt.Sprintf("%s missing gender for '%s' condition", path, c.Op))
		}
	case ConditionAnd, ConditionOr, ConditionNot:
		for _, o := range c.Operands {
			errs = checkCondition(o, path, errs)
		}
	default:
		errs = append(errs, fmt.Sprintf("%s unknown condition op '%s'", path, c.Op))
	}
	return errs
}

// questionMap finds every string value that starts with "q_" and names a
// review data key ("<question>:<field>").
func questionMap(in interface{}, out map[string]bool) {
	switch v := in.(type) {
	case string:
		if strings.HasPrefix(v, "q_") {
			if idx := strings.IndexByte(v, ':'); idx > 0 {
				out[v[:idx]] = true
			}
		}
	case []interface{}:
		for _, v2 := range v {
			questionMap(v2, out)
		}
	case map[string]interface{}:
		for _, v2 := range v {
			questionMap(v2, out)
		}
	}
}

// CompareReview lists the questions that appear in only one of an intake
// and its review. review is the decoded JSON of the review layout. Photo
// questions are ignored, as are intake questions that are only referenced
// by conditions.
func CompareReview(in *Intake, review interface{}) (intakeOnly, reviewOnly []string) {
	intakeQuestions := map[string]bool{}
	conditionQuestions := map[string]bool{}
	for _, sec := range in.Sections {
		for _, scr := range sec.Screens {
			if scr.IsPhoto() {
				continue
			}
			for _, q := range scr.Questions {
				intakeQuestions[q.Tag] = true
				collectConditionQuestions(q.Condition, conditionQuestions)
			}
			collectConditionQuestions(scr.Condition, conditionQuestions)
		}
	}

	reviewQuestions := map[string]bool{}
	questionMap(review, reviewQuestions)

	for q := range intakeQuestions {
		if !reviewQuestions[q] && !conditionQuestions[q] {
			intakeOnly = append(intakeOnly, q)
		}
		delete(reviewQuestions, q)
	}
	for q := range reviewQuestions {
		reviewOnly = append(reviewOnly, q)
	}
	sort.Strings(intakeOnly)
	sort.Strings(reviewOnly)
	return intakeOnly, reviewOnly
}

func collectConditionQuestions(c *Condition, out map[string]bool) {
	if c == nil {
		return
	}
	if c.Question != "" {
		out[c.Question] = true
	}
	for _, o := range c.Operands {
		collectConditionQuestions(o, out)
	}
}
