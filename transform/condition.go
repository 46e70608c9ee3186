package transform

import (
	"fmt"

	"github.com/sprucehealth/layoutadmin/layout"
	"github.com/sprucehealth/layoutadmin/libs/errors"
	"github.com/sprucehealth/layoutadmin/saml"
)

// ValidateCondition checks that a condition carries the fields its operator
// needs. Referenced question and answer tags are not resolved.
func ValidateCondition(c *saml.Condition) error {
	return validateCondition(c, "condition")
}

func validateCondition(c *saml.Condition, path string) error {
	if c == nil {
		return missing("Condition", "op", path, nil)
	}
	if c.Op == "" {
		return missing("Condition", "op", path, c)
	}
	switch c.Op {
	case layout.ConditionAnswerEquals, layout.ConditionAnswerEqualsExact,
		layout.ConditionAnswerContainsAny, layout.ConditionAnswerContainsAll:
		if c.Question == "" {
			return missing("Question/Answer conditional", "question", path, c)
		}
		if len(c.PotentialAnswers) == 0 {
			return missing("Question/Answer conditional", "potential_answers", path, c)
		}
	case layout.ConditionGenderEquals:
		if c.Gender == "" {
			return missing("Gender conditional", "gender", path, c)
		}
	case layout.ConditionAnd, layout.ConditionOr, layout.ConditionNot:
		if len(c.Operands) == 0 {
			return missing("Logical conditional", "operands", path, c)
		}
		if c.Op == layout.ConditionNot && len(c.Operands) != 1 {
			return conflict("Logical conditional", path, "not takes exactly one operand, found %d", len(c.Operands))
		}
		for i, o := range c.Operands {
			if err := validateCondition(o, fmt.Sprintf("%s.operands[%d]", path, i)); err != nil {
				return err
			}
		}
	default:
		return errors.Trace(&UnsupportedOperatorError{Op: c.Op, Path: path})
	}
	return nil
}

// transformCondition scopes the question and answer tags a condition refers
// to. A referenced question that was registered as global keeps its tag.
func (s *Session) transformCondition(c *saml.Condition) *layout.Condition {
	if c == nil {
		return nil
	}
	global := s.global[c.Question]
	out := &layout.Condition{
		Op:     c.Op,
		Gender: c.Gender,
	}
	if c.Question != "" {
		out.Question = TransformQuestionTag(c.Question, s.pathway, global)
	}
	if len(c.PotentialAnswers) != 0 {
		out.PotentialAnswers = make([]string, len(c.PotentialAnswers))
		for i, a := range c.PotentialAnswers {
			out.PotentialAnswers[i] = TransformAnswerTag(a, s.pathway, global)
		}
	}
	for _, o := range c.Operands {
		out.Operands = append(out.Operands, s.transformCondition(o))
	}
	return out
}
