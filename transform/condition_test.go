package transform

import (
	"testing"

	"github.com/sprucehealth/layoutadmin/layout"
	"github.com/sprucehealth/layoutadmin/saml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(op string) *saml.Condition {
	return &saml.Condition{Op: op, Question: "skin_type", PotentialAnswers: []string{"oily"}}
}

func TestValidateConditionAcceptsEveryOperator(t *testing.T) {
	valid := []*saml.Condition{
		leaf("answer_equals"),
		leaf("answer_equals_exact"),
		leaf("answer_contains_any"),
		leaf("answer_contains_all"),
		{Op: "gender_equals", Gender: "female"},
		{Op: "and", Operands: []*saml.Condition{leaf("answer_equals"), {Op: "gender_equals", Gender: "male"}}},
		{Op: "or", Operands: []*saml.Condition{leaf("answer_contains_any")}},
		{Op: "not", Operands: []*saml.Condition{leaf("answer_equals_exact")}},
	}
	for _, c := range valid {
		assert.NoError(t, ValidateCondition(c), c.String())
	}
}

func TestValidateConditionRejectsMissingFields(t *testing.T) {
	cases := map[string]struct {
		cond  *saml.Condition
		field string
	}{
		"op":                {&saml.Condition{}, "op"},
		"question":          {&saml.Condition{Op: "answer_equals", PotentialAnswers: []string{"a"}}, "question"},
		"potential answers": {&saml.Condition{Op: "answer_contains_all", Question: "q"}, "potential_answers"},
		"gender":            {&saml.Condition{Op: "gender_equals"}, "gender"},
		"and operands":      {&saml.Condition{Op: "and"}, "operands"},
		"or operands":       {&saml.Condition{Op: "or"}, "operands"},
		"not operands":      {&saml.Condition{Op: "not"}, "operands"},
		"nested":            {&saml.Condition{Op: "or", Operands: []*saml.Condition{{Op: "gender_equals"}}}, "gender"},
	}
	for name, c := range cases {
		err := ValidateCondition(c.cond)
		var se *StructuralError
		require.ErrorAs(t, err, &se, name)
		assert.Equal(t, c.field, se.Field, name)
	}
}

func TestValidateConditionOperators(t *testing.T) {
	err := ValidateCondition(&saml.Condition{Op: "answer_greater_than"})
	var ue *UnsupportedOperatorError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "answer_greater_than", ue.Op)

	err = ValidateCondition(&saml.Condition{Op: "not", Operands: []*saml.Condition{leaf("answer_equals"), leaf("answer_equals")}})
	var te *TypeConflictError
	assert.ErrorAs(t, err, &te)

	err = ValidateCondition(&saml.Condition{Op: "and", Operands: []*saml.Condition{{Op: "xor"}}})
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "condition.operands[0]", ue.Path)
}

func TestTransformConditionScopesTags(t *testing.T) {
	s := newTestSession(t, Options{})
	s.global["q_allergies"] = true

	c := s.transformCondition(&saml.Condition{
		Op: "and",
		Operands: []*saml.Condition{
			{Op: "answer_contains_any", Question: "skin_type", PotentialAnswers: []string{"oily", "a_health_condition_acne_dry"}},
			{Op: "answer_equals", Question: "q_allergies", PotentialAnswers: []string{"a_allergies_yes"}},
			{Op: "gender_equals", Gender: "female"},
		},
	})
	assert.Equal(t, &layout.Condition{
		Op: "and",
		Operands: []*layout.Condition{
			{Op: "answer_contains_any", Question: "q_health_condition_acne_skin_type", PotentialAnswers: []string{"a_health_condition_acne_oily", "a_health_condition_acne_dry"}},
			{Op: "answer_equals", Question: "q_allergies", PotentialAnswers: []string{"a_allergies_yes"}},
			{Op: "gender_equals", Gender: "female"},
		},
	}, c)
}
