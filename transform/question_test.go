package transform

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sprucehealth/layoutadmin/layout"
	"github.com/sprucehealth/layoutadmin/libs/errors"
	"github.com/sprucehealth/layoutadmin/libs/ptr"
	"github.com/sprucehealth/layoutadmin/saml"
	"github.com/sprucehealth/layoutadmin/transform/transformmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformQuestionDefaults(t *testing.T) {
	s := newTestSession(t, Options{})
	q, err := s.TransformQuestion(context.Background(), &saml.Question{
		Details: &saml.QuestionDetails{
			Text: "How would you describe your <skin_type> skin?",
			Type: layout.QuestionTypeSingleSelect,
			Answers: []*saml.Answer{
				{Text: "Oily"},
				{Text: "Dry", Tag: "dry_skin", Summary: "Dry skin"},
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "q_health_condition_acne_how_would_you_describe_your_skin_type_skin", q.Tag)
	assert.EqualValues(t, 0, q.Version)
	d := q.Details
	assert.True(t, d.Required)
	assert.True(t, d.TextHasTokens)
	assert.Equal(t, d.Text, d.SummaryText)
	assert.Equal(t, layout.LanguageIDEnglish, d.LanguageID)
	require.NotNil(t, d.VersionedAdditionalQuestionFields)
	assert.Empty(t, d.VersionedAdditionalQuestionFields.AnswerGroups)
	assert.Empty(t, d.VersionedPhotoSlots)

	require.Len(t, d.VersionedAnswers, 2)
	assert.Equal(t, &layout.VersionedAnswer{
		Tag:         "a_health_condition_acne_oily",
		Type:        layout.AnswerTypeMultipleChoice,
		Text:        "Oily",
		SummaryText: "Oily",
		LanguageID:  "1",
		Ordering:    0,
		Status:      "ACTIVE",
	}, d.VersionedAnswers[0])
	assert.Equal(t, "a_health_condition_acne_dry_skin", d.VersionedAnswers[1].Tag)
	assert.Equal(t, "Dry skin", d.VersionedAnswers[1].SummaryText)
	assert.EqualValues(t, 1, d.VersionedAnswers[1].Ordering)

	// staged until commit
	assert.Equal(t, 1, s.Pending())
}

func TestTransformQuestionRequiredFields(t *testing.T) {
	s := newTestSession(t, Options{})
	cases := map[string]struct {
		q     *saml.Question
		field string
	}{
		"details": {&saml.Question{}, "details"},
		"text":    {&saml.Question{Details: &saml.QuestionDetails{Type: layout.QuestionTypeFreeText}}, "text"},
		"type":    {&saml.Question{Details: &saml.QuestionDetails{Text: "Age"}}, "type"},
		"answer type": {&saml.Question{Details: &saml.QuestionDetails{
			Text: "Medications", Type: layout.QuestionTypeAutoComplete,
			Answers: []*saml.Answer{{Text: "None"}},
		}}, "type"},
		"photo slots": {&saml.Question{Details: &saml.QuestionDetails{Text: "Face", Type: layout.QuestionTypePhotoSection}}, "photo_slots"},
		"slot name": {&saml.Question{Details: &saml.QuestionDetails{
			Text: "Face", Type: layout.QuestionTypePhotoSection,
			PhotoSlots: []*saml.PhotoSlot{{Type: layout.PhotoSlotTypeStandard}},
		}}, "name"},
	}
	for name, c := range cases {
		_, err := s.TransformQuestion(context.Background(), c.q)
		var se *StructuralError
		require.ErrorAs(t, err, &se, name)
		assert.Equal(t, c.field, se.Field, name)
	}
}

func TestPhotoQuestionWithAnswersIsRejected(t *testing.T) {
	s := newTestSession(t, Options{})
	_, err := s.TransformQuestion(context.Background(), &saml.Question{
		Details: &saml.QuestionDetails{
			Text:       "Face",
			Type:       layout.QuestionTypePhotoSection,
			PhotoSlots: []*saml.PhotoSlot{{Name: "Front"}},
			Answers:    []*saml.Answer{{Text: "Yes", Type: "a_type_multiple_choice"}},
		},
	})
	var te *TypeConflictError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, te.Reason, "photo_slots")
	assert.Zero(t, s.Pending())
}

func TestAnswerGroupsAreFlattened(t *testing.T) {
	s := newTestSession(t, Options{})
	q, err := s.TransformQuestion(context.Background(), &saml.Question{
		Details: &saml.QuestionDetails{
			Text: "Which products have you tried?",
			Type: layout.QuestionTypeMultipleChoice,
			AdditionalFields: &saml.QuestionAdditionalFields{
				EmptyStateText: "None tried",
			},
			AnswerGroups: []*saml.AnswerGroup{
				{Title: "Creams", Answers: []*saml.Answer{{Text: "Retinol"}, {Text: "Benzoyl peroxide"}}},
				{Title: "Pills", Answers: []*saml.Answer{{Text: "Doxycycline"}}},
			},
		},
	})
	require.NoError(t, err)
	d := q.Details
	require.Len(t, d.VersionedAnswers, 3)
	assert.Equal(t, "a_health_condition_acne_doxycycline", d.VersionedAnswers[2].Tag)
	assert.EqualValues(t, 2, d.VersionedAnswers[2].Ordering)
	assert.Equal(t, "None tried", d.VersionedAdditionalQuestionFields.EmptyStateText)
	assert.Equal(t, []*layout.AnswerGroupSummary{{Title: "Creams", Count: 2}, {Title: "Pills", Count: 1}},
		d.VersionedAdditionalQuestionFields.AnswerGroups)

	_, err = s.TransformQuestion(context.Background(), &saml.Question{
		Details: &saml.QuestionDetails{
			Text:         "Both",
			Type:         layout.QuestionTypeMultipleChoice,
			Answers:      []*saml.Answer{{Text: "A"}},
			AnswerGroups: []*saml.AnswerGroup{{Title: "B", Answers: []*saml.Answer{{Text: "C"}}}},
		},
	})
	var te *TypeConflictError
	assert.ErrorAs(t, err, &te)
}

func TestPhotoSlotDefaults(t *testing.T) {
	s := newTestSession(t, Options{})
	q, err := s.TransformQuestion(context.Background(), &saml.Question{
		Details: &saml.QuestionDetails{
			Text: "Face",
			Type: layout.QuestionTypePhotoSection,
			PhotoSlots: []*saml.PhotoSlot{
				{Name: "Front", Type: layout.PhotoSlotTypeStandard},
				{Name: "Left"},
				{Name: "Right", Required: ptr.Bool(false), ClientData: &saml.PhotoSlotClientData{Flash: saml.FlashOn}},
			},
		},
	})
	require.NoError(t, err)
	slots := q.Details.VersionedPhotoSlots
	require.Len(t, slots, 3)
	assert.False(t, slots[0].Required)
	assert.True(t, slots[1].Required)
	assert.False(t, slots[2].Required)
	assert.Equal(t, &saml.PhotoSlotClientData{}, slots[1].ClientData)
	assert.Equal(t, saml.FlashOn, slots[2].ClientData.Flash)
	assert.EqualValues(t, 2, slots[2].Ordering)
	assert.Equal(t, layout.StatusActive, slots[2].Status)
}

func TestGlobalQuestionsAndConditions(t *testing.T) {
	s := newTestSession(t, Options{})
	ctx := context.Background()
	q, err := s.TransformQuestion(ctx, &saml.Question{
		Details: &saml.QuestionDetails{
			Tag:     "q_allergic_medications",
			Text:    "Are you allergic to any medications?",
			Type:    layout.QuestionTypeSegmentedControl,
			Global:  ptr.Bool(true),
			Answers: []*saml.Answer{{Tag: "a_allergic_yes", Text: "Yes"}, {Text: "No"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "q_allergic_medications", q.Tag)
	assert.True(t, q.Details.Global)
	assert.Equal(t, "a_allergic_yes", q.Details.VersionedAnswers[0].Tag)
	assert.Equal(t, "no", q.Details.VersionedAnswers[1].Tag)
	assert.Equal(t, layout.AnswerTypeSegmentedControl, q.Details.VersionedAnswers[1].Type)

	dep, err := s.TransformQuestion(ctx, &saml.Question{
		Condition: &saml.Condition{Op: "answer_equals", Question: "q_allergic_medications", PotentialAnswers: []string{"a_allergic_yes"}},
		Details:   &saml.QuestionDetails{Text: "Which ones?", Type: layout.QuestionTypeFreeText},
	})
	require.NoError(t, err)
	assert.Equal(t, "q_allergic_medications", dep.Condition.Question)
	assert.Equal(t, []string{"a_allergic_yes"}, dep.Condition.PotentialAnswers)

	_, err = s.TransformQuestion(ctx, &saml.Question{
		Condition: &saml.Condition{Op: "answer_equals", Question: "q_allergic_medications"},
		Details:   &saml.QuestionDetails{Text: "Broken", Type: layout.QuestionTypeFreeText},
	})
	var se *StructuralError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "question.condition", se.Path)
}

func TestUntypedAnswerNeedsDefaultType(t *testing.T) {
	s := newTestSession(t, Options{})
	_, err := s.TransformQuestion(context.Background(), &saml.Question{Details: &saml.QuestionDetails{
		Text: "Medications", Type: layout.QuestionTypeFreeText,
		Answers: []*saml.Answer{{Text: "None"}},
	}})
	var se *StructuralError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "type", se.Field)
	assert.Equal(t, "question.details.answers[0]", se.Path)
	assert.Contains(t, err.Error(), "unknown question type q_type_free_text for untyped answer at question.details.answers[0]")
	assert.Contains(t, se.Dump, "text: None")
}

func TestSubquestionsAreVersionedAfterParent(t *testing.T) {
	v := &fakeVersioner{}
	s := newTestSession(t, Options{Mode: Immediate, Versioner: v})
	q, err := s.TransformQuestion(context.Background(), &saml.Question{
		Details: &saml.QuestionDetails{Text: "Medications", Type: layout.QuestionTypeAutoComplete},
		SubquestionConfig: &saml.QuestionSubquestionConfig{
			Questions: []*saml.Question{
				{Details: &saml.QuestionDetails{Text: "How long?", Type: layout.QuestionTypeFreeText}},
			},
			Screens: []*saml.Screen{{
				HeaderTitle: "About <parent_answer_text>",
				Questions: []*saml.Question{
					{Details: &saml.QuestionDetails{Text: "Did it help?", Type: layout.QuestionTypeSegmentedControl,
						Answers: []*saml.Answer{{Text: "Yes"}, {Text: "No"}}}},
				},
			}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"q_health_condition_acne_medications",
		"q_health_condition_acne_did_it_help",
		"q_health_condition_acne_how_long",
	}, v.tags())
	assert.EqualValues(t, 1, q.Version)
	require.Len(t, q.SubquestionsConfig.Screens, 1)
	assert.True(t, *q.SubquestionsConfig.Screens[0].HeaderTitleHasTokens)
	assert.EqualValues(t, 3, q.SubquestionsConfig.Questions[0].Version)
}

func TestImmediateModeWithMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	mv := transformmock.NewMockVersioner(ctrl)

	gomock.InOrder(
		mv.EXPECT().SubmitQuestion(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, q *layout.VersionedQuestion) (*layout.TagVersion, error) {
				assert.Equal(t, "q_health_condition_acne_age", q.Tag)
				return &layout.TagVersion{Tag: q.Tag, Version: 7}, nil
			}),
		mv.EXPECT().SubmitQuestion(gomock.Any(), gomock.Any()).Return(nil, errors.New("service unavailable")),
	)

	s := newTestSession(t, Options{Mode: Immediate, Versioner: mv})
	q, err := s.TransformQuestion(context.Background(), &saml.Question{
		Details: &saml.QuestionDetails{Tag: "age", Text: "Age", Type: layout.QuestionTypeFreeText},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 7, q.Version)

	_, err = s.TransformQuestion(context.Background(), &saml.Question{
		Details: &saml.QuestionDetails{Text: "Weight", Type: layout.QuestionTypeFreeText},
	})
	var sub *SubmissionError
	require.ErrorAs(t, err, &sub)
	assert.Equal(t, "q_health_condition_acne_weight", sub.Tag)
	assert.Equal(t, []string{"q_health_condition_acne_age"}, sub.Versioned)
	assert.Contains(t, err.Error(), "Intake Submission Error: ")
	assert.Contains(t, err.Error(), "service unavailable")
}
