package transform

import (
	"context"
	"fmt"

	"github.com/sprucehealth/layoutadmin/layout"
	"github.com/sprucehealth/layoutadmin/libs/errors"
	"github.com/sprucehealth/layoutadmin/libs/ptr"
	"github.com/sprucehealth/layoutadmin/saml"
)

// TransformQuestion normalizes a question and hands it to the versioner.
func (s *Session) TransformQuestion(ctx context.Context, q *saml.Question) (*layout.Question, error) {
	return s.transformQuestion(ctx, q, "question")
}

func (s *Session) transformQuestion(ctx context.Context, q *saml.Question, path string) (*layout.Question, error) {
	if q == nil || q.Details == nil {
		return nil, missing("Question", "details", path, q)
	}
	d := q.Details
	if d.Text == "" {
		return nil, missing("Question.Details", "text", path+".details", d)
	}
	if d.Type == "" {
		return nil, missing("Question.Details", "type", path+".details", d)
	}

	out := &layout.Question{ToPrefill: d.ToPrefill}
	if q.Condition != nil {
		if err := validateCondition(q.Condition, path+".condition"); err != nil {
			return nil, err
		}
		out.Condition = s.transformCondition(q.Condition)
	}

	global := d.IsGlobal()
	tag := d.Tag
	if tag == "" {
		tag = s.tags.fromText(d.Text)
	}
	tag = TransformQuestionTag(tag, s.pathway, global)
	if global {
		s.global[tag] = true
	}

	vq := &layout.VersionedQuestion{
		Tag:           tag,
		LanguageID:    layout.LanguageIDEnglish,
		Type:          d.Type,
		Text:          d.Text,
		TextHasTokens: tokenPattern.MatchString(d.Text),
		Subtext:       d.Subtext,
		SummaryText:   d.Summary,
		AlertText:     d.AlertText,
		ToAlert:       ptr.BoolValue(d.ToAlert, false),
		ToPrefill:     ptr.BoolValue(d.ToPrefill, false),
		Global:        global,
		Required:      ptr.BoolValue(d.Required, true),
	}
	if vq.SummaryText == "" {
		vq.SummaryText = d.Text
	}

	if len(d.Answers) != 0 && len(d.AnswerGroups) != 0 {
		return nil, conflict("Question", path, "answers and answer_groups cannot both be set")
	}
	if d.Type == layout.QuestionTypePhotoSection {
		if len(d.PhotoSlots) == 0 {
			return nil, missing("Question", "photo_slots", path+".details", d)
		}
		if len(d.Answers) != 0 || len(d.AnswerGroups) != 0 {
			return nil, conflict("Question", path, "questions of type %s may not contain answers, only photo_slots", layout.QuestionTypePhotoSection)
		}
	}

	answers, fields := flattenAnswerGroups(d)
	vq.VersionedAdditionalQuestionFields = fields
	vq.VersionedAnswers = make([]*layout.VersionedAnswer, 0, len(answers))
	for i, a := range answers {
		va, err := s.transformAnswer(a, d, i, fmt.Sprintf("%s.details.answers[%d]", path, i))
		if err != nil {
			return nil, err
		}
		vq.VersionedAnswers = append(vq.VersionedAnswers, va)
	}

	vq.VersionedPhotoSlots = make([]*layout.VersionedPhotoSlot, 0, len(d.PhotoSlots))
	for i, ps := range d.PhotoSlots {
		vps, err := transformPhotoSlot(ps, i, fmt.Sprintf("%s.details.photo_slots[%d]", path, i))
		if err != nil {
			return nil, err
		}
		vq.VersionedPhotoSlots = append(vq.VersionedPhotoSlots, vps)
	}

	out.Tag = tag
	out.Details = vq
	if err := s.submit(ctx, out); err != nil {
		return nil, err
	}

	if sc := q.SubquestionConfig; sc != nil {
		out.SubquestionsConfig = &layout.SubquestionsConfig{}
		for i, scr := range sc.Screens {
			ls, err := s.transformScreen(ctx, scr, fmt.Sprintf("%s.subquestions_config.screens[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out.SubquestionsConfig.Screens = append(out.SubquestionsConfig.Screens, ls)
		}
		for i, sq := range sc.Questions {
			lq, err := s.transformQuestion(ctx, sq, fmt.Sprintf("%s.subquestions_config.questions[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out.SubquestionsConfig.Questions = append(out.SubquestionsConfig.Questions, lq)
		}
	}
	return out, nil
}

// flattenAnswerGroups returns the answers of a question in order and the
// additional fields with a title and count for every answer group.
func flattenAnswerGroups(d *saml.QuestionDetails) ([]*saml.Answer, *layout.AdditionalQuestionFields) {
	fields := &layout.AdditionalQuestionFields{}
	if d.AdditionalFields != nil {
		fields.QuestionAdditionalFields = *d.AdditionalFields
	}
	if len(d.AnswerGroups) == 0 {
		return d.Answers, fields
	}
	var answers []*saml.Answer
	for _, g := range d.AnswerGroups {
		answers = append(answers, g.Answers...)
		fields.AnswerGroups = append(fields.AnswerGroups, &layout.AnswerGroupSummary{
			Title: g.Title,
			Count: len(g.Answers),
		})
	}
	return answers, fields
}

func (s *Session) transformAnswer(a *saml.Answer, q *saml.QuestionDetails, ordering int, path string) (*layout.VersionedAnswer, error) {
	if a == nil || a.Text == "" {
		return nil, missing("Answer", "text", path, a)
	}
	tag := a.Tag
	if tag == "" {
		tag = s.tags.fromText(a.Text)
	}
	typ := a.Type
	if typ == "" {
		var ok bool
		typ, ok = layout.DefaultAnswerType(q.Type)
		if !ok {
			return nil, errors.Trace(&StructuralError{
				Object: "Answer",
				Field:  "type",
				Path:   path,
				Dump:   dump(a),
				Reason: fmt.Sprintf("unknown question type %s for untyped answer", q.Type),
			})
		}
	}
	va := &layout.VersionedAnswer{
		Tag:         TransformAnswerTag(tag, s.pathway, q.IsGlobal()),
		Type:        typ,
		Text:        a.Text,
		SummaryText: a.Summary,
		ToAlert:     ptr.BoolValue(a.ToAlert, false),
		LanguageID:  layout.LanguageIDEnglish,
		Ordering:    int64(ordering),
		Status:      layout.StatusActive,
		ClientData:  a.ClientData,
	}
	if va.SummaryText == "" {
		va.SummaryText = a.Text
	}
	return va, nil
}

// PhotoSlotRequiredDefault is the required flag a photo slot gets when the
// template leaves it out.
func PhotoSlotRequiredDefault(slotType string) bool {
	return slotType != layout.PhotoSlotTypeStandard
}

func transformPhotoSlot(ps *saml.PhotoSlot, ordering int, path string) (*layout.VersionedPhotoSlot, error) {
	if ps == nil || ps.Name == "" {
		return nil, missing("Photo Slot", "name", path, ps)
	}
	out := &layout.VersionedPhotoSlot{
		Name:       ps.Name,
		Type:       ps.Type,
		Required:   ptr.BoolValue(ps.Required, PhotoSlotRequiredDefault(ps.Type)),
		LanguageID: layout.LanguageIDEnglish,
		Ordering:   int64(ordering),
		Status:     layout.StatusActive,
		ClientData: ps.ClientData,
	}
	if out.ClientData == nil {
		out.ClientData = &saml.PhotoSlotClientData{}
	}
	return out, nil
}
