package transform

import (
	"context"
	"sync"

	"github.com/sprucehealth/layoutadmin/layout"
	"github.com/sprucehealth/layoutadmin/libs/errors"
	"github.com/sprucehealth/layoutadmin/libs/ptr"
	"github.com/sprucehealth/layoutadmin/saml"
	"golang.org/x/sync/errgroup"
)

// QuestionFetcher looks up a version of a question.
type QuestionFetcher interface {
	VersionedQuestion(ctx context.Context, tag, languageID string, version int64) (*layout.VersionedQuestion, error)
}

const defaultExpandConcurrency = 8

// Expand turns a published intake layout back into an editable template.
// The questions referenced by the layout are fetched with at most
// concurrency requests in flight. Fields the transformation fills in on its
// own are left out of the result so that transforming it again produces the
// same layout.
func Expand(ctx context.Context, in *layout.Intake, f QuestionFetcher, concurrency int) (*saml.Intake, error) {
	if concurrency <= 0 {
		concurrency = defaultExpandConcurrency
	}
	var refs []*layout.Question
	collectQuestions(in.Sections, func(q *layout.Question) { refs = append(refs, q) })

	type key struct {
		tag, lang string
		version   int64
	}
	var mu sync.Mutex
	details := make(map[key]*layout.VersionedQuestion, len(refs))
	seen := make(map[key]bool, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, q := range refs {
		k := key{tag: q.Tag, lang: q.LanguageID, version: q.Version}
		if k.lang == "" {
			k.lang = layout.LanguageIDEnglish
		}
		if k.version == 0 {
			k.version = 1
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		g.Go(func() error {
			vq, err := f.VersionedQuestion(gctx, k.tag, k.lang, k.version)
			if err != nil {
				return errors.Annotatef(errors.Trace(err), "expanding question %s version %d", k.tag, k.version)
			}
			mu.Lock()
			details[k] = vq
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lookup := func(q *layout.Question) *layout.VersionedQuestion {
		k := key{tag: q.Tag, lang: q.LanguageID, version: q.Version}
		if k.lang == "" {
			k.lang = layout.LanguageIDEnglish
		}
		if k.version == 0 {
			k.version = 1
		}
		return details[k]
	}

	out := &saml.Intake{}
	for _, sec := range in.Sections {
		ss := &saml.Section{
			Section:             sec.Section,
			SectionID:           sec.SectionID,
			Title:               sec.Title,
			TransitionToMessage: sec.TransitionToMessage,
		}
		for _, sc := range sec.Screens {
			es, err := expandScreen(sc, lookup)
			if err != nil {
				return nil, err
			}
			ss.Screens = append(ss.Screens, es)
		}
		out.Sections = append(out.Sections, ss)
	}
	return out, nil
}

func collectQuestions(sections []*layout.Section, fn func(*layout.Question)) {
	var screens func([]*layout.Screen)
	var questions func([]*layout.Question)
	questions = func(qs []*layout.Question) {
		for _, q := range qs {
			fn(q)
			if q.SubquestionsConfig != nil {
				screens(q.SubquestionsConfig.Screens)
				questions(q.SubquestionsConfig.Questions)
			}
		}
	}
	screens = func(ss []*layout.Screen) {
		for _, sc := range ss {
			questions(sc.Questions)
		}
	}
	for _, sec := range sections {
		screens(sec.Screens)
	}
}

func expandScreen(sc *layout.Screen, lookup func(*layout.Question) *layout.VersionedQuestion) (*saml.Screen, error) {
	out := &saml.Screen{
		Type:               sc.Type,
		Title:              sc.Title,
		Condition:          expandCondition(sc.Condition),
		ClientData:         sc.ClientData,
		HeaderTitle:        sc.HeaderTitle,
		HeaderSubtitle:     sc.HeaderSubtitle,
		HeaderSummary:      sc.HeaderSummary,
		ContentHeaderTitle: sc.ContentHeaderTitle,
		BottomButtonTitle:  sc.BottomButtonTitle,
	}
	if sc.Body != nil {
		out.Body = &saml.ScreenBody{Text: sc.Body.Text}
		if b := sc.Body.Button; b != nil {
			out.Body.Button = &saml.Button{Text: b.Text, TapURL: b.TapURL, Style: b.Style}
		}
	}
	for _, q := range sc.Questions {
		eq, err := expandQuestion(q, lookup)
		if err != nil {
			return nil, err
		}
		out.Questions = append(out.Questions, eq)
	}
	return out, nil
}

func expandQuestion(q *layout.Question, lookup func(*layout.Question) *layout.VersionedQuestion) (*saml.Question, error) {
	vq := lookup(q)
	if vq == nil {
		return nil, errors.Errorf("transform: no details fetched for question %s", q.Tag)
	}
	d, err := expandDetails(vq)
	if err != nil {
		return nil, errors.Annotatef(err, "question %s", q.Tag)
	}
	out := &saml.Question{
		Condition: expandCondition(q.Condition),
		Details:   d,
	}
	if sc := q.SubquestionsConfig; sc != nil {
		out.SubquestionConfig = &saml.QuestionSubquestionConfig{}
		for _, s := range sc.Screens {
			es, err := expandScreen(s, lookup)
			if err != nil {
				return nil, err
			}
			out.SubquestionConfig.Screens = append(out.SubquestionConfig.Screens, es)
		}
		for _, sq := range sc.Questions {
			eq, err := expandQuestion(sq, lookup)
			if err != nil {
				return nil, err
			}
			out.SubquestionConfig.Questions = append(out.SubquestionConfig.Questions, eq)
		}
	}
	return out, nil
}

func expandDetails(vq *layout.VersionedQuestion) (*saml.QuestionDetails, error) {
	d := &saml.QuestionDetails{
		Tag:       vq.Tag,
		Text:      vq.Text,
		Subtext:   vq.Subtext,
		Type:      vq.Type,
		AlertText: vq.AlertText,
		ToAlert:   trueOrNil(vq.ToAlert),
		Global:    trueOrNil(vq.Global),
		ToPrefill: trueOrNil(vq.ToPrefill),
	}
	if vq.SummaryText != vq.Text {
		d.Summary = vq.SummaryText
	}
	if !vq.Required {
		d.Required = ptr.Bool(false)
	}

	var groups []*layout.AnswerGroupSummary
	if f := vq.VersionedAdditionalQuestionFields; f != nil {
		groups = f.AnswerGroups
		if fields := f.QuestionAdditionalFields; !isEmptyAdditionalFields(&fields) {
			d.AdditionalFields = &fields
		}
	}

	answers := make([]*saml.Answer, 0, len(vq.VersionedAnswers))
	for _, va := range vq.VersionedAnswers {
		answers = append(answers, expandAnswer(va, vq.Type))
	}
	if len(groups) != 0 && len(answers) != 0 {
		next := 0
		for _, g := range groups {
			if next+g.Count > len(answers) {
				return nil, errors.Errorf("answer group %q claims %d answers but only %d remain", g.Title, g.Count, len(answers)-next)
			}
			d.AnswerGroups = append(d.AnswerGroups, &saml.AnswerGroup{Title: g.Title, Answers: answers[next : next+g.Count]})
			next += g.Count
		}
		if next != len(answers) {
			return nil, errors.Errorf("%d answers are not part of any answer group", len(answers)-next)
		}
	} else if len(answers) != 0 {
		d.Answers = answers
	}

	for _, ps := range vq.VersionedPhotoSlots {
		d.PhotoSlots = append(d.PhotoSlots, expandPhotoSlot(ps))
	}
	return d, nil
}

func expandAnswer(va *layout.VersionedAnswer, questionType string) *saml.Answer {
	a := &saml.Answer{
		Tag:     va.Tag,
		Text:    va.Text,
		Type:    va.Type,
		ToAlert: trueOrNil(va.ToAlert),
	}
	if def, ok := layout.DefaultAnswerType(questionType); ok && def == va.Type {
		a.Type = ""
	}
	if va.SummaryText != va.Text {
		a.Summary = va.SummaryText
	}
	if cd := va.ClientData; cd != nil && (cd.PlaceholderText != "" || cd.Popup != nil) {
		a.ClientData = cd
	}
	return a
}

func expandPhotoSlot(ps *layout.VersionedPhotoSlot) *saml.PhotoSlot {
	out := &saml.PhotoSlot{Name: ps.Name, Type: ps.Type}
	if ps.Required != PhotoSlotRequiredDefault(ps.Type) {
		out.Required = ptr.Bool(ps.Required)
	}
	if !isEmptyPhotoSlotClientData(ps.ClientData) {
		out.ClientData = ps.ClientData
	}
	return out
}

func expandCondition(c *layout.Condition) *saml.Condition {
	if c == nil {
		return nil
	}
	out := &saml.Condition{
		Op:               c.Op,
		Question:         c.Question,
		PotentialAnswers: c.PotentialAnswers,
		Gender:           c.Gender,
	}
	for _, o := range c.Operands {
		out.Operands = append(out.Operands, expandCondition(o))
	}
	return out
}

func isEmptyAdditionalFields(f *saml.QuestionAdditionalFields) bool {
	return *f == saml.QuestionAdditionalFields{}
}

func isEmptyPhotoSlotClientData(cd *saml.PhotoSlotClientData) bool {
	return cd == nil || (cd.PhotoTip == saml.PhotoTip{} &&
		cd.OverlayImageURL == "" &&
		cd.PhotoMissingErrorMessage == "" &&
		cd.InitialCameraDirection == "" &&
		cd.Flash == "" &&
		len(cd.Tips) == 0)
}

func trueOrNil(b bool) *bool {
	if !b {
		return nil
	}
	return ptr.Bool(true)
}
