// Package transform turns authored intake templates into normalized intake
// layouts. A Session scopes the tags it derives to one pathway and hands
// every normalized question to a Versioner.
package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sprucehealth/layoutadmin/layout"
	"github.com/sprucehealth/layoutadmin/libs/errors"
	"github.com/sprucehealth/layoutadmin/libs/golog"
)

//go:generate mockgen -destination transformmock/versioner.go -package transformmock github.com/sprucehealth/layoutadmin/transform Versioner

// Versioner records a new version of a normalized question.
type Versioner interface {
	SubmitQuestion(ctx context.Context, q *layout.VersionedQuestion) (*layout.TagVersion, error)
}

// Mode selects when questions are handed to the Versioner.
type Mode int

const (
	// Staged collects questions during the transformation. Nothing is
	// versioned until Commit is called.
	Staged Mode = iota
	// Immediate versions each question as soon as it is normalized.
	Immediate
)

func (m Mode) String() string {
	switch m {
	case Staged:
		return "staged"
	case Immediate:
		return "immediate"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

type Options struct {
	Pathway string
	// SKU overrides the cost item type derived from the pathway.
	SKU       string
	Mode      Mode
	Versioner Versioner
	Log       golog.Logger
	// SectionID generates identifiers for sections that do not carry one.
	SectionID func() string
}

// Session holds the state of a single transformation: derived tags, global
// questions seen so far and questions waiting to be versioned. A Session
// must not be used concurrently or for more than one intake.
type Session struct {
	pathway   string
	sku       string
	mode      Mode
	versioner Versioner
	log       golog.Logger
	sectionID func() string

	tags   *tagSet
	global map[string]bool
	staged []*layout.Question
	// versioned are the tags accepted by the Versioner so far.
	versioned []string
}

func NewSession(opts Options) (*Session, error) {
	if opts.Pathway == "" {
		return nil, errors.New("transform: pathway required")
	}
	if opts.Mode == Immediate && opts.Versioner == nil {
		return nil, errors.New("transform: immediate mode requires a versioner")
	}
	s := &Session{
		pathway:   opts.Pathway,
		sku:       opts.SKU,
		mode:      opts.Mode,
		versioner: opts.Versioner,
		log:       opts.Log,
		sectionID: opts.SectionID,
		tags:      newTagSet(),
		global:    make(map[string]bool),
	}
	if s.log == nil {
		s.log = golog.Default()
	}
	s.log = s.log.Context("pathway", s.pathway)
	if s.sectionID == nil {
		s.sectionID = randomSectionID
	}
	return s, nil
}

func randomSectionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func (s *Session) Pathway() string { return s.pathway }

// Pending returns the number of questions waiting for Commit.
func (s *Session) Pending() int { return len(s.staged) }

// Versioned returns the tags versioned by this session so far.
func (s *Session) Versioned() []string {
	return append([]string(nil), s.versioned...)
}

// submit versions q right away in immediate mode or stages it.
func (s *Session) submit(ctx context.Context, q *layout.Question) error {
	if s.mode == Staged {
		s.staged = append(s.staged, q)
		return nil
	}
	return s.version(ctx, q)
}

func (s *Session) version(ctx context.Context, q *layout.Question) error {
	s.log.Debugf("Versioning question - %s", q.Details.Tag)
	tv, err := s.versioner.SubmitQuestion(ctx, q.Details)
	if err != nil {
		return errors.Trace(&SubmissionError{
			Tag:       q.Details.Tag,
			Versioned: s.Versioned(),
			Err:       err,
		})
	}
	q.Tag = tv.Tag
	q.Version = tv.Version
	q.Details.Version = tv.Version
	s.versioned = append(s.versioned, tv.Tag)
	return nil
}

// Commit versions the staged questions in document order and stamps the
// returned tag and version onto the layout. It stops at the first failure;
// questions versioned before it stay versioned and are listed by the
// returned SubmissionError. A later Commit resumes with the failed question.
func (s *Session) Commit(ctx context.Context) error {
	if len(s.staged) == 0 {
		return nil
	}
	if s.versioner == nil {
		return errors.New("transform: commit requires a versioner")
	}
	for len(s.staged) != 0 {
		if err := ctx.Err(); err != nil {
			return errors.Trace(&SubmissionError{Versioned: s.Versioned(), Err: err})
		}
		if err := s.version(ctx, s.staged[0]); err != nil {
			return err
		}
		s.staged = s.staged[1:]
	}
	s.log.Infof("Versioned %d questions", len(s.versioned))
	return nil
}
