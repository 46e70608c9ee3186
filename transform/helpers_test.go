package transform

import (
	"context"
	"fmt"
	"testing"

	"github.com/sprucehealth/layoutadmin/layout"
	"github.com/sprucehealth/layoutadmin/libs/errors"
	"github.com/sprucehealth/layoutadmin/libs/golog"
	"github.com/sprucehealth/layoutadmin/saml"
	"github.com/stretchr/testify/require"
)

type fakeVersioner struct {
	submitted []*layout.VersionedQuestion
	failTag   string
}

func (f *fakeVersioner) SubmitQuestion(ctx context.Context, q *layout.VersionedQuestion) (*layout.TagVersion, error) {
	if q.Tag == f.failTag {
		return nil, errors.New("versioned_question: tag rejected")
	}
	f.submitted = append(f.submitted, q)
	return &layout.TagVersion{Tag: q.Tag, Version: int64(len(f.submitted))}, nil
}

func (f *fakeVersioner) tags() []string {
	tags := make([]string, len(f.submitted))
	for i, q := range f.submitted {
		tags[i] = q.Tag
	}
	return tags
}

func newTestSession(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.Pathway == "" {
		opts.Pathway = acne
	}
	if opts.Log == nil {
		opts.Log = golog.Discard()
	}
	n := 0
	opts.SectionID = func() string {
		n++
		return fmt.Sprintf("section%05d", n)
	}
	s, err := NewSession(opts)
	require.NoError(t, err)
	return s
}

func decode(t *testing.T, src string) *saml.Intake {
	t.Helper()
	in, err := saml.Decode([]byte(src))
	require.NoError(t, err)
	return in
}
