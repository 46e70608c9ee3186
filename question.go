package layoutadmin

import (
	"context"
	"net/http"

	"github.com/google/go-querystring/query"
	"github.com/sprucehealth/layoutadmin/layout"
	"github.com/sprucehealth/layoutadmin/libs/errors"
)

type questionQuery struct {
	Tag        string `url:"tag"`
	Version    int64  `url:"version"`
	LanguageID string `url:"language_id"`
}

type versionedQuestionResponse struct {
	VersionedQuestion *layout.VersionedQuestion `json:"versioned_question"`
}

// SubmitQuestion records a new version of a question and returns the tag
// and version assigned to it.
func (c *Client) SubmitQuestion(ctx context.Context, q *layout.VersionedQuestion) (*layout.TagVersion, error) {
	var res versionedQuestionResponse
	if err := c.b.Call(ctx, http.MethodPost, "layouts/versioned_question", nil, q, &res); err != nil {
		return nil, errors.Annotatef(err, "versioning question %s", q.Tag)
	}
	if res.VersionedQuestion == nil {
		return nil, errors.Errorf("versioning question %s: empty response", q.Tag)
	}
	return &layout.TagVersion{Tag: res.VersionedQuestion.Tag, Version: res.VersionedQuestion.Version}, nil
}

// VersionedQuestion fetches one version of a question.
func (c *Client) VersionedQuestion(ctx context.Context, tag, languageID string, version int64) (*layout.VersionedQuestion, error) {
	params, err := query.Values(&questionQuery{Tag: tag, Version: version, LanguageID: languageID})
	if err != nil {
		return nil, errors.Trace(err)
	}
	var res versionedQuestionResponse
	if err := c.b.Call(ctx, http.MethodGet, "layouts/versioned_question", params, nil, &res); err != nil {
		return nil, errors.Annotatef(err, "fetching question %s version %d", tag, version)
	}
	if res.VersionedQuestion == nil {
		return nil, errors.Errorf("question %s version %d not found", tag, version)
	}
	return res.VersionedQuestion, nil
}
