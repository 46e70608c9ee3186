package layoutadmin

import (
	"context"
	"net/http"

	"github.com/Masterminds/semver/v3"
	"github.com/google/go-querystring/query"
	"github.com/sprucehealth/layoutadmin/libs/errors"
)

const (
	PurposeIntake = "CONDITION_INTAKE"
	PurposeReview = "REVIEW"
)

// LayoutVersion is one published layout.
type LayoutVersion struct {
	SKUType       string
	LayoutPurpose string
	Version       string
}

type layoutVersionsResponse struct {
	Items []*LayoutVersion `json:"items"`
}

// LayoutVersions lists every published layout version.
func (c *Client) LayoutVersions(ctx context.Context) ([]*LayoutVersion, error) {
	var res layoutVersionsResponse
	if err := c.b.Call(ctx, http.MethodGet, "layouts/version", nil, nil, &res); err != nil {
		return nil, errors.Annotate(err, "listing layout versions")
	}
	return res.Items, nil
}

// TemplateQuery selects a published layout.
type TemplateQuery struct {
	PathwayTag string `url:"pathway_tag"`
	SKU        string `url:"sku"`
	Purpose    string `url:"purpose"`
	Major      uint64 `url:"major"`
	Minor      uint64 `url:"minor"`
	Patch      uint64 `url:"patch"`
}

// SetVersion fills in the version fields from v.
func (q *TemplateQuery) SetVersion(v *semver.Version) {
	q.Major, q.Minor, q.Patch = v.Major(), v.Minor(), v.Patch()
}

// LayoutTemplate fetches a published layout and decodes it into v.
func (c *Client) LayoutTemplate(ctx context.Context, q *TemplateQuery, v interface{}) error {
	params, err := query.Values(q)
	if err != nil {
		return errors.Trace(err)
	}
	if err := c.b.Call(ctx, http.MethodGet, "layouts/template", params, nil, v); err != nil {
		return errors.Annotatef(err, "fetching %s layout %d.%d.%d for %s", q.Purpose, q.Major, q.Minor, q.Patch, q.SKU)
	}
	return nil
}
