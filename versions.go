package layoutadmin

import (
	"github.com/Masterminds/semver/v3"
	"github.com/sprucehealth/layoutadmin/libs/errors"
)

// Layouts published before templated layouts existed used majors 1 and 2.
const minMajor = 3

// Versions are the next intake and review versions of a SKU.
type Versions struct {
	Intake *semver.Version
	Review *semver.Version
}

// NextVersions plans the versions of the next layouts published for sku
// from the newest existing version of each purpose. Without an existing
// layout the version is 3.0.0.
func NextVersions(items []*LayoutVersion, sku string) (*Versions, error) {
	newest := make(map[string]*semver.Version, 2)
	for _, it := range items {
		if it.SKUType != sku {
			continue
		}
		if it.LayoutPurpose != PurposeIntake && it.LayoutPurpose != PurposeReview {
			continue
		}
		v, err := semver.NewVersion(it.Version)
		if err != nil {
			return nil, errors.Annotatef(errors.Trace(err), "%s layout version %q of %s", it.LayoutPurpose, it.Version, sku)
		}
		if cur := newest[it.LayoutPurpose]; cur == nil || v.GreaterThan(cur) {
			newest[it.LayoutPurpose] = v
		}
	}
	return &Versions{
		Intake: next(newest[PurposeIntake]),
		Review: next(newest[PurposeReview]),
	}, nil
}

func next(v *semver.Version) *semver.Version {
	if v == nil {
		return semver.New(minMajor, 0, 0, "", "")
	}
	major := v.Major()
	if major < minMajor {
		major = minMajor
	}
	return semver.New(major, v.Minor()+1, v.Patch(), "", "")
}
