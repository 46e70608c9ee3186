package saml

import (
	"io"

	"github.com/sprucehealth/layoutadmin/libs/errors"
	"gopkg.in/yaml.v2"
)

// Decode parses a YAML or JSON intake template. Unknown fields are rejected
// so that typos surface instead of being silently dropped.
func Decode(b []byte) (*Intake, error) {
	var in Intake
	if err := yaml.UnmarshalStrict(b, &in); err != nil {
		return nil, errors.Annotate(errors.Trace(err), "decoding intake template")
	}
	return &in, nil
}

// DecodeReader reads the whole of r and decodes it as a template.
func DecodeReader(r io.Reader) (*Intake, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return Decode(b)
}

// Encode renders a template as YAML.
func Encode(in *Intake) ([]byte, error) {
	b, err := yaml.Marshal(in)
	return b, errors.Trace(err)
}
