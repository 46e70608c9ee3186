package transform

import (
	"fmt"
	"strings"

	"github.com/sprucehealth/layoutadmin/libs/errors"
	"gopkg.in/yaml.v2"
)

const (
	transformErrorPrefix  = "Intake Transformation Error: "
	submissionErrorPrefix = "Intake Submission Error: "

	maxDumpLen = 480
)

// StructuralError is returned when a required field of an authored object is
// missing. Dump is the YAML form of the offending object, truncated.
type StructuralError struct {
	Object string
	Field  string
	Path   string
	Dump   string
	// Reason replaces the default "required but missing" message.
	Reason string
}

func (e *StructuralError) Error() string {
	var b strings.Builder
	if e.Reason != "" {
		b.WriteString(e.Reason)
	} else {
		fmt.Fprintf(&b, "field `%s` required but missing for object `%s`", e.Field, e.Object)
	}
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Dump != "" {
		b.WriteString("\n----- Object Contents -----\n")
		b.WriteString(e.Dump)
	}
	return b.String()
}

// TypeConflictError reports mutually exclusive fields used together or a
// type that does not fit the content of an object.
type TypeConflictError struct {
	Object string
	Path   string
	Reason string
}

func (e *TypeConflictError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Object, e.Reason)
	}
	return fmt.Sprintf("%s at %s: %s", e.Object, e.Path, e.Reason)
}

type UnsupportedOperatorError struct {
	Op   string
	Path string
}

func (e *UnsupportedOperatorError) Error() string {
	if e.Path == "" {
		return "unsupported condition type: " + e.Op
	}
	return fmt.Sprintf("unsupported condition type %q at %s", e.Op, e.Path)
}

// SubmissionError is returned when the versioning service rejects a
// question. Versioned lists the tags that were versioned before the failure;
// those versions are not rolled back.
type SubmissionError struct {
	Tag       string
	Versioned []string
	Err       error
}

func (e *SubmissionError) Error() string {
	msg := submissionErrorPrefix
	if e.Tag != "" {
		msg += "versioning question " + e.Tag + ": "
	}
	msg += e.Err.Error()
	if len(e.Versioned) != 0 {
		msg += fmt.Sprintf(" (%d questions already versioned: %s)", len(e.Versioned), strings.Join(e.Versioned, ", "))
	}
	return msg
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// TransformError wraps every failure of the structural transformation.
type TransformError struct {
	Err error
}

func (e *TransformError) Error() string {
	return transformErrorPrefix + e.Err.Error()
}

func (e *TransformError) Unwrap() error { return e.Err }

// wrapTransform leaves submission failures alone so their own prefix stays
// the outermost one.
func wrapTransform(err error) error {
	if err == nil {
		return nil
	}
	var se *SubmissionError
	if errors.As(err, &se) {
		return err
	}
	var te *TransformError
	if errors.As(err, &te) {
		return err
	}
	return &TransformError{Err: err}
}

func dump(obj interface{}) string {
	if obj == nil {
		return ""
	}
	b, err := yaml.Marshal(obj)
	if err != nil {
		return fmt.Sprintf("%+v", obj)
	}
	s := string(b)
	if len(s) > maxDumpLen {
		return s[:maxDumpLen] + "\n[truncated]"
	}
	return s
}

func missing(object, field, path string, obj interface{}) error {
	return errors.Trace(&StructuralError{Object: object, Field: field, Path: path, Dump: dump(obj)})
}

func conflict(object, path, format string, args ...interface{}) error {
	return errors.Trace(&TypeConflictError{Object: object, Path: path, Reason: fmt.Sprintf(format, args...)})
}
