// Package visitreview is the view model of the clinician facing visit review.
// Views are assembled by the review generator, validated (which stamps their
// namespaced type) and serialized as the review layout. Render evaluates a
// layout against the answers of one visit and is used for previews.
package visitreview

import (
	"fmt"

	"github.com/sprucehealth/layoutadmin/libs/errors"
)

const (
	ConditionKeyExists    = "key_exists"
	ConditionAnyKeyExists = "any_key_exists"
)

const namespace = "d_visit_review:"

// ViewContext holds the data views are rendered from, keyed by the
// content_config keys of the layout (e.g. "q_x:answers").
type ViewContext struct {
	data map[string]interface{}
	// IgnoreMissingKeys renders views with absent content as empty rather
	// than failing.
	IgnoreMissingKeys bool
}

func NewViewContext(data map[string]interface{}) *ViewContext {
	if data == nil {
		data = make(map[string]interface{})
	}
	return &ViewContext{data: data}
}

func (c *ViewContext) Set(key string, v interface{}) {
	c.data[key] = v
}

func (c *ViewContext) Get(key string) (interface{}, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *ViewContext) Delete(key string) {
	delete(c.data, key)
}

type View interface {
	TypeName() string
	// Validate checks the view tree and stamps the type of every view.
	Validate() error
	// Render returns nil without error when the view is hidden by its condition.
	Render(ctx *ViewContext) (map[string]interface{}, error)
}

// ViewRenderingError is returned by Render. IsContentMissing marks the case
// where an empty state view may be shown instead.
type ViewRenderingError struct {
	Message          string
	IsContentMissing bool
}

func (e *ViewRenderingError) Error() string {
	return e.Message
}

func renderErrorf(format string, args ...interface{}) error {
	return &ViewRenderingError{Message: fmt.Sprintf(format, args...)}
}

// ViewValidationError reports a layout that can never render.
type ViewValidationError struct {
	View   string
	Reason string
}

func (e *ViewValidationError) Error() string {
	return fmt.Sprintf("visitreview: invalid %s: %s", e.View, e.Reason)
}

// ViewCondition gates a view on the presence of content keys.
type ViewCondition struct {
	Op   string   `json:"op"`
	Key  string   `json:"key,omitempty"`
	Keys []string `json:"keys,omitempty"`
}

func KeyExists(key string) *ViewCondition {
	return &ViewCondition{Op: ConditionKeyExists, Key: key}
}

func AnyKeyExists(keys ...string) *ViewCondition {
	return &ViewCondition{Op: ConditionAnyKeyExists, Keys: keys}
}

func (c *ViewCondition) validate(view string) error {
	switch c.Op {
	case ConditionKeyExists:
		if c.Key == "" {
			return &ViewValidationError{View: view, Reason: "key_exists condition without key"}
		}
	case ConditionAnyKeyExists:
		if len(c.Keys) == 0 {
			return &ViewValidationError{View: view, Reason: "any_key_exists condition without keys"}
		}
	default:
		return &ViewValidationError{View: view, Reason: fmt.Sprintf("unknown condition op %q", c.Op)}
	}
	return nil
}

// Evaluate reports whether the condition holds for the context.
func (c *ViewCondition) Evaluate(ctx *ViewContext) (bool, error) {
	switch c.Op {
	case ConditionKeyExists:
		_, ok := ctx.Get(c.Key)
		return ok, nil
	case ConditionAnyKeyExists:
		for _, k := range c.Keys {
			if _, ok := ctx.Get(k); ok {
				return true, nil
			}
		}
		return false, nil
	}
	return false, errors.Trace(renderErrorf("unknown condition op %q", c.Op))
}

// ContentConfig binds a view to its content key and optional display condition.
type ContentConfig struct {
	Key       string         `json:"key,omitempty"`
	Condition *ViewCondition `json:"condition,omitempty"`
}

func Content(key string) *ContentConfig {
	return &ContentConfig{Key: key}
}

func Gate(c *ViewCondition) *ContentConfig {
	return &ContentConfig{Condition: c}
}

func (cc *ContentConfig) validate(view string, needKey bool) error {
	if cc == nil {
		if needKey {
			return &ViewValidationError{View: view, Reason: "missing content_config"}
		}
		return nil
	}
	if needKey && cc.Key == "" {
		return &ViewValidationError{View: view, Reason: "content_config without key"}
	}
	if cc.Condition != nil {
		return cc.Condition.validate(view)
	}
	return nil
}

// visible evaluates the optional condition of a content config.
func visible(cc *ContentConfig, ctx *ViewContext) (bool, error) {
	if cc == nil || cc.Condition == nil {
		return true, nil
	}
	return cc.Condition.Evaluate(ctx)
}

func content(view View, cc *ContentConfig, ctx *ViewContext) (interface{}, error) {
	v, ok := ctx.Get(cc.Key)
	if !ok && !ctx.IgnoreMissingKeys {
		return nil, &ViewRenderingError{
			Message:          fmt.Sprintf("content with key %s not found for view type %s", cc.Key, view.TypeName()),
			IsContentMissing: true,
		}
	}
	return v, nil
}

// orEmptyState renders the empty state view when err reports missing content.
func orEmptyState(err error, empty View, view View, ctx *ViewContext) (map[string]interface{}, error) {
	e, ok := err.(*ViewRenderingError)
	if !ok || !e.IsContentMissing || empty == nil {
		return nil, err
	}
	r, eerr := empty.Render(ctx)
	if eerr != nil {
		return nil, renderErrorf("unable to render %s (%s) or its empty state %s (%s)", view.TypeName(), err, empty.TypeName(), eerr)
	}
	return r, nil
}
