package visitreview

import "fmt"

type AlertLabelsList struct {
	Type           string         `json:"type"`
	ContentConfig  *ContentConfig `json:"content_config"`
	EmptyStateView View           `json:"empty_state_view,omitempty"`
}

func (v *AlertLabelsList) TypeName() string { return namespace + "alert_labels_list" }

func (v *AlertLabelsList) Validate() error {
	v.Type = v.TypeName()
	return validateLeaf(v.Type, v.ContentConfig, v.EmptyStateView)
}

func (v *AlertLabelsList) Render(ctx *ViewContext) (map[string]interface{}, error) {
	c, err := content(v, v.ContentConfig, ctx)
	if err != nil {
		return orEmptyState(err, v.EmptyStateView, v, ctx)
	}
	if c == nil {
		return nil, nil
	}
	values, ok := c.([]string)
	if !ok {
		return nil, renderErrorf("expected []string for %s, got %T", v.TypeName(), c)
	}
	return map[string]interface{}{"type": v.TypeName(), "values": values}, nil
}

type TitleLabelsList struct {
	Type          string         `json:"type"`
	ContentConfig *ContentConfig `json:"content_config"`
}

func (v *TitleLabelsList) TypeName() string { return namespace + "title_labels_list" }

func (v *TitleLabelsList) Validate() error {
	v.Type = v.TypeName()
	return validateLeaf(v.Type, v.ContentConfig, nil)
}

func (v *TitleLabelsList) Render(ctx *ViewContext) (map[string]interface{}, error) {
	c, err := content(v, v.ContentConfig, ctx)
	if err != nil || c == nil {
		return nil, err
	}
	var values []string
	switch t := c.(type) {
	case string:
		values = []string{t}
	case []string:
		values = t
	default:
		return nil, renderErrorf("expected string or []string for %s, got %T", v.TypeName(), c)
	}
	return map[string]interface{}{"type": v.TypeName(), "values": values}, nil
}

type ContentLabelsList struct {
	Type           string         `json:"type"`
	ContentConfig  *ContentConfig `json:"content_config"`
	EmptyStateView View           `json:"empty_state_view,omitempty"`
}

func (v *ContentLabelsList) TypeName() string { return namespace + "content_labels_list" }

func (v *ContentLabelsList) Validate() error {
	v.Type = v.TypeName()
	return validateLeaf(v.Type, v.ContentConfig, v.EmptyStateView)
}

func (v *ContentLabelsList) Render(ctx *ViewContext) (map[string]interface{}, error) {
	c, err := content(v, v.ContentConfig, ctx)
	if err != nil {
		return orEmptyState(err, v.EmptyStateView, v, ctx)
	}
	if c == nil {
		return nil, nil
	}
	var values []string
	switch t := c.(type) {
	case string:
		values = []string{t}
	case []string:
		values = t
	case []CheckedUncheckedData:
		for _, it := range t {
			if it.IsChecked {
				values = append(values, it.Value)
			}
		}
	case []TitleSubItemsDescriptionContentData:
		for _, it := range t {
			values = append(values, it.Title)
		}
	default:
		return nil, renderErrorf("unexpected content %T for %s key %s", c, v.TypeName(), v.ContentConfig.Key)
	}
	if values == nil {
		values = []string{}
	}
	return map[string]interface{}{"type": v.TypeName(), "values": values}, nil
}

type CheckXItemsList struct {
	Type          string         `json:"type"`
	ContentConfig *ContentConfig `json:"content_config"`
}

func (v *CheckXItemsList) TypeName() string { return namespace + "check_x_items_list" }

func (v *CheckXItemsList) Validate() error {
	v.Type = v.TypeName()
	return validateLeaf(v.Type, v.ContentConfig, nil)
}

func (v *CheckXItemsList) Render(ctx *ViewContext) (map[string]interface{}, error) {
	c, err := content(v, v.ContentConfig, ctx)
	if err != nil || c == nil {
		return nil, err
	}
	items, ok := c.([]CheckedUncheckedData)
	if !ok {
		return nil, renderErrorf("expected []CheckedUncheckedData for %s key %s, got %T", v.TypeName(), v.ContentConfig.Key, c)
	}
	return map[string]interface{}{"type": v.TypeName(), "items": items}, nil
}

// TitleSubItemsLabelContentItemsList shows the answers of a question with
// subquestions, one titled group per repetition.
type TitleSubItemsLabelContentItemsList struct {
	Type           string         `json:"type"`
	ContentConfig  *ContentConfig `json:"content_config"`
	EmptyStateView View           `json:"empty_state_view,omitempty"`
}

func (v *TitleSubItemsLabelContentItemsList) TypeName() string {
	return namespace + "title_subitems_description_content_labels_divided_items_list"
}

func (v *TitleSubItemsLabelContentItemsList) Validate() error {
	v.Type = v.TypeName()
	return validateLeaf(v.Type, v.ContentConfig, v.EmptyStateView)
}

func (v *TitleSubItemsLabelContentItemsList) Render(ctx *ViewContext) (map[string]interface{}, error) {
	c, err := content(v, v.ContentConfig, ctx)
	if err != nil {
		return orEmptyState(err, v.EmptyStateView, v, ctx)
	}
	if c == nil {
		return nil, nil
	}
	items, ok := c.([]TitleSubItemsDescriptionContentData)
	if !ok {
		return nil, renderErrorf("expected []TitleSubItemsDescriptionContentData for %s key %s, got %T", v.TypeName(), v.ContentConfig.Key, c)
	}
	return map[string]interface{}{"type": v.TypeName(), "items": items}, nil
}

type TitlePhotosItemsListView struct {
	Type          string         `json:"type"`
	ContentConfig *ContentConfig `json:"content_config"`
}

func (v *TitlePhotosItemsListView) TypeName() string { return namespace + "title_photos_items_list" }

func (v *TitlePhotosItemsListView) Validate() error {
	v.Type = v.TypeName()
	return validateLeaf(v.Type, v.ContentConfig, nil)
}

func (v *TitlePhotosItemsListView) Render(ctx *ViewContext) (map[string]interface{}, error) {
	c, err := content(v, v.ContentConfig, ctx)
	if err != nil || c == nil {
		return nil, err
	}
	items, ok := c.([]TitlePhotoListData)
	if !ok {
		return nil, renderErrorf("expected []TitlePhotoListData for %s key %s, got %T", v.TypeName(), v.ContentConfig.Key, c)
	}
	return map[string]interface{}{"type": v.TypeName(), "items": items}, nil
}

// EmptyLabelView shows a placeholder text, usually as an empty state.
type EmptyLabelView struct {
	Type          string         `json:"type"`
	ContentConfig *ContentConfig `json:"content_config"`
}

func (v *EmptyLabelView) TypeName() string { return namespace + "empty_label" }

func (v *EmptyLabelView) Validate() error {
	v.Type = v.TypeName()
	return validateLeaf(v.Type, v.ContentConfig, nil)
}

func (v *EmptyLabelView) Render(ctx *ViewContext) (map[string]interface{}, error) {
	c, err := content(v, v.ContentConfig, ctx)
	if err != nil {
		return nil, err
	}
	text, ok := c.(string)
	if c != nil && !ok {
		return nil, renderErrorf("expected string for %s, got %T", v.TypeName(), c)
	}
	return map[string]interface{}{"type": v.TypeName(), "text": text}, nil
}

func validateLeaf(name string, cc *ContentConfig, empty View) error {
	if err := cc.validate(name, true); err != nil {
		return err
	}
	if empty != nil {
		if err := empty.Validate(); err != nil {
			return fmt.Errorf("%s empty state: %w", name, err)
		}
	}
	return nil
}
