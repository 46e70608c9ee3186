package visitreview

// SectionListView is the root of a review layout.
type SectionListView struct {
	Type     string `json:"type"`
	Sections []View `json:"sections"`
}

func (v *SectionListView) TypeName() string { return namespace + "sections_list" }

func (v *SectionListView) Validate() error {
	v.Type = v.TypeName()
	return validateAll(v.Sections)
}

func (v *SectionListView) Render(ctx *ViewContext) (map[string]interface{}, error) {
	sections, err := renderAll(v.Sections, ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"type":     v.TypeName(),
		"sections": sections,
	}, nil
}

type StandardSectionView struct {
	Type          string         `json:"type"`
	Title         string         `json:"title"`
	Subsections   []View         `json:"subsections"`
	ContentConfig *ContentConfig `json:"content_config,omitempty"`
}

func (v *StandardSectionView) TypeName() string { return namespace + "standard_section" }

func (v *StandardSectionView) Validate() error {
	v.Type = v.TypeName()
	if err := v.ContentConfig.validate(v.Type, false); err != nil {
		return err
	}
	return validateAll(v.Subsections)
}

func (v *StandardSectionView) Render(ctx *ViewContext) (map[string]interface{}, error) {
	return renderTitled(v, v.ContentConfig, v.Title, "subsections", v.Subsections, ctx)
}

type StandardSubsectionView struct {
	Type          string         `json:"type"`
	Title         string         `json:"title"`
	Rows          []View         `json:"rows"`
	ContentConfig *ContentConfig `json:"content_config,omitempty"`
}

func (v *StandardSubsectionView) TypeName() string { return namespace + "standard_subsection" }

func (v *StandardSubsectionView) Validate() error {
	v.Type = v.TypeName()
	if err := v.ContentConfig.validate(v.Type, false); err != nil {
		return err
	}
	return validateAll(v.Rows)
}

func (v *StandardSubsectionView) Render(ctx *ViewContext) (map[string]interface{}, error) {
	return renderTitled(v, v.ContentConfig, v.Title, "rows", v.Rows, ctx)
}

type StandardPhotosSectionView struct {
	Type          string         `json:"type"`
	Title         string         `json:"title"`
	Subsections   []View         `json:"subsections"`
	ContentConfig *ContentConfig `json:"content_config,omitempty"`
}

func (v *StandardPhotosSectionView) TypeName() string { return namespace + "standard_photo_section" }

func (v *StandardPhotosSectionView) Validate() error {
	v.Type = v.TypeName()
	if err := v.ContentConfig.validate(v.Type, false); err != nil {
		return err
	}
	return validateAll(v.Subsections)
}

func (v *StandardPhotosSectionView) Render(ctx *ViewContext) (map[string]interface{}, error) {
	return renderTitled(v, v.ContentConfig, v.Title, "subsections", v.Subsections, ctx)
}

type StandardPhotosSubsectionView struct {
	Type          string         `json:"type"`
	View          View           `json:"view"`
	ContentConfig *ContentConfig `json:"content_config,omitempty"`
}

func (v *StandardPhotosSubsectionView) TypeName() string {
	return namespace + "standard_photo_subsection"
}

func (v *StandardPhotosSubsectionView) Validate() error {
	v.Type = v.TypeName()
	if v.View == nil {
		return &ViewValidationError{View: v.Type, Reason: "missing view"}
	}
	if err := v.ContentConfig.validate(v.Type, false); err != nil {
		return err
	}
	return v.View.Validate()
}

func (v *StandardPhotosSubsectionView) Render(ctx *ViewContext) (map[string]interface{}, error) {
	return renderSlots(v, v.ContentConfig, ctx, "view", v.View)
}

type StandardOneColumnRowView struct {
	Type          string         `json:"type"`
	View          View           `json:"view"`
	ContentConfig *ContentConfig `json:"content_config,omitempty"`
}

func (v *StandardOneColumnRowView) TypeName() string { return namespace + "standard_one_column_row" }

func (v *StandardOneColumnRowView) Validate() error {
	v.Type = v.TypeName()
	if err := v.ContentConfig.validate(v.Type, false); err != nil {
		return err
	}
	if v.View != nil {
		return v.View.Validate()
	}
	return nil
}

func (v *StandardOneColumnRowView) Render(ctx *ViewContext) (map[string]interface{}, error) {
	return renderSlots(v, v.ContentConfig, ctx, "view", v.View)
}

type StandardTwoColumnRowView struct {
	Type          string         `json:"type"`
	LeftView      View           `json:"left_view"`
	RightView     View           `json:"right_view"`
	ContentConfig *ContentConfig `json:"content_config,omitempty"`
}

func (v *StandardTwoColumnRowView) TypeName() string { return namespace + "standard_two_column_row" }

func (v *StandardTwoColumnRowView) Validate() error {
	v.Type = v.TypeName()
	if err := v.ContentConfig.validate(v.Type, false); err != nil {
		return err
	}
	for _, c := range []View{v.LeftView, v.RightView} {
		if c == nil {
			continue
		}
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (v *StandardTwoColumnRowView) Render(ctx *ViewContext) (map[string]interface{}, error) {
	return renderSlots(v, v.ContentConfig, ctx, "left_view", v.LeftView, "right_view", v.RightView)
}

func validateAll(views []View) error {
	for _, c := range views {
		if c == nil {
			return &ViewValidationError{View: "view", Reason: "nil child"}
		}
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// renderAll renders children in order dropping hidden ones.
func renderAll(views []View, ctx *ViewContext) ([]interface{}, error) {
	out := make([]interface{}, 0, len(views))
	for _, c := range views {
		r, err := c.Render(ctx)
		if err != nil {
			return nil, err
		}
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

func renderTitled(v View, cc *ContentConfig, title, field string, children []View, ctx *ViewContext) (map[string]interface{}, error) {
	if ok, err := visible(cc, ctx); err != nil || !ok {
		return nil, err
	}
	rendered, err := renderAll(children, ctx)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"type":  v.TypeName(),
		"title": title,
		field:   rendered,
	}, nil
}

// renderSlots renders named child views given as name, view pairs.
func renderSlots(v View, cc *ContentConfig, ctx *ViewContext, slots ...interface{}) (map[string]interface{}, error) {
	if ok, err := visible(cc, ctx); err != nil || !ok {
		return nil, err
	}
	out := map[string]interface{}{"type": v.TypeName()}
	for i := 0; i+1 < len(slots); i += 2 {
		child, _ := slots[i+1].(View)
		if child == nil {
			continue
		}
		r, err := child.Render(ctx)
		if err != nil {
			return nil, err
		}
		if r != nil {
			out[slots[i].(string)] = r
		}
	}
	return out, nil
}
