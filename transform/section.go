package transform

import (
	"context"
	"fmt"

	"github.com/sprucehealth/layoutadmin/layout"
	"github.com/sprucehealth/layoutadmin/saml"
)

func (s *Session) TransformSection(ctx context.Context, sec *saml.Section) (*layout.Section, error) {
	return s.transformSection(ctx, sec, "section")
}

func (s *Session) transformSection(ctx context.Context, sec *saml.Section, path string) (*layout.Section, error) {
	if sec == nil {
		return nil, missing("Section", "section_title", path, nil)
	}
	if sec.Title == "" {
		return nil, missing("Section", "section_title", path, sec)
	}
	if sec.TransitionToMessage == "" {
		return nil, missing("Section", "transition_to_message", path, sec)
	}
	switch {
	case len(sec.Screens) != 0 && len(sec.Subsections) != 0:
		return nil, conflict("Section", path, "a section cannot contain both subsections and screens")
	case len(sec.Screens) == 0 && len(sec.Subsections) == 0:
		return nil, missing("Section without subsections", "screens", path, sec)
	}

	out := &layout.Section{
		Section:             sec.Section,
		SectionID:           sec.SectionID,
		Title:               sec.Title,
		TransitionToMessage: sec.TransitionToMessage,
		Screens:             []*layout.Screen{},
	}
	if len(sec.Subsections) == 0 {
		for i, sc := range sec.Screens {
			ls, err := s.transformScreen(ctx, sc, fmt.Sprintf("%s.screens[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out.Screens = append(out.Screens, ls)
		}
	} else {
		for i, sub := range sec.Subsections {
			subPath := fmt.Sprintf("%s.subsections[%d]", path, i)
			if sub == nil || sub.Title == "" {
				return nil, missing("Subsection", "title", subPath, sub)
			}
			if len(sub.Screens) == 0 {
				return nil, missing("Subsection", "screens", subPath, sub)
			}
			g := &layout.Group{Title: sub.Title}
			for j, sc := range sub.Screens {
				ls, err := s.transformScreen(ctx, sc, fmt.Sprintf("%s.screens[%d]", subPath, j))
				if err != nil {
					return nil, err
				}
				g.Screens = append(g.Screens, ls)
			}
			out.Screens = append(out.Screens, g.Screens...)
			out.Groups = append(out.Groups, g)
		}
	}

	if out.Section == "" {
		out.Section = s.sectionID()
	}
	if out.SectionID == "" {
		out.SectionID = out.Section
	}
	return out, nil
}
