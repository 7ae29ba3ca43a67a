// Resolves effective column visibility from view settings and schema flags.

package engine

import (
	"slices"
	"sort"
)

// Three visibility modes coexist, serving different consumers:
//
//   - explicit-list mode (ResolveColumns): what is actually rendered as
//     columns. When VisibleProperties is non-empty, list membership is the
//     sole signal and the property-level Visible flag is ignored.
//   - default-fallback mode: when no view-level list has ever been set, the
//     property-level Visible flag applies.
//   - menu-display mode (HiddenForMenu): what the show/hide menu reports as
//     hidden. A property in neither list counts as hidden here, which
//     deliberately differs from default-fallback mode; the two code paths
//     evolved independently in the original UI and consumers depend on both
//     behaviors.

// Columns is the result of resolving visibility for a schema.
type Columns struct {
	Visible []Property
	Hidden  []Property
}

// ResolveColumns computes the effective visible and hidden property sets.
//
// In explicit-list mode visible columns follow the list order; otherwise the
// schema's default Order applies. Hidden properties are always in schema
// order.
func ResolveColumns(props []Property, s *ViewSettings) Columns {
	var c Columns
	if s != nil && len(s.VisibleProperties) > 0 {
		for _, id := range s.VisibleProperties {
			if p := PropertyByID(props, id); p != nil {
				c.Visible = append(c.Visible, *p)
			}
		}
		for _, p := range props {
			if !slices.Contains(s.VisibleProperties, p.ID) {
				c.Hidden = append(c.Hidden, p)
			}
		}
		return c
	}

	// Default-fallback mode: the property-level flag decides.
	for _, p := range props {
		if p.Visible {
			c.Visible = append(c.Visible, p)
		} else {
			c.Hidden = append(c.Hidden, p)
		}
	}
	sort.SliceStable(c.Visible, func(i, j int) bool { return c.Visible[i].Order < c.Visible[j].Order })
	return c
}

// HiddenForMenu reports whether the show/hide menu displays the property as
// hidden: it is in HiddenProperties, or in neither list.
func HiddenForMenu(p *Property, s *ViewSettings) bool {
	if s == nil {
		return true
	}
	if slices.Contains(s.HiddenProperties, p.ID) {
		return true
	}
	return !slices.Contains(s.VisibleProperties, p.ID)
}

// ToggleProperty moves a property into exactly one of the two visibility
// lists, removing it from the other. Hiding a system or required property is
// rejected with ErrPropertyLocked.
func (s *ViewSettings) ToggleProperty(props []Property, id string, makeVisible bool) error {
	p := PropertyByID(props, id)
	if p == nil {
		return ErrPropertyNotFound
	}
	if !makeVisible && p.Locked() {
		return ErrPropertyLocked
	}

	s.VisibleProperties = removeID(s.VisibleProperties, id)
	s.HiddenProperties = removeID(s.HiddenProperties, id)
	if makeVisible {
		s.VisibleProperties = append(s.VisibleProperties, id)
	} else {
		s.HiddenProperties = append(s.HiddenProperties, id)
	}
	return nil
}

// ShowAll makes every property visible.
func (s *ViewSettings) ShowAll(props []Property) {
	s.VisibleProperties = make([]string, 0, len(props))
	for _, p := range props {
		s.VisibleProperties = append(s.VisibleProperties, p.ID)
	}
	s.HiddenProperties = nil
}

// HideAll hides every property that can be hidden. System and required
// properties remain visible.
func (s *ViewSettings) HideAll(props []Property) {
	s.VisibleProperties = nil
	s.HiddenProperties = nil
	for _, p := range props {
		if p.Locked() {
			s.VisibleProperties = append(s.VisibleProperties, p.ID)
		} else {
			s.HiddenProperties = append(s.HiddenProperties, p.ID)
		}
	}
}

// ResetToDefault clears both lists, returning the view to default-fallback
// mode where the property-level Visible flag applies.
func (s *ViewSettings) ResetToDefault() {
	s.VisibleProperties = nil
	s.HiddenProperties = nil
}

// removeID filters without touching the input backing array: settings slices
// may be shared with a view held in a cache.
func removeID(ids []string, id string) []string {
	result := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			result = append(result, v)
		}
	}
	return result
}
