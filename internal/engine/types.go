// Defines the property schema and record types the engine operates on.

package engine

import (
	"time"

	"github.com/rowdb/rowdb/internal/ksid"
)

// PropertyType represents the type of a database property.
type PropertyType string

const (
	// Primitive types.

	// PropertyTypeText stores plain text values.
	PropertyTypeText PropertyType = "text"
	// PropertyTypeNumber stores numeric values (integer or float).
	PropertyTypeNumber PropertyType = "number"
	// PropertyTypeCheckbox stores boolean values.
	PropertyTypeCheckbox PropertyType = "checkbox"
	// PropertyTypeDate stores date values (epoch seconds once normalized).
	PropertyTypeDate PropertyType = "date"

	// Enumerated types (with predefined options).

	// PropertyTypeSelect stores a single selection from predefined options.
	PropertyTypeSelect PropertyType = "select"
	// PropertyTypeMultiSelect stores multiple selections from predefined options.
	PropertyTypeMultiSelect PropertyType = "multi_select"
	// PropertyTypeStatus stores a single status from predefined options.
	PropertyTypeStatus PropertyType = "status"

	// Validated text types.

	// PropertyTypeURL stores URLs.
	PropertyTypeURL PropertyType = "url"
	// PropertyTypeEmail stores email addresses.
	PropertyTypeEmail PropertyType = "email"
	// PropertyTypePhone stores phone numbers.
	PropertyTypePhone PropertyType = "phone"

	// System-managed types.

	// PropertyTypeCreatedTime mirrors the record creation timestamp.
	PropertyTypeCreatedTime PropertyType = "created_time"
	// PropertyTypeLastEditedTime mirrors the record modification timestamp.
	PropertyTypeLastEditedTime PropertyType = "last_edited_time"

	// Structured types. Values pass through the default normalization rule;
	// no dedicated operators are defined for them yet.

	// PropertyTypeRelation stores references to records in another database.
	PropertyTypeRelation PropertyType = "relation"
	// PropertyTypeFormula stores computed values.
	PropertyTypeFormula PropertyType = "formula"
	// PropertyTypeRollup stores values aggregated across a relation.
	PropertyTypeRollup PropertyType = "rollup"
)

// SelectOption represents an option for select/multi_select/status properties.
type SelectOption struct {
	ID    string `json:"id" jsonschema:"description=Unique option identifier"`
	Name  string `json:"name" jsonschema:"description=Display name of the option"`
	Color string `json:"color,omitempty" jsonschema:"description=Color for visual distinction"`
}

// Property represents a table property (column) with its configuration.
type Property struct {
	ID   string       `json:"id" jsonschema:"description=Unique property identifier within a schema"`
	Name string       `json:"name" jsonschema:"description=Property name (column header)"`
	Type PropertyType `json:"type" jsonschema:"description=Property type (text/number/select/etc)"`

	// Options contains the allowed values for select, multi_select and
	// status properties. Each option has an ID (used in storage), name
	// (display), and optional color.
	Options []SelectOption `json:"options,omitempty" jsonschema:"description=Allowed values for select properties"`

	// System properties are managed by the application and can never be
	// hidden or deleted.
	System   bool `json:"system,omitempty" jsonschema:"description=Whether the property is system-managed"`
	Required bool `json:"required,omitempty" jsonschema:"description=Whether this property is required"`

	// Visible is the property-level default; view settings override it.
	Visible bool `json:"visible" jsonschema:"description=Default column visibility"`
	// Order defines the default column order.
	Order int `json:"order" jsonschema:"description=Default column position"`
}

// Locked reports whether the property can never be hidden.
func (p *Property) Locked() bool {
	return p.System || p.Required
}

// OptionByID returns the select option with the given ID, or nil.
func (p *Property) OptionByID(id string) *SelectOption {
	for i := range p.Options {
		if p.Options[i].ID == id {
			return &p.Options[i]
		}
	}
	return nil
}

// PropertyByID returns the property with the given ID, or nil.
func PropertyByID(props []Property, id string) *Property {
	for i := range props {
		if props[i].ID == id {
			return &props[i]
		}
	}
	return nil
}

// Record represents a record (row) in a database.
// Property values are keyed by property ID, never by property name.
type Record struct {
	ID         ksid.ID        `json:"id" jsonschema:"description=Unique record identifier"`
	Properties map[string]any `json:"properties" jsonschema:"description=Property values keyed by property ID"`
	Created    time.Time      `json:"created" jsonschema:"description=Record creation timestamp"`
	Modified   time.Time      `json:"modified" jsonschema:"description=Last modification timestamp"`
	Archived   bool           `json:"archived,omitempty" jsonschema:"description=Whether the record is archived"`
}

// Validate checks that the Record is valid.
func (r *Record) Validate() error {
	if r.ID.IsZero() {
		return errIDRequired
	}
	return nil
}
