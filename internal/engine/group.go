// Partitions records into fixed, named buckets for board-style views.

package engine

// defaultUngroupedColor is the neutral color for the synthetic bucket.
const defaultUngroupedColor = "gray"

// GroupingProperty selects the property used to bucket records: the first
// select property, else the first status property, else nil.
func GroupingProperty(props []Property) *Property {
	for i := range props {
		if props[i].Type == PropertyTypeSelect {
			return &props[i]
		}
	}
	for i := range props {
		if props[i].Type == PropertyTypeStatus {
			return &props[i]
		}
	}
	return nil
}

// GroupRecords partitions records into one bucket per option of the grouping
// property, in option order, plus the synthetic ungrouped bucket.
//
// Every record lands in exactly one bucket; a value matching no option goes
// to the ungrouped bucket even when showUngrouped is false, in which case the
// bucket is marked Hidden rather than dropped so no records are lost. When gp
// is nil, a single ungrouped bucket holds everything. Order within a bucket
// follows the input order, so a pre-sorted input stays sorted per bucket.
func GroupRecords(records []*Record, gp *Property, showUngrouped bool) []Group {
	ungrouped := Group{
		ID:      UngroupedID,
		Name:    "Ungrouped",
		Color:   defaultUngroupedColor,
		Records: []*Record{},
	}

	if gp == nil {
		ungrouped.Records = append(ungrouped.Records, records...)
		return []Group{ungrouped}
	}

	groups := make([]Group, 0, len(gp.Options)+1)
	index := make(map[string]int, len(gp.Options))
	for _, o := range gp.Options {
		index[o.ID] = len(groups)
		groups = append(groups, Group{
			ID:      o.ID,
			Name:    o.Name,
			Color:   o.Color,
			Records: []*Record{},
		})
	}

	for _, r := range records {
		id, _ := normalizeOption(r.Properties[gp.ID]).(string)
		if i, ok := index[id]; ok {
			groups[i].Records = append(groups[i].Records, r)
		} else {
			ungrouped.Records = append(ungrouped.Records, r)
		}
	}

	if !showUngrouped {
		ungrouped.Hidden = true
	}
	groups = append(groups, ungrouped)
	return groups
}

// MoveRecord relocates a record to a different bucket by rewriting the single
// grouping field on the record. It returns the one-field patch to persist:
// the target option ID, or nil for the ungrouped bucket.
//
// This is the only mutation the grouping engine performs; ordering within the
// target bucket is left to the sort pass.
func MoveRecord(r *Record, gp *Property, targetGroupID string) (map[string]any, error) {
	if gp == nil {
		return nil, ErrNotGroupable
	}
	var value any
	if targetGroupID != UngroupedID {
		if gp.OptionByID(targetGroupID) == nil {
			return nil, ErrUnknownGroup
		}
		value = targetGroupID
	}
	if r.Properties == nil {
		r.Properties = make(map[string]any, 1)
	}
	r.Properties[gp.ID] = value
	return map[string]any{gp.ID: value}, nil
}
