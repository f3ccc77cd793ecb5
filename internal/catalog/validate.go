package catalog

// MissingIDPlaceholder stands in for the id of a rejected entry that has none.
// It is a display string only and never used for lookups.
const MissingIDPlaceholder = "(sin id)"

// Rejection describes an entry that failed validation.
type Rejection struct {
	ID      string
	Missing []string
}

// Result partitions the candidate list. Every candidate lands in exactly one
// of Valid or Rejected, both in input order.
type Result struct {
	Valid    []Entry
	Rejected []Rejection
}

// Total returns the number of candidates the result was built from.
func (r Result) Total() int {
	return len(r.Valid) + len(r.Rejected)
}

// RejectedIDs returns the identifiers of rejected entries in order.
func (r Result) RejectedIDs() []string {
	ids := make([]string, len(r.Rejected))
	for i, rej := range r.Rejected {
		ids[i] = rej.ID
	}
	return ids
}

// Validate checks every candidate in p.Pasadias against the required-field
// schema. A missing or non-list pasadias value yields an empty result.
func Validate(p Payload) Result {
	candidates, _ := p.Pasadias.([]any)
	res := Result{
		Valid:    make([]Entry, 0, len(candidates)),
		Rejected: []Rejection{},
	}
	for _, candidate := range candidates {
		raw, _ := candidate.(map[string]any)
		missing := missingFields(raw)
		if len(missing) == 0 {
			res.Valid = append(res.Valid, entryFromRaw(raw))
			continue
		}
		id := MissingIDPlaceholder
		if v := NewValue(raw[FieldID]); v.Truthy() {
			id = v.String()
		}
		res.Rejected = append(res.Rejected, Rejection{ID: id, Missing: missing})
	}
	return res
}

func missingFields(raw RawEntry) []string {
	var missing []string
	for _, field := range RequiredFields {
		v, ok := raw[field]
		if !ok {
			missing = append(missing, field)
			continue
		}
		if field == FieldFeatures {
			if _, isList := v.([]any); !isList {
				missing = append(missing, field)
			}
		}
	}
	return missing
}
