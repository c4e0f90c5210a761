package store

// Record is a schemaless item as seen by the application: camelCase keys,
// time.Time for temporal values, plain Go scalars and nested maps/slices for
// everything else. Adapters convert to and from their native representation
// at the boundary.
type Record map[string]any

// ID returns the record's numeric id, if present.
func (r Record) ID() (int64, bool) {
	return ToInt64(r["id"])
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge copies every key of other into a copy of r and returns it.
func (r Record) Merge(other Record) Record {
	out := r.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}
