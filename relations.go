package store

import "context"

// Cardinality describes which side of a relation holds the key.
type Cardinality int

const (
	// One is a many-to-one relation: the source record carries a foreign
	// key pointing at a single record in the target collection.
	One Cardinality = iota
	// Many is a one-to-many relation: records in the target collection
	// carry a foreign key pointing back at the source record.
	Many
)

// RelationStorage describes where the related rows live.
type RelationStorage int

const (
	// Joined relations are resolved with a lookup against the target
	// collection.
	Joined RelationStorage = iota
	// Inline relations are stored inside the source record itself, as a
	// JSON array under the relation name. Resolving them is a no-op.
	Inline
)

// Relation declares a resolvable link between two collections.
type Relation struct {
	// Target is the collection the relation points at.
	Target string
	// LocalField is the key on the source side. For One relations it is
	// the foreign key on the source record; for Many relations it is the
	// source primary key, normally "id".
	LocalField string
	// ForeignField is the key on the target side. For One relations it is
	// the target primary key; for Many relations it is the foreign key on
	// the target records.
	ForeignField string
	Cardinality  Cardinality
	Storage      RelationStorage
}

// RelationMap declares, per source collection, the relations that expand and
// embed can resolve, keyed by relation name. Names not present in the map are
// silently ignored at resolution time.
type RelationMap map[string]map[string]Relation

// Lookup returns the relation declared for the collection under name.
func (m RelationMap) Lookup(collection, name string) (Relation, bool) {
	rels, ok := m[collection]
	if !ok {
		return Relation{}, false
	}
	rel, ok := rels[name]
	return rel, ok
}

// BatchFetch loads all records from a target collection whose field value is
// one of keys. Implementations issue a single lookup for the whole batch.
type BatchFetch func(ctx context.Context, target, field string, keys []any) ([]Record, error)

// ExpandRelation attaches, under name, the single related record each source
// record points at. A record whose key matches nothing gets an explicit null;
// records without the key field are left untouched. One batched lookup is
// issued for the page; no lookup at all when records is empty or no record
// carries a key.
func ExpandRelation(ctx context.Context, records []Record, name string, rel Relation, fetch BatchFetch) error {
	if len(records) == 0 || rel.Storage == Inline {
		return nil
	}

	var keys []any
	seen := make(map[any]struct{})
	for _, rec := range records {
		v, ok := rec[rel.LocalField]
		if !ok || v == nil {
			continue
		}
		k := KeyOf(v)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, v)
	}
	if len(keys) == 0 {
		return nil
	}

	related, err := fetch(ctx, rel.Target, rel.ForeignField, keys)
	if err != nil {
		return err
	}

	byKey := make(map[any]Record, len(related))
	for _, r := range related {
		if v, ok := r[rel.ForeignField]; ok && v != nil {
			byKey[KeyOf(v)] = r
		}
	}

	for _, rec := range records {
		v, ok := rec[rel.LocalField]
		if !ok || v == nil {
			continue
		}
		if match, ok := byKey[KeyOf(v)]; ok {
			rec[name] = match
		} else {
			rec[name] = nil
		}
	}
	return nil
}

// EmbedRelation attaches, under name, the list of related records pointing at
// each source record. Every source record receives a list, empty when nothing
// matches. Inline relations already carry their rows and are left as-is. One
// batched lookup is issued for the page; none when records is empty.
func EmbedRelation(ctx context.Context, records []Record, name string, rel Relation, fetch BatchFetch) error {
	if len(records) == 0 {
		return nil
	}
	if rel.Storage == Inline {
		return nil
	}

	var keys []any
	seen := make(map[any]struct{})
	for _, rec := range records {
		v, ok := rec[rel.LocalField]
		if !ok || v == nil {
			continue
		}
		k := KeyOf(v)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, v)
	}
	if len(keys) == 0 {
		return nil
	}

	related, err := fetch(ctx, rel.Target, rel.ForeignField, keys)
	if err != nil {
		return err
	}

	grouped := make(map[any][]Record, len(records))
	for _, r := range related {
		if v, ok := r[rel.ForeignField]; ok && v != nil {
			k := KeyOf(v)
			grouped[k] = append(grouped[k], r)
		}
	}

	for _, rec := range records {
		v, ok := rec[rel.LocalField]
		if !ok || v == nil {
			continue
		}
		group := grouped[KeyOf(v)]
		if group == nil {
			group = []Record{}
		}
		rec[name] = group
	}
	return nil
}

// ResolveRelations applies the query's expand and embed lists to a page of
// records using the declared relation map. Undeclared names are skipped.
func ResolveRelations(ctx context.Context, collection string, records []Record, q *Query, relations RelationMap, fetch BatchFetch) error {
	if q == nil {
		return nil
	}
	for _, name := range q.Expand {
		rel, ok := relations.Lookup(collection, name)
		if !ok || rel.Cardinality != One {
			continue
		}
		if err := ExpandRelation(ctx, records, name, rel, fetch); err != nil {
			return err
		}
	}
	for _, name := range q.Embed {
		rel, ok := relations.Lookup(collection, name)
		if !ok || rel.Cardinality != Many {
			continue
		}
		if err := EmbedRelation(ctx, records, name, rel, fetch); err != nil {
			return err
		}
	}
	return nil
}
