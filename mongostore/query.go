package mongostore

import (
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sen-heritage/store"
	"github.com/sen-heritage/store/schema"
)

// Documents are stored with application (camelCase) field names, so only the
// primary key needs renaming: id in the contract, _id in the database.

func fieldName(field string) string {
	if field == "id" {
		return "_id"
	}
	return field
}

// compileFilters translates the descriptor's filters plus free-text search
// into a find filter document.
func compileFilters(filters []store.Filter, search string) bson.M {
	out := bson.M{}
	var clauses []bson.M

	for _, f := range filters {
		name := fieldName(f.Field)
		switch f.Op {
		case store.OpEq:
			clauses = append(clauses, bson.M{name: f.Value})
		case store.OpNe:
			clauses = append(clauses, bson.M{name: bson.M{"$ne": f.Value}})
		case store.OpGte:
			clauses = append(clauses, bson.M{name: bson.M{"$gte": f.Value}})
		case store.OpLte:
			clauses = append(clauses, bson.M{name: bson.M{"$lte": f.Value}})
		case store.OpLike:
			clauses = append(clauses, bson.M{name: substringRegex(fmt.Sprintf("%v", f.Value))})
		case store.OpIn:
			values := store.InValues(f.Value)
			// $in with an empty array matches nothing, which is the
			// behavior the contract asks for
			clauses = append(clauses, bson.M{name: bson.M{"$in": values}})
		}
	}

	if search != "" {
		var or []bson.M
		for _, field := range schema.SearchColumns() {
			or = append(or, bson.M{field: substringRegex(search)})
		}
		clauses = append(clauses, bson.M{"$or": or})
	}

	switch len(clauses) {
	case 0:
		return out
	case 1:
		return clauses[0]
	default:
		return bson.M{"$and": clauses}
	}
}

func substringRegex(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}

// compileSort builds the sort document, newest first by default.
func compileSort(orders []store.Order) bson.D {
	if len(orders) == 0 {
		return bson.D{{Key: "createdAt", Value: -1}}
	}
	out := make(bson.D, len(orders))
	for i, o := range orders {
		dir := 1
		if o.Desc {
			dir = -1
		}
		out[i] = bson.E{Key: fieldName(o.Field), Value: dir}
	}
	return out
}

// decodeDocument converts a decoded BSON document to an application record:
// _id becomes id, BSON datetimes become time.Time, arrays and nested
// documents become plain Go slices and maps.
func decodeDocument(doc bson.M) store.Record {
	rec := make(store.Record, len(doc))
	for key, val := range doc {
		if key == "_id" {
			rec["id"] = decodeValue(val)
			continue
		}
		rec[key] = decodeValue(val)
	}
	return rec
}

func decodeValue(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.A:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = decodeValue(item)
		}
		return out
	case bson.M:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = decodeValue(item)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = decodeValue(e.Value)
		}
		return out
	case int32:
		return int64(t)
	default:
		return v
	}
}

// encodeRecord converts an application record to a document for insertion or
// update. The id key becomes _id; everything else passes through, the BSON
// encoder handles time.Time natively.
func encodeRecord(rec store.Record) bson.M {
	doc := make(bson.M, len(rec))
	for key, val := range rec {
		doc[fieldName(key)] = val
	}
	return doc
}
