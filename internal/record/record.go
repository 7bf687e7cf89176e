// Package record holds the data model shared across the application:
// the Record itself, the Schema that describes an entity type, and the
// pure operations (filter, lookup, validate) that work on a collection of
// records. Keeping them in one place prevents import cycles — handlers and
// storage backends can all import record without depending on each other.
//
// There is no Animal struct and no Zookeeper struct. Both entity types are
// described by a Schema value, and every operation is written once against
// that description.
package record

import (
	"encoding/json"
	"fmt"
)

// IDField is the key under which every record stores its identifier.
const IDField = "id"

// Record is one entity instance as it appears on the wire and on disk:
// a JSON object. Fields that are not part of the schema are preserved.
type Record map[string]any

// ID returns the record's identifier, or "" when it has none.
func (r Record) ID() string {
	id, _ := r[IDField].(string)
	return id
}

// Clone returns a shallow copy of r. Nested values are shared; records are
// never mutated after they are stored, so sharing them is safe.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// FindByID returns the first record whose id equals the given string.
// Ids are unique because collections are append-only, so "first" and
// "only" coincide in practice.
func FindByID(id string, records []Record) (Record, bool) {
	for _, r := range records {
		if r.ID() == id {
			return r, true
		}
	}
	return nil, false
}

// ─────────────────────────────────────────────────────────────────────────────
// MarshalCollection encodes records in the durable envelope shape:
//
//	{
//	  "animals": [ { ... }, { ... } ]
//	}
//
// Output is indented with two spaces so the file stays readable by hand.
// A nil slice is written as [] (not null).
// ─────────────────────────────────────────────────────────────────────────────
func MarshalCollection(schema Schema, records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(map[string][]Record{schema.Collection: records}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", schema.Collection, err)
	}
	return data, nil
}

// UnmarshalCollection decodes the envelope written by MarshalCollection.
// A document without the collection key yields an empty collection.
func UnmarshalCollection(schema Schema, data []byte) ([]Record, error) {
	var doc map[string][]Record
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", schema.Collection, err)
	}
	records := doc[schema.Collection]
	if records == nil {
		records = []Record{}
	}
	return records, nil
}
