package services

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Flatten converts a nested document into a single level of dotted-path
// keys (address.city). Nested documents recurse without a depth limit;
// nil becomes the empty string; arrays are kept as one column holding
// their JSON representation so column sets stay stable across records
// with different array lengths. Scalars, including timestamps and
// ObjectIDs, pass through untouched; the CSV encoder owns final
// stringification. Field order is preserved, which keeps downstream
// column ordering deterministic.
func Flatten(doc bson.D) bson.D {
	return appendFlattened(make(bson.D, 0, len(doc)), "", doc)
}

func appendFlattened(out bson.D, prefix string, doc bson.D) bson.D {
	for _, e := range doc {
		key := e.Key
		if prefix != "" {
			key = prefix + "." + e.Key
		}
		switch v := e.Value.(type) {
		case nil:
			out = append(out, bson.E{Key: key, Value: ""})
		case bson.D:
			out = appendFlattened(out, key, v)
		case bson.A:
			out = append(out, bson.E{Key: key, Value: jsonArrayString(v)})
		default:
			out = append(out, bson.E{Key: key, Value: v})
		}
	}
	return out
}

func jsonArrayString(a bson.A) string {
	b, err := json.Marshal(ToPlain(a))
	if err != nil {
		return "[]"
	}
	return string(b)
}

// ToPlain rewrites bson-specific values into plain JSON-friendly Go
// values: documents become maps, arrays become slices, BSON datetimes
// become time.Time and ObjectIDs their hex form.
func ToPlain(v interface{}) interface{} {
	switch t := v.(type) {
	case bson.D:
		m := make(map[string]interface{}, len(t))
		for _, e := range t {
			m[e.Key] = ToPlain(e.Value)
		}
		return m
	case bson.A:
		s := make([]interface{}, len(t))
		for i, e := range t {
			s[i] = ToPlain(e)
		}
		return s
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.ObjectID:
		return t.Hex()
	case primitive.Decimal128:
		return t.String()
	default:
		return v
	}
}
