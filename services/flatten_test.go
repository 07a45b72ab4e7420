package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/trahoangdev/kureno-sub000/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFlattenNestedDocument(t *testing.T) {
	doc := bson.D{
		{Key: "a", Value: int32(1)},
		{Key: "b", Value: bson.D{
			{Key: "c", Value: int32(2)},
			{Key: "d", Value: bson.A{int32(1), int32(2), int32(3)}},
		}},
	}

	flat := services.Flatten(doc)

	assert.Equal(t, bson.D{
		{Key: "a", Value: int32(1)},
		{Key: "b.c", Value: int32(2)},
		{Key: "b.d", Value: "[1,2,3]"},
	}, flat)
}

func TestFlattenPreservesFieldOrder(t *testing.T) {
	doc := bson.D{
		{Key: "z", Value: "last-stored-first"},
		{Key: "m", Value: bson.D{{Key: "x", Value: true}, {Key: "a", Value: false}}},
		{Key: "a", Value: "first-stored-last"},
	}

	flat := services.Flatten(doc)

	keys := make([]string, len(flat))
	for i, e := range flat {
		keys[i] = e.Key
	}
	assert.Equal(t, []string{"z", "m.x", "m.a", "a"}, keys)
}

func TestFlattenNilBecomesEmptyString(t *testing.T) {
	flat := services.Flatten(bson.D{{Key: "gone", Value: nil}})
	assert.Equal(t, bson.D{{Key: "gone", Value: ""}}, flat)
}

func TestFlattenDeepNesting(t *testing.T) {
	doc := bson.D{
		{Key: "address", Value: bson.D{
			{Key: "geo", Value: bson.D{
				{Key: "lat", Value: 10.5},
			}},
		}},
	}
	flat := services.Flatten(doc)
	assert.Equal(t, bson.D{{Key: "address.geo.lat", Value: 10.5}}, flat)
}

func TestFlattenArrayOfDocuments(t *testing.T) {
	doc := bson.D{
		{Key: "items", Value: bson.A{
			bson.D{{Key: "sku", Value: "A-1"}, {Key: "qty", Value: int32(2)}},
		}},
	}
	flat := services.Flatten(doc)
	assert.Equal(t, bson.D{{Key: "items", Value: `[{"qty":2,"sku":"A-1"}]`}}, flat)
}

func TestToPlainConvertsBSONTypes(t *testing.T) {
	oid := primitive.NewObjectID()
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	plain := services.ToPlain(bson.D{
		{Key: "_id", Value: oid},
		{Key: "created_at", Value: primitive.NewDateTimeFromTime(ts)},
		{Key: "tags", Value: bson.A{"a", "b"}},
	})

	assert.Equal(t, map[string]interface{}{
		"_id":        oid.Hex(),
		"created_at": ts,
		"tags":       []interface{}{"a", "b"},
	}, plain)
}
