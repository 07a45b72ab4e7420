package services_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/trahoangdev/kureno-sub000/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEncodeCSVEmptyInput(t *testing.T) {
	assert.Equal(t, "", services.EncodeCSV(nil))
	assert.Equal(t, "", services.EncodeCSV([]bson.D{}))
}

func TestEncodeCSVHeaderAndRows(t *testing.T) {
	records := []bson.D{
		{{Key: "name", Value: "Mug"}, {Key: "price", Value: 12.5}},
		{{Key: "name", Value: "Plate"}, {Key: "price", Value: 30.0}},
	}

	out := services.EncodeCSV(records)
	lines := strings.Split(out, "\n")

	assert.Len(t, lines, 3)
	assert.Equal(t, "name,price", lines[0])
	assert.Equal(t, "Mug,12.5", lines[1])
	assert.Equal(t, "Plate,30", lines[2])
}

// Every record contributes columns; records missing a field render an
// empty cell under it.
func TestEncodeCSVColumnUnion(t *testing.T) {
	records := []bson.D{
		{{Key: "name", Value: "Mug"}},
		{{Key: "name", Value: "Plate"}, {Key: "brand", Value: "Kureno"}},
	}

	out := services.EncodeCSV(records)
	lines := strings.Split(out, "\n")

	assert.Equal(t, "name,brand", lines[0])
	assert.Equal(t, "Mug,", lines[1])
	assert.Equal(t, "Plate,Kureno", lines[2])
}

func TestEncodeCSVQuoting(t *testing.T) {
	records := []bson.D{
		{{Key: "customer", Value: "Smith, John"}, {Key: "note", Value: `says "hi"`}},
	}

	out := services.EncodeCSV(records)
	lines := strings.Split(out, "\n")

	assert.Equal(t, `"Smith, John","says ""hi"""`, lines[1])
}

func TestEncodeCSVScalarFormats(t *testing.T) {
	oid := primitive.NewObjectID()
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	records := []bson.D{{
		{Key: "_id", Value: oid},
		{Key: "created_at", Value: primitive.NewDateTimeFromTime(ts)},
		{Key: "count", Value: int64(7)},
		{Key: "active", Value: true},
	}}

	out := services.EncodeCSV(records)
	lines := strings.Split(out, "\n")

	assert.Equal(t, oid.Hex()+",2026-01-02T03:04:05Z,7,true", lines[1])
}

func TestEncodeCSVNoTrailingNewline(t *testing.T) {
	out := services.EncodeCSV([]bson.D{{{Key: "a", Value: "x"}}})
	assert.False(t, strings.HasSuffix(out, "\n"))
}
