package repository

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSearchFilter(t *testing.T) {
	filter := searchFilter("  erik  berg.s ")

	and, ok := filter["$and"].(bson.A)
	if !ok || len(and) != 2 {
		t.Fatalf("filter = %v, want two $and terms", filter)
	}

	second := and[1].(bson.M)["$or"].(bson.A)
	pattern := second[0].(bson.M)["first_name"].(primitive.Regex)
	if pattern.Pattern != `berg\.s` || pattern.Options != "i" {
		t.Errorf("pattern = %+v, want escaped case-insensitive regex", pattern)
	}
}

func TestSearchFilter_Empty(t *testing.T) {
	if filter := searchFilter("   "); len(filter) != 0 {
		t.Errorf("filter = %v, want empty", filter)
	}
}
