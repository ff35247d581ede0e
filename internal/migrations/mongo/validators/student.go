package validators

import "go.mongodb.org/mongo-driver/bson"

var StudentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"first_name",
			"last_name",
			"email",
			"phone",
			"personal_number",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"first_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},
			"last_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},
			"email": bson.M{
				"bsonType":  "string",
				"maxLength": 254,
			},
			"phone": bson.M{
				"bsonType":  "string",
				"maxLength": 20,
			},
			"personal_number": bson.M{
				"bsonType": "string",
				"pattern":  `^(\d{6}|\d{8})[-+]?\d{4}$`,
			},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
