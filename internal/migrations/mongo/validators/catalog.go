package validators

import "go.mongodb.org/mongo-driver/bson"

var LessonTypeValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "duration_minutes", "price", "active"},
		"additionalProperties": true,

		"properties": bson.M{
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 120,
			},
			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 2000,
			},
			"duration_minutes": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
				"maximum":  600,
			},
			"price": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},
			"price_student": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},
			"price_per_supervisor": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},
			"allows_supervisors": bson.M{"bsonType": "bool"},
			"active":             bson.M{"bsonType": "bool"},
		},
	},
}

var TeoriLessonTypeValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"allows_supervisors",
			"price",
			"duration_minutes",
			"max_participants",
			"active",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 120,
			},
			"allows_supervisors": bson.M{"bsonType": "bool"},
			"price": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},
			"price_per_supervisor": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},
			"duration_minutes": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
				"maximum":  600,
			},
			"max_participants": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
				"maximum":  500,
			},
			"active": bson.M{"bsonType": "bool"},
		},
	},
}

// TeoriSessionValidator keeps current_participants non-negative. The upper
// bound is enforced by the conditional update that reserves seats.
var TeoriSessionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"teori_lesson_type_id",
			"date",
			"start_time",
			"end_time",
			"max_participants",
			"current_participants",
			"active",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"teori_lesson_type_id": bson.M{"bsonType": "string"},
			"title": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},
			"date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},
			"start_time": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{2}:\d{2}$`,
			},
			"end_time": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{2}:\d{2}$`,
			},
			"max_participants": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
				"maximum":  500,
			},
			"current_participants": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},
			"active": bson.M{"bsonType": "bool"},
		},
	},
}
