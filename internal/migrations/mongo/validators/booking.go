package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"mode",
			"supervisors",
			"total_price",
			"payment_method",
			"payment_status",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"mode": bson.M{
				"enum": []string{"lesson", "teori"},
			},

			"lesson_type_id":       bson.M{"bsonType": "string"},
			"teori_lesson_type_id": bson.M{"bsonType": "string"},
			"teori_session_id":     bson.M{"bsonType": "string"},

			"date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"time": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{2}:\d{2}$`,
			},

			"transmission": bson.M{
				"enum": []string{"manual", "automatic"},
			},

			"guest": bson.M{
				"bsonType": "object",
				"required": []string{"first_name", "last_name"},
			},

			"supervisors": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"name"},
				},
			},

			"total_price": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"payment_method": bson.M{
				"enum": []string{"pending", "swish", "qliro", "credits"},
			},

			"payment_status": bson.M{
				"enum": []string{"pending", "paid", "failed"},
			},

			"status": bson.M{
				"enum": []string{"pending", "confirmed", "cancelled"},
			},

			"submission_key": bson.M{
				"bsonType":  "string",
				"maxLength": 100,
			},

			"created_at": bson.M{"bsonType": "date"},
			"updated_at": bson.M{"bsonType": "date"},
		},
	},
}

var BookingLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "expires_at", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"_id":        bson.M{"bsonType": "string"},
			"expires_at": bson.M{"bsonType": "date"},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
