package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"talent_id",
			"booker_id",
			"event_title",
			"event_start",
			"event_end",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"talent_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"booker_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"event_title": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"event_start": bson.M{
				"bsonType": "date",
			},

			"event_end": bson.M{
				"bsonType": "date",
			},

			"talent_fee": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"status": bson.M{
				"enum": []string{"pending", "under_review", "confirmed", "rejected", "cancelled"},
			},

			"workflow": bson.M{
				"bsonType": "object",
				"required": []string{"current_stage", "steps", "version"},

				"properties": bson.M{
					"current_stage": bson.M{
						"enum": []string{"technical_review", "admin_review", "final_approval", "approved", "rejected"},
					},
					"steps": bson.M{
						"bsonType": "array",
						"maxItems": 3,
					},
					"version": bson.M{
						"bsonType": []string{"int", "long"},
						"minimum":  0,
					},
				},
			},

			"production": bson.M{
				"bsonType": "object",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
