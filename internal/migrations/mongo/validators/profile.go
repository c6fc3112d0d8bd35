package validators

import "go.mongodb.org/mongo-driver/bson"

var ProfileValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"kind",
			"management_tier",
			"active",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},
			"kind": bson.M{
				"enum": []string{"talent", "agent", "professional", "booker"},
			},
			"management_tier": bson.M{
				"enum": []string{"none", "standard", "full"},
			},
			"active": bson.M{
				"bsonType": "bool",
			},
			"service_type": bson.M{
				"enum": []string{"photographer", "videographer", "marketing", "social_media"},
			},
			"max_concurrent_assignments": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},
			"open_assignments": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},
		},
	},
}
