package validators

import "go.mongodb.org/mongo-driver/bson"

var AgentAssignmentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"booking_id",
			"agent_id",
			"talent_id",
			"status",
			"commission_rate",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},
			"booking_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},
			"agent_id": bson.M{
				"bsonType": "string",
			},
			"status": bson.M{
				"enum": []string{"pending", "assigned", "counter_offered", "confirmed", "cancelled"},
			},
			"commission_rate": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
				"maximum":  1,
			},
		},
	},
}

var ServiceAssignmentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"booking_id",
			"professional_id",
			"service_type",
			"status",
			"assigned_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},
			"booking_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},
			"service_type": bson.M{
				"enum": []string{"photographer", "videographer", "marketing", "social_media"},
			},
			"assigned_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var AttachmentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"booking_id",
			"doc_type",
			"category",
			"file_name",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"booking_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},
			"doc_type": bson.M{
				"bsonType": "string",
			},
			"content": bson.M{
				"bsonType": "binData",
			},
		},
	},
}
