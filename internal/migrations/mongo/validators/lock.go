package validators

import "go.mongodb.org/mongo-driver/bson"

var SlotLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"pro_id",
			"user_id",
			"slot_start",
			"slot_end",
			"ttl",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			// Deterministic "<pro_id>_<unix start>" key, so the unique _id
			// index doubles as the one-hold-per-slot constraint.
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 3,
			},

			"pro_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"slot_start": bson.M{
				"bsonType": "date",
			},

			"slot_end": bson.M{
				"bsonType": "date",
			},

			"ttl": bson.M{
				"bsonType": "date",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
