package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"pro_id",
			"user_id",
			"slot_start",
			"slot_end",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
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

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending_payment",
					"confirmed",
					"cancelled",
					"completed",
				},
			},

			"refund_amount": bson.M{
				"bsonType": "long",
				"minimum":  0,
			},

			"penalty_amount": bson.M{
				"bsonType": "long",
				"minimum":  0,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
