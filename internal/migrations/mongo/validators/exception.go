package validators

import "go.mongodb.org/mongo-driver/bson"

var ExceptionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"pro_id",
			"date",
			"closed",
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

			"date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"closed": bson.M{
				"bsonType": "bool",
			},

			"windows": bson.M{
				"bsonType": "array",
				"maxItems": 10,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"start", "end"},
					"properties": bson.M{
						"start": bson.M{"bsonType": "string"},
						"end":   bson.M{"bsonType": "string"},
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
