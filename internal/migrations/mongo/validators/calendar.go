package validators

import "go.mongodb.org/mongo-driver/bson"

var CalendarValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"time_zone",
			"step_min",
			"max_advance_days",
			"weekly",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"label": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"time_zone": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"step_min": bson.M{
				"bsonType": "int",
				"minimum":  5,
				"maximum":  120,
			},

			"max_advance_days": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  365,
			},

			"weekly": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": []string{"start", "end"},
						"properties": bson.M{
							"start": bson.M{"bsonType": "string"},
							"end":   bson.M{"bsonType": "string"},
						},
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
