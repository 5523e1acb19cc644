package schema

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	emailPattern = `^[^@\s]+@[^@\s]+$`
	urlPattern   = `^https?://`
)

// JSONSchema renders s as a MongoDB $jsonSchema collection validator so the
// store rejects documents written outside this service too.
func (s *Schema) JSONSchema() bson.M {
	required := []string{}
	properties := bson.M{
		// Seeded documents may carry their own string ids.
		"_id": bson.M{"bsonType": []string{"objectId", "string"}},
	}

	for _, field := range s.Fields {
		if field.Required {
			required = append(required, field.Name)
		}
		properties[field.Name] = fieldSchema(field)
	}

	body := bson.M{
		"bsonType":             "object",
		"additionalProperties": true,
		"properties":           properties,
	}
	if len(required) > 0 {
		body["required"] = required
	}
	return bson.M{"$jsonSchema": body}
}

func fieldSchema(field Field) bson.M {
	prop := bson.M{}
	switch field.Kind {
	case KindString:
		prop["bsonType"] = "string"
	case KindInteger:
		prop["bsonType"] = []string{"int", "long"}
	case KindNumber:
		prop["bsonType"] = []string{"double", "int", "long", "decimal"}
	case KindBoolean:
		prop["bsonType"] = "bool"
	case KindStringList:
		prop["bsonType"] = "array"
		prop["items"] = bson.M{"bsonType": "string"}
	}

	for name, param := range parseRules(field.Rules) {
		switch name {
		case "min":
			if n, err := strconv.Atoi(param); err == nil {
				prop[lengthKey(field.Kind, "min")] = n
			}
		case "max":
			if n, err := strconv.Atoi(param); err == nil {
				prop[lengthKey(field.Kind, "max")] = n
			}
		case "gte":
			if n, err := strconv.ParseFloat(param, 64); err == nil {
				prop["minimum"] = n
			}
		case "lte":
			if n, err := strconv.ParseFloat(param, 64); err == nil {
				prop["maximum"] = n
			}
		case "email":
			prop["pattern"] = emailPattern
		case "http_url", "url":
			prop["pattern"] = urlPattern
		}
	}
	return prop
}

func lengthKey(kind Kind, bound string) string {
	if kind == KindStringList {
		return bound + "Items"
	}
	return bound + "Length"
}

func parseRules(rules string) map[string]string {
	out := map[string]string{}
	for _, part := range strings.Split(rules, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, param, _ := strings.Cut(part, "=")
		out[name] = param
	}
	return out
}
