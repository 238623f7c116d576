package models

import (
	"gorm.io/datatypes"
)

// SKU kinds. "service" is accepted as an input alias for staff; the stored
// tag is always one of these four.
const (
	KindStaff     = "staff"
	KindItem      = "item"
	KindTransport = "transport"
	KindMisc      = "misc"
)

// MetadataTypeKey is the discriminant key inside SKU.Metadata.
const MetadataTypeKey = "type"

// skuSchemas whitelists the metadata fields of each kind and carries their
// defaults. A nil default means "no default, omit when absent".
var skuSchemas = map[string]map[string]interface{}{
	KindStaff: {
		"first_name":           "",
		"last_name":            "",
		"billing_address":      "",
		"mailing_address":      "",
		"phone_number":         "",
		"email":                "",
		"affiliate_client_ids": []interface{}{},
	},
	KindItem: {
		"name":           "",
		"stock":          float64(0),
		"upc":            "",
		"vendor":         "",
		"vendor_contact": "",
	},
	KindTransport: {
		"method":         "",
		"vendor":         "",
		"vendor_contact": "",
		"driver_contact": "",
		"waypoints":      []interface{}{},
	},
	KindMisc: {},
}

// waypointFields whitelists the entries of a transport waypoint.
var waypointFields = map[string]bool{
	"address":   true,
	"lat":       true,
	"long":      true,
	"timestamp": true,
}

// NormalizeKind maps input aliases onto stored kinds. Empty input means misc.
func NormalizeKind(kind string) (string, error) {
	switch kind {
	case "service", KindStaff:
		return KindStaff, nil
	case KindItem, KindTransport, KindMisc:
		return kind, nil
	case "":
		return KindMisc, nil
	}
	return "", &ValidationError{Field: "kind", Reason: "unknown SKU kind " + kind}
}

// UnitsForKind returns the default units string of a kind.
func UnitsForKind(kind string) string {
	switch kind {
	case KindStaff:
		return "hour"
	case KindTransport:
		return "mile"
	}
	return "unit"
}

// NormalizeMetadata validates typeData against the schema of kind and returns
// the metadata map to store. Unknown fields are rejected, missing fields get
// the schema default, and the stored type tag always comes from kind; a
// conflicting "type" key in the input is ignored.
func NormalizeMetadata(kind string, typeData map[string]interface{}) (datatypes.JSONMap, error) {
	schema, ok := skuSchemas[kind]
	if !ok {
		return nil, &ValidationError{Field: "kind", Reason: "unknown SKU kind " + kind}
	}

	out := datatypes.JSONMap{}
	for key, value := range typeData {
		if key == MetadataTypeKey {
			continue
		}
		if _, allowed := schema[key]; !allowed {
			return nil, &ValidationError{Field: key, Reason: "field not allowed for " + kind + " metadata"}
		}
		if kind == KindTransport && key == "waypoints" {
			points, err := normalizeWaypoints(value)
			if err != nil {
				return nil, err
			}
			out[key] = points
			continue
		}
		out[key] = value
	}
	for key, def := range schema {
		if _, present := out[key]; !present {
			out[key] = def
		}
	}
	out[MetadataTypeKey] = kind
	return out, nil
}

func normalizeWaypoints(value interface{}) ([]interface{}, error) {
	raw, ok := value.([]interface{})
	if !ok {
		return nil, &ValidationError{Field: "waypoints", Reason: "must be a list"}
	}
	points := make([]interface{}, 0, len(raw))
	for _, entry := range raw {
		point, ok := entry.(map[string]interface{})
		if !ok {
			return nil, &ValidationError{Field: "waypoints", Reason: "each waypoint must be an object"}
		}
		for key := range point {
			if !waypointFields[key] {
				return nil, &ValidationError{Field: "waypoints." + key, Reason: "field not allowed in waypoint"}
			}
		}
		points = append(points, point)
	}
	return points, nil
}
