package models

import (
	"errors"
	"testing"
)

func TestNormalizeKind(t *testing.T) {
	cases := map[string]string{
		"staff":     KindStaff,
		"service":   KindStaff,
		"item":      KindItem,
		"transport": KindTransport,
		"misc":      KindMisc,
		"":          KindMisc,
	}
	for input, want := range cases {
		got, err := NormalizeKind(input)
		if err != nil {
			t.Fatalf("NormalizeKind(%q): %v", input, err)
		}
		if got != want {
			t.Errorf("NormalizeKind(%q) = %q, want %q", input, got, want)
		}
	}

	_, err := NormalizeKind("cargo")
	var invalid *ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError for unknown kind, got %v", err)
	}
}

func TestNormalizeMetadataRejectsUnknownFields(t *testing.T) {
	_, err := NormalizeMetadata(KindStaff, map[string]interface{}{
		"first_name": "Ada",
		"shoe_size":  42,
	})
	var invalid *ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if invalid.Field != "shoe_size" {
		t.Fatalf("error names field %q, want shoe_size", invalid.Field)
	}
}

func TestNormalizeMetadataFillsDefaults(t *testing.T) {
	out, err := NormalizeMetadata(KindItem, map[string]interface{}{"name": "bolt"})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out["name"] != "bolt" {
		t.Errorf("name = %v, want bolt", out["name"])
	}
	if out["stock"] != float64(0) {
		t.Errorf("stock default = %v, want 0", out["stock"])
	}
	if out["upc"] != "" || out["vendor"] != "" || out["vendor_contact"] != "" {
		t.Error("string defaults not filled")
	}
	if out[MetadataTypeKey] != KindItem {
		t.Errorf("type tag = %v, want item", out[MetadataTypeKey])
	}
}

func TestNormalizeMetadataIgnoresInputTypeKey(t *testing.T) {
	out, err := NormalizeMetadata(KindTransport, map[string]interface{}{
		"type":   "staff",
		"method": "barge",
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out[MetadataTypeKey] != KindTransport {
		t.Fatalf("type tag = %v, want transport", out[MetadataTypeKey])
	}
}

func TestNormalizeMetadataWaypoints(t *testing.T) {
	out, err := NormalizeMetadata(KindTransport, map[string]interface{}{
		"waypoints": []interface{}{
			map[string]interface{}{"address": "Pier 7", "lat": 47.6, "long": -122.3},
		},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	points, ok := out["waypoints"].([]interface{})
	if !ok || len(points) != 1 {
		t.Fatalf("waypoints = %v", out["waypoints"])
	}

	_, err = NormalizeMetadata(KindTransport, map[string]interface{}{
		"waypoints": []interface{}{
			map[string]interface{}{"address": "Pier 7", "speed": 12},
		},
	})
	var invalid *ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError for unknown waypoint field, got %v", err)
	}

	_, err = NormalizeMetadata(KindTransport, map[string]interface{}{
		"waypoints": "Pier 7",
	})
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError for non-list waypoints, got %v", err)
	}
}

func TestNormalizeMetadataMiscAllowsNoFields(t *testing.T) {
	out, err := NormalizeMetadata(KindMisc, nil)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(out) != 1 || out[MetadataTypeKey] != KindMisc {
		t.Fatalf("misc metadata = %v, want only the type tag", out)
	}

	if _, err := NormalizeMetadata(KindMisc, map[string]interface{}{"note": "x"}); err == nil {
		t.Fatal("misc metadata should reject arbitrary fields")
	}
}

func TestUnitsForKind(t *testing.T) {
	if UnitsForKind(KindStaff) != "hour" {
		t.Error("staff units")
	}
	if UnitsForKind(KindTransport) != "mile" {
		t.Error("transport units")
	}
	if UnitsForKind(KindItem) != "unit" || UnitsForKind(KindMisc) != "unit" {
		t.Error("fallback units")
	}
}
