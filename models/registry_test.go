package models

import (
	"errors"
	"testing"

	"gorm.io/datatypes"
)

func TestLookupEntity(t *testing.T) {
	db := openTestDB(t)

	client := Client{Company: "Tidewater Freight"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("create client: %v", err)
	}

	got, err := LookupEntity(db, EntityRef{Kind: KindClientEntity, UID: client.Uid})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.(*Client).Company != "Tidewater Freight" {
		t.Fatalf("lookup returned wrong row")
	}

	_, err = LookupEntity(db, EntityRef{Kind: KindClientEntity, UID: "missing"})
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	_, err = LookupEntity(db, EntityRef{Kind: "barnacle", UID: client.Uid})
	var invalid *ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError for unknown kind, got %v", err)
	}
}

func TestSetEntityMetadataUpdateMerges(t *testing.T) {
	db := openTestDB(t)

	client := Client{Company: "Harbor Services", Metadata: datatypes.JSONMap{"tier": "gold", "region": "north"}}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("create client: %v", err)
	}

	out, err := SetEntityMetadata(db, EntityRef{Kind: KindClientEntity, UID: client.Uid},
		datatypes.JSONMap{"tier": "silver", "terms": "net30"}, MetadataUpdate)
	if err != nil {
		t.Fatalf("set metadata: %v", err)
	}
	if out["tier"] != "silver" || out["region"] != "north" || out["terms"] != "net30" {
		t.Fatalf("merge result = %v", out)
	}

	reloaded, err := GetClient(db, client.Uid)
	if err != nil {
		t.Fatalf("reload client: %v", err)
	}
	if reloaded.Metadata["region"] != "north" || reloaded.Metadata["tier"] != "silver" {
		t.Fatalf("stored metadata = %v", reloaded.Metadata)
	}
}

func TestSetEntityMetadataReplaceDiscards(t *testing.T) {
	db := openTestDB(t)

	client := Client{Company: "Quay Co", Metadata: datatypes.JSONMap{"tier": "gold"}}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("create client: %v", err)
	}

	out, err := SetEntityMetadata(db, EntityRef{Kind: KindClientEntity, UID: client.Uid},
		datatypes.JSONMap{"terms": "net30"}, MetadataReplace)
	if err != nil {
		t.Fatalf("set metadata: %v", err)
	}
	if _, kept := out["tier"]; kept {
		t.Fatal("replace kept an old key")
	}
	if out["terms"] != "net30" {
		t.Fatalf("replace result = %v", out)
	}
}

func TestSetEntityMetadataRejectsKindsWithoutMetadata(t *testing.T) {
	db := openTestDB(t)

	_, err := SetEntityMetadata(db, EntityRef{Kind: KindLineItemEntity, UID: "any"},
		datatypes.JSONMap{"k": "v"}, MetadataUpdate)
	var invalid *ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestValidEntityKind(t *testing.T) {
	for _, kind := range []string{"client", "contact", "vessel", "task", "job", "sku", "invoice", "line_item", "credit", "form_template", "rendered_form"} {
		if !ValidEntityKind(kind) {
			t.Errorf("%s should be a valid kind", kind)
		}
	}
	if ValidEntityKind("barnacle") {
		t.Error("unknown kind accepted")
	}
}
