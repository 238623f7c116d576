package models

import (
	"errors"
	"testing"

	"gorm.io/datatypes"
)

func TestVesselMmsiLimit(t *testing.T) {
	db := openTestDB(t)

	client := Client{Company: "Pier Nine"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("create client: %v", err)
	}

	vessel := Vessel{Name: "Meridian", Mmsi: "366123456", ClientID: client.Uid}
	if err := db.Create(&vessel).Error; err != nil {
		t.Fatalf("create vessel: %v", err)
	}

	long := Vessel{Name: "Too Long", Mmsi: "3661234567", ClientID: client.Uid}
	err := db.Create(&long).Error
	var invalid *ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError for long mmsi, got %v", err)
	}
}

func TestContactFullname(t *testing.T) {
	cases := []struct {
		first, last, want string
	}{
		{"Ada", "Byron", "Ada Byron"},
		{"Ada", "", "Ada"},
		{"", "Byron", "Byron"},
		{"", "", ""},
	}
	for _, c := range cases {
		contact := Contact{FirstName: c.first, LastName: c.last}
		if got := contact.Fullname(); got != c.want {
			t.Errorf("Fullname(%q, %q) = %q, want %q", c.first, c.last, got, c.want)
		}
	}
}

func TestConnectContactsIsSymmetric(t *testing.T) {
	db := openTestDB(t)

	a := Contact{FirstName: "Ada"}
	b := Contact{FirstName: "Grace"}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("create contact: %v", err)
	}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("create contact: %v", err)
	}

	if err := ConnectContacts(db, a.Uid, b.Uid); err != nil {
		t.Fatalf("connect contacts: %v", err)
	}
	for _, pair := range [][2]string{{a.Uid, "Grace"}, {b.Uid, "Ada"}} {
		connections, err := ContactConnections(db, pair[0])
		if err != nil {
			t.Fatalf("connections: %v", err)
		}
		if len(connections) != 1 || connections[0].FirstName != pair[1] {
			t.Fatalf("connection not symmetric for %s", pair[0])
		}
	}
}

func TestTaskStateValueCheckOnly(t *testing.T) {
	db := openTestDB(t)

	client := Client{Company: "North Dock"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("create client: %v", err)
	}
	task := Task{ClientID: client.Uid}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("create task: %v", err)
	}

	// Terminal states are re-enterable.
	for _, state := range []int{TaskProcessed, TaskInProgress, TaskRejected, TaskReceived} {
		if err := task.SetState(db, state); err != nil {
			t.Fatalf("set state %d: %v", state, err)
		}
	}
	err := task.SetState(db, 5)
	var invalid *ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError for unknown state, got %v", err)
	}
	if TaskStateName(TaskInProgress) != "in_progress" {
		t.Fatalf("unexpected state name %q", TaskStateName(TaskInProgress))
	}
}

func TestAttachmentRequiresExistingOwner(t *testing.T) {
	db := openTestDB(t)

	_, err := CreateAttachment(db, KindClientEntity, "missing", "doc.pdf", "/tmp/doc.pdf", nil)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	client := Client{Company: "Slipway Ltd"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("create client: %v", err)
	}
	attachment, err := CreateAttachment(db, KindClientEntity, client.Uid, "doc.pdf", "/tmp/doc.pdf",
		datatypes.JSONMap{"source": "upload"})
	if err != nil {
		t.Fatalf("create attachment: %v", err)
	}

	listed, err := AttachmentsFor(db, KindClientEntity, client.Uid)
	if err != nil {
		t.Fatalf("list attachments: %v", err)
	}
	if len(listed) != 1 || listed[0].Uid != attachment.Uid {
		t.Fatalf("attachment listing wrong: %d rows", len(listed))
	}
}

func TestRenderFormRecordsFields(t *testing.T) {
	db := openTestDB(t)

	client := Client{Company: "Crane Co"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("create client: %v", err)
	}
	template := FormTemplate{Name: "customs", FilePath: "/tmp/customs.pdf"}
	if err := db.Create(&template).Error; err != nil {
		t.Fatalf("create template: %v", err)
	}

	form, err := RenderForm(db, template.Uid, client.Uid,
		datatypes.JSONMap{"port": "Seattle"}, "/tmp/out.pdf")
	if err != nil {
		t.Fatalf("render form: %v", err)
	}
	if form.Fields["port"] != "Seattle" || *form.TemplateID != template.Uid {
		t.Fatalf("rendered form fields wrong: %v", form.Fields)
	}

	_, err = RenderForm(db, template.Uid, "missing", nil, "/tmp/out.pdf")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError for missing client, got %v", err)
	}
}
