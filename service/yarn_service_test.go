package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"yarn_inventory/db"
	"yarn_inventory/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func ptr[T any](v T) *T { return &v }

func newTestService(t *testing.T) (*YarnService, *gorm.DB) {
	t.Helper()
	conn := db.NewTestDB(t)
	return NewYarnService(db.NewRepo(conn), nil), conn
}

func validInput(brand, color string) models.YarnInput {
	return models.YarnInput{
		UserID:      ptr(int64(1)),
		Brand:       ptr(brand),
		Name:        ptr("Super Saver"),
		Color:       ptr(color),
		Count:       ptr(3),
		StartLen:    ptr(decimal.RequireFromString("364")),
		StartWeight: ptr(decimal.RequireFromString("198.5")),
		CurrWeight:  ptr(decimal.RequireFromString("120.25")),
		UPC:         ptr("073650012345"),
	}
}

// steppingClock returns increasing timestamps one minute apart.
func steppingClock() func() time.Time {
	t := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func TestCreateAndGet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in := validInput("Red Heart", "Cherry")
	id, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}

	got, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Brand != "Red Heart" || got.Name != "Super Saver" {
		t.Errorf("unexpected brand/name %q/%q", got.Brand, got.Name)
	}
	if got.Color == nil || *got.Color != "Cherry" {
		t.Errorf("expected color Cherry, got %v", got.Color)
	}
	if got.Count == nil || *got.Count != 3 {
		t.Errorf("expected count 3, got %v", got.Count)
	}
	if !got.StartLen.Equal(*in.StartLen) || !got.StartWeight.Equal(*in.StartWeight) || !got.CurrWeight.Equal(*in.CurrWeight) {
		t.Errorf("measurements differ: %s %s %s", got.StartLen, got.StartWeight, got.CurrWeight)
	}
	if got.Status == nil || *got.Status != models.YarnStatusActive {
		t.Errorf("expected status active, got %v", got.Status)
	}
	if got.Deleted || got.DeletedWhen != nil {
		t.Error("new item should not be deleted")
	}
	if got.DateAdded.IsZero() {
		t.Error("expected date_added to be set")
	}
}

func TestCreateDefaultsOptionalFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in := validInput("Lion Brand", "")
	in.Count = nil
	in.UPC = nil
	in.Status = ptr("")
	id, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, _ := svc.Get(ctx, id)
	if got.Color != nil || got.Count != nil || got.UPC != nil {
		t.Errorf("expected null optionals, got color=%v count=%v upc=%v", got.Color, got.Count, got.UPC)
	}
	if got.Status == nil || *got.Status != models.YarnStatusActive {
		t.Errorf("expected default status, got %v", got.Status)
	}
}

func TestCreateMissingRequiredField(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	in := validInput("Caron", "Blue")
	in.StartLen = nil
	in.Brand = ptr("")

	_, err := svc.Create(ctx, in)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if ve.Message != MsgMissingRequired {
		t.Errorf("unexpected message %q", ve.Message)
	}
	want := map[string]bool{"brand": true, "start_len": true}
	if len(ve.Fields) != len(want) {
		t.Errorf("expected fields %v, got %v", want, ve.Fields)
	}
	for _, f := range ve.Fields {
		if !want[f] {
			t.Errorf("unexpected field %q", f)
		}
	}

	var n int64
	conn.Model(&models.Yarn{}).Count(&n)
	if n != 0 {
		t.Errorf("expected no rows after rejected create, got %d", n)
	}
}

func TestListFiltersByBrandCaseInsensitive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, brand := range []string{"Red Heart", "Redwood Co", "Blue Label", "Bernat"} {
		if _, err := svc.Create(ctx, validInput(brand, "Grey")); err != nil {
			t.Fatalf("Create %s: %v", brand, err)
		}
	}

	items, err := svc.List(ctx, ListFilter{Brand: "red"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	for _, y := range items {
		if y.Brand == "Blue Label" || y.Brand == "Bernat" {
			t.Errorf("unexpected match %q", y.Brand)
		}
	}
}

func TestListFilterIsLiteral(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.Create(ctx, validInput("100% Wool", "Oat"))
	svc.Create(ctx, validInput("Acrylic", "Oat"))

	items, _ := svc.List(ctx, ListFilter{Brand: "%"})
	if len(items) != 1 || items[0].Brand != "100% Wool" {
		t.Errorf("expected only the literal %% match, got %+v", items)
	}

	items, _ = svc.List(ctx, ListFilter{Brand: "_"})
	if len(items) != 0 {
		t.Errorf("expected underscore to match literally, got %d items", len(items))
	}
}

func TestListFiltersByColor(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.Create(ctx, validInput("Red Heart", "Sea Green"))
	svc.Create(ctx, validInput("Red Heart", "Navy"))
	noColor := validInput("Red Heart", "")
	svc.Create(ctx, noColor)

	items, err := svc.List(ctx, ListFilter{Brand: "heart", Color: "GREEN"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || *items[0].Color != "Sea Green" {
		t.Errorf("expected only Sea Green, got %+v", items)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)
	svc.Now = steppingClock()
	ctx := context.Background()

	var ids []int64
	for _, brand := range []string{"first", "second", "third"} {
		id, err := svc.Create(ctx, validInput(brand, ""))
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, id)
	}

	items, err := svc.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, want := range []int64{ids[2], ids[1], ids[0]} {
		if items[i].ID != want {
			t.Errorf("position %d: expected id %d, got %d", i, want, items[i].ID)
		}
	}
}

func TestListEmptyIsNotNil(t *testing.T) {
	svc, _ := newTestService(t)
	items, err := svc.List(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if items == nil {
		t.Error("expected empty slice, got nil")
	}
}

func TestSoftDelete(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	id, _ := svc.Create(ctx, validInput("Patons", "Cream"))
	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := svc.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	items, _ := svc.List(ctx, ListFilter{})
	if len(items) != 0 {
		t.Errorf("expected 0 items after soft delete, got %d", len(items))
	}

	// The row itself is still stored.
	row, err := db.NewRepo(conn).FindYarnUnscoped(ctx, id)
	if err != nil {
		t.Fatalf("FindYarnUnscoped: %v", err)
	}
	if !row.Deleted {
		t.Error("expected deleted flag to be set")
	}
	if row.DeletedWhen == nil {
		t.Error("expected deleted_when to be set")
	}
	if row.Brand != "Patons" {
		t.Errorf("expected data retained, got brand %q", row.Brand)
	}

	if err := svc.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected second delete to be ErrNotFound, got %v", err)
	}
	if err := svc.Update(ctx, id, validInput("Patons", "Cream")); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected update of deleted item to be ErrNotFound, got %v", err)
	}
}

func TestUpdateOverwritesAllFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, _ := svc.Create(ctx, validInput("Red Heart", "Cherry"))

	in := validInput("Red Heart", "")
	in.Color = nil
	in.Count = nil
	in.UPC = nil
	in.Name = ptr("With Love")
	in.CurrWeight = ptr(decimal.RequireFromString("80"))
	in.Status = ptr("finished")
	if err := svc.Update(ctx, id, in); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "With Love" || got.Status == nil || *got.Status != "finished" {
		t.Errorf("unexpected name/status %q/%v", got.Name, got.Status)
	}
	if !got.CurrWeight.Equal(decimal.NewFromInt(80)) {
		t.Errorf("expected curr_weight 80, got %s", got.CurrWeight)
	}
	if got.Color != nil || got.Count != nil || got.UPC != nil {
		t.Errorf("expected omitted optionals to be nulled, got color=%v count=%v upc=%v", got.Color, got.Count, got.UPC)
	}
	if got.UserID != 1 {
		t.Errorf("user_id must not change, got %d", got.UserID)
	}
}

func TestUpdateWithoutStatusClearsIt(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, _ := svc.Create(ctx, validInput("Red Heart", "Cherry"))
	in := validInput("Red Heart", "Cherry")
	in.Status = nil

	if err := svc.Update(ctx, id, in); err != nil {
		t.Fatalf("Update without status: %v", err)
	}
	got, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != nil {
		t.Errorf("expected status to be nulled, got %q", *got.Status)
	}
}

func TestUpdateOmittedRequiredFieldIsStorageError(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, _ := svc.Create(ctx, validInput("Red Heart", "Cherry"))
	in := validInput("Red Heart", "Cherry")
	in.Brand = nil

	if err := svc.Update(ctx, id, in); !errors.Is(err, ErrStorage) {
		t.Errorf("expected ErrStorage for NULL brand, got %v", err)
	}
}

func TestNotFoundAndInvalidIDs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.Update(ctx, 999999, validInput("x", "y")); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update 999999: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Get(ctx, 999999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get 999999: expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, 999999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete 999999: expected ErrNotFound, got %v", err)
	}

	if _, err := svc.Get(ctx, 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Get 0: expected ErrInvalidInput, got %v", err)
	}
	if err := svc.Update(ctx, -1, validInput("x", "y")); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Update -1: expected ErrInvalidInput, got %v", err)
	}
	if err := svc.Delete(ctx, 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Delete 0: expected ErrInvalidInput, got %v", err)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{"1", 1, true},
		{"42", 42, true},
		{"abc", 0, false},
		{"", 0, false},
		{"0", 0, false},
		{"-3", 0, false},
		{"1.5", 0, false},
		{"99999999999999999999", 0, false},
		{" 5", 0, false},
		{"5 ", 0, false},
		{"+5", 0, false},
		{"007", 7, true},
	}
	for _, tt := range tests {
		got, err := ParseID(tt.raw)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseID(%q) = %d, %v; want %d", tt.raw, got, err, tt.want)
		}
		if !tt.ok {
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("ParseID(%q): expected ErrInvalidInput, got %v", tt.raw, err)
			}
		}
	}
}

type failingStore struct{ YarnStore }

func (failingStore) ListYarn(context.Context, db.YarnFilter) ([]models.Yarn, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) FindYarn(context.Context, int64) (*models.Yarn, error) {
	return nil, errors.New("connection refused")
}

func TestStorageFaultsAreGeneric(t *testing.T) {
	svc := NewYarnService(failingStore{}, nil)
	ctx := context.Background()

	_, err := svc.List(ctx, ListFilter{})
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if got := err.Error(); got != "list yarn: database error" {
		t.Errorf("storage error leaked detail: %q", got)
	}

	if _, err := svc.Get(ctx, 1); !errors.Is(err, ErrStorage) {
		t.Errorf("expected ErrStorage from Get, got %v", err)
	}
}
