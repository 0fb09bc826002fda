package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"yarn_inventory/config"
	"yarn_inventory/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DBConfig
		want string
	}{
		{
			"mysql",
			config.DBConfig{Driver: config.DriverMySQL, Host: "db", User: "root", Password: "pw", Name: "yarn", Port: "3306"},
			"root:pw@tcp(db:3306)/yarn?charset=utf8mb4&parseTime=True&loc=UTC",
		},
		{
			"postgres",
			config.DBConfig{Driver: config.DriverPostgres, Host: "pg", User: "u", Password: "p", Name: "yarn", Port: "5432"},
			"host=pg user=u password=p dbname=yarn port=5432 sslmode=disable",
		},
		{
			"sqlite file",
			config.DBConfig{Driver: config.DriverSQLite, Name: "data/yarn"},
			"data/yarn.sqlite3?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		},
		{
			"sqlite memory",
			config.DBConfig{Driver: config.DriverSQLite, Name: ":memory:"},
			":memory:",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DSN(tt.cfg); got != tt.want {
				t.Errorf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func newYarn(brand string, added time.Time) *models.Yarn {
	return &models.Yarn{
		UserID:      1,
		DateAdded:   added,
		Brand:       brand,
		Name:        "Skein",
		StartLen:    decimal.NewFromInt(200),
		StartWeight: decimal.NewFromInt(100),
		CurrWeight:  decimal.NewFromInt(100),
	}
}

func TestContainsPatternEscapes(t *testing.T) {
	if got := containsPattern("50%_Off!"); got != "%50!%!_off!!%" {
		t.Errorf("containsPattern() = %q", got)
	}
}

func TestListYarnOrderingAndTies(t *testing.T) {
	repo := NewRepo(NewTestDB(t))
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	older := newYarn("older", now.Add(-time.Hour))
	tieA := newYarn("tie-a", now)
	tieB := newYarn("tie-b", now)
	for _, y := range []*models.Yarn{older, tieA, tieB} {
		if err := repo.CreateYarn(ctx, y); err != nil {
			t.Fatalf("CreateYarn: %v", err)
		}
	}

	items, err := repo.ListYarn(ctx, YarnFilter{})
	if err != nil {
		t.Fatalf("ListYarn: %v", err)
	}
	want := []int64{tieB.ID, tieA.ID, older.ID}
	for i, id := range want {
		if items[i].ID != id {
			t.Fatalf("position %d: want id %d, got %d", i, id, items[i].ID)
		}
	}
}

func TestUpdateAndSoftDeleteSkipDeletedRows(t *testing.T) {
	repo := NewRepo(NewTestDB(t))
	ctx := context.Background()

	y := newYarn("Patons", time.Now().UTC())
	if err := repo.CreateYarn(ctx, y); err != nil {
		t.Fatal(err)
	}

	n, err := repo.SoftDeleteYarn(ctx, y.ID, time.Now().UTC())
	if err != nil || n != 1 {
		t.Fatalf("first delete: n=%d err=%v", n, err)
	}
	n, err = repo.SoftDeleteYarn(ctx, y.ID, time.Now().UTC())
	if err != nil || n != 0 {
		t.Fatalf("second delete: n=%d err=%v", n, err)
	}

	if err := repo.UpdateYarn(ctx, y.ID, map[string]any{"brand": "Changed"}); err != nil {
		t.Fatal(err)
	}
	row, err := repo.FindYarnUnscoped(ctx, y.ID)
	if err != nil {
		t.Fatal(err)
	}
	if row.Brand != "Patons" {
		t.Errorf("deleted row was updated to %q", row.Brand)
	}

	if _, err := repo.FindYarn(ctx, y.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestPingAfterClose(t *testing.T) {
	conn := NewTestDB(t)
	if err := Ping(context.Background(), conn); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	Close(conn)
	if err := Ping(context.Background(), conn); err == nil {
		t.Error("expected ping on closed pool to fail")
	}
}
