package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	// A uniquely named shared-cache database keeps tests isolated from each other.
	s, err := NewSQLite("file:" + uuid.New().String() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// createTestPlan is a helper that inserts a price plan and returns it.
func createTestPlan(t *testing.T, s Store, name string, call, sms float64) *PricePlan {
	t.Helper()
	p := &PricePlan{PlanName: name, CallPrice: call, SMSPrice: sms}
	if err := s.CreatePricePlan(context.Background(), p); err != nil {
		t.Fatalf("createTestPlan(%s): %v", name, err)
	}
	return p
}

func TestListPricePlans_Empty(t *testing.T) {
	s := newTestStore(t)

	plans, err := s.ListPricePlans(context.Background())
	if err != nil {
		t.Fatalf("ListPricePlans: %v", err)
	}
	if len(plans) != 0 {
		t.Errorf("got %d plans, want 0", len(plans))
	}
}

func TestCreateAndListPricePlans(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := createTestPlan(t, s, "Basic", 1.5, 0.5)
	b := createTestPlan(t, s, "Premium", 0.75, 0.1)

	if a.ID == 0 || b.ID == 0 {
		t.Fatalf("ids not assigned: %d, %d", a.ID, b.ID)
	}
	if a.ID == b.ID {
		t.Fatalf("duplicate id %d", a.ID)
	}

	plans, err := s.ListPricePlans(ctx)
	if err != nil {
		t.Fatalf("ListPricePlans: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("got %d plans, want 2", len(plans))
	}
	// Insertion order.
	if plans[0] != *a {
		t.Errorf("plans[0] = %+v, want %+v", plans[0], *a)
	}
	if plans[1] != *b {
		t.Errorf("plans[1] = %+v, want %+v", plans[1], *b)
	}
}

func TestCreatePricePlan_DuplicateNamesAllowed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := createTestPlan(t, s, "Dup", 1, 1)
	createTestPlan(t, s, "Dup", 2, 2)

	plans, err := s.ListPricePlans(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(plans) != 2 {
		t.Fatalf("got %d plans, want 2", len(plans))
	}

	// Lookup by name returns the first inserted row.
	got, err := s.GetPricePlanByName(ctx, "Dup")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.ID != first.ID {
		t.Errorf("GetPricePlanByName = %+v, want id %d", got, first.ID)
	}
}

func TestIDsNotReused(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := createTestPlan(t, s, "A", 1, 1)
	b := createTestPlan(t, s, "B", 1, 1)
	if _, err := s.DeletePricePlan(ctx, b.ID); err != nil {
		t.Fatal(err)
	}
	c := createTestPlan(t, s, "C", 1, 1)
	if c.ID == a.ID || c.ID == b.ID {
		t.Errorf("new id %d reuses an earlier id (a=%d, b=%d)", c.ID, a.ID, b.ID)
	}
}

func TestUpdatePricePlanByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := createTestPlan(t, s, "Test Plan", 1.5, 0.5)

	n, err := s.UpdatePricePlanByName(ctx, "Test Plan", 2.0, 1.0)
	if err != nil {
		t.Fatalf("UpdatePricePlanByName: %v", err)
	}
	if n != 1 {
		t.Errorf("rows affected = %d, want 1", n)
	}

	got, err := s.GetPricePlanByName(ctx, "Test Plan")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("plan missing after update")
	}
	if got.CallPrice != 2.0 || got.SMSPrice != 1.0 {
		t.Errorf("prices = (%v, %v), want (2, 1)", got.CallPrice, got.SMSPrice)
	}
	if got.ID != p.ID {
		t.Errorf("id changed: %d -> %d", p.ID, got.ID)
	}
}

func TestUpdatePricePlanByName_UpdatesAllDuplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestPlan(t, s, "Dup", 1, 1)
	createTestPlan(t, s, "Dup", 2, 2)
	other := createTestPlan(t, s, "Other", 3, 3)

	n, err := s.UpdatePricePlanByName(ctx, "Dup", 9, 8)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("rows affected = %d, want 2", n)
	}

	plans, err := s.ListPricePlans(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range plans {
		switch p.PlanName {
		case "Dup":
			if p.CallPrice != 9 || p.SMSPrice != 8 {
				t.Errorf("dup %d not updated: %+v", p.ID, p)
			}
		case "Other":
			if p != *other {
				t.Errorf("unrelated plan changed: %+v", p)
			}
		}
	}
}

func TestUpdatePricePlanByName_NoMatchIsNoop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	existing := createTestPlan(t, s, "Keep", 1.5, 0.5)

	n, err := s.UpdatePricePlanByName(ctx, "Nope", 5, 5)
	if err != nil {
		t.Fatalf("UpdatePricePlanByName: %v", err)
	}
	if n != 0 {
		t.Errorf("rows affected = %d, want 0", n)
	}

	plans, err := s.ListPricePlans(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(plans) != 1 || plans[0] != *existing {
		t.Errorf("state changed: %+v", plans)
	}
}

func TestDeletePricePlan(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	keep := createTestPlan(t, s, "Keep", 1, 1)
	gone := createTestPlan(t, s, "Gone", 2, 2)

	n, err := s.DeletePricePlan(ctx, gone.ID)
	if err != nil {
		t.Fatalf("DeletePricePlan: %v", err)
	}
	if n != 1 {
		t.Errorf("rows affected = %d, want 1", n)
	}

	plans, err := s.ListPricePlans(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range plans {
		if p.ID == gone.ID {
			t.Errorf("deleted plan %d still listed", gone.ID)
		}
	}
	if len(plans) != 1 || plans[0].ID != keep.ID {
		t.Errorf("plans = %+v, want only %d", plans, keep.ID)
	}

	got, err := s.GetPricePlan(ctx, gone.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("GetPricePlan after delete = %+v, want nil", got)
	}
}

func TestDeletePricePlan_MissingIsNoop(t *testing.T) {
	s := newTestStore(t)

	n, err := s.DeletePricePlan(context.Background(), 4242)
	if err != nil {
		t.Fatalf("DeletePricePlan: %v", err)
	}
	if n != 0 {
		t.Errorf("rows affected = %d, want 0", n)
	}
}

func TestGetPricePlanByName_NotFound(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetPricePlanByName(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetPricePlanByName: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestNullColumnsReadAsZero(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.db.ExecContext(ctx, "INSERT INTO price_plan (plan_name) VALUES (?)", "Sparse"); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetPricePlanByName(ctx, "Sparse")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("plan not found")
	}
	if got.CallPrice != 0 || got.SMSPrice != 0 {
		t.Errorf("prices = (%v, %v), want zeros", got.CallPrice, got.SMSPrice)
	}
}

func TestNewSQLite_CreatesDirectoryAndPersists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "price_plans")
	dsn := filepath.Join(dir, "data_plan.db")

	s, err := NewSQLite(dsn)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	createTestPlan(t, s, "Persisted", 1.25, 0.25)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(dsn); err != nil {
		t.Fatalf("database file not created: %v", err)
	}

	// Reopening runs migrations again and must keep existing rows.
	s2, err := NewSQLite(dsn)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s2.Close() }()

	got, err := s2.GetPricePlanByName(context.Background(), "Persisted")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.CallPrice != 1.25 || got.SMSPrice != 0.25 {
		t.Errorf("got %+v after reopen", got)
	}
}

func TestSchemaMatchesLayout(t *testing.T) {
	s := newTestStore(t)

	rows, err := s.db.Query("SELECT name, type FROM pragma_table_info('price_plan') ORDER BY cid")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = rows.Close() }()

	want := [][2]string{
		{"id", "INTEGER"},
		{"plan_name", "TEXT"},
		{"call_price", "REAL"},
		{"sms_price", "REAL"},
	}
	var got [][2]string
	for rows.Next() {
		var name, typ sql.NullString
		if err := rows.Scan(&name, &typ); err != nil {
			t.Fatal(err)
		}
		got = append(got, [2]string{name.String, typ.String})
	}
	if err := rows.Err(); err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("columns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSQLiteDir(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{":memory:", ""},
		{"file::memory:?cache=shared", ""},
		{"file:abc?mode=memory&cache=shared", ""},
		{"data.db", ""},
		{"./price_plans/data_plan.db", "price_plans"},
		{"file:/var/lib/phonebill/plans.db?_pragma=foo", "/var/lib/phonebill"},
	}
	for _, tt := range tests {
		if got := sqliteDir(tt.dsn); got != tt.want {
			t.Errorf("sqliteDir(%q) = %q, want %q", tt.dsn, got, tt.want)
		}
	}
}

func TestNewSQLite_MemoryStoresIsolated(t *testing.T) {
	ctx := context.Background()
	first, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = first.Close() }()
	second, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = second.Close() }()

	createTestPlan(t, first, "Only In First", 1, 1)

	plans, err := second.ListPricePlans(ctx)
	if err != nil {
		t.Fatalf("ListPricePlans: %v", err)
	}
	if len(plans) != 0 {
		t.Errorf("second store sees %d plans, want 0", len(plans))
	}

	plans, err = first.ListPricePlans(ctx)
	if err != nil {
		t.Fatalf("ListPricePlans: %v", err)
	}
	if len(plans) != 1 {
		t.Errorf("first store has %d plans, want 1", len(plans))
	}
}
