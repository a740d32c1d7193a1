package store

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/mgtcty/manualqa/internal/domain"
)

func TestResolveSections(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	p := &Postgres{DB: db}
	query := regexp.QuoteMeta(`SELECT section_content, id, section_number, section_title FROM sections WHERE id = ANY($1)`)
	rows := sqlmock.NewRows([]string{"section_content", "id", "section_number", "section_title"}).
		AddRow("Bolt torque. Use 90 Nm.", 2, "3", "2.1 Bolts").
		AddRow("Weld inspection. Visual first.", 5, "27", "4 Welds")
	mock.ExpectQuery(query).WithArgs(sqlmock.AnyArg()).WillReturnRows(rows)

	got, err := p.ResolveSections(context.Background(), []int64{2, 5})
	if err != nil {
		t.Fatalf("ResolveSections: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(got))
	}
	if got[0].ID != 2 || got[0].Locator != "3" {
		t.Fatalf("unexpected first section: %+v", got[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestResolveSectionsNoIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	p := &Postgres{DB: db}
	got, err := p.ResolveSections(context.Background(), nil)
	if err != nil {
		t.Fatalf("ResolveSections: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no sections, got %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInsertSectionsNormalizesTitles(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	p := &Postgres{DB: db}
	insert := regexp.QuoteMeta(`INSERT INTO sections (section_number, section_title, section_content, manual_id) VALUES ($1,$2,$3,$4)`)

	mock.ExpectBegin()
	mock.ExpectExec(insert).
		WithArgs("12", "2.1 Bolted Connections", "Bolted Connections. Torque per table 7.", int64(4)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	recs := []domain.SectionRecord{
		{Number: "12", Title: "2.1 Bolted Connections", Content: "Torque per table 7."},
	}
	if err := p.InsertSections(context.Background(), 4, recs); err != nil {
		t.Fatalf("InsertSections: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInsertManualReturnsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	p := &Postgres{DB: db}
	query := regexp.QuoteMeta(`INSERT INTO manuals (title, version, release_date) VALUES ($1,$2,$3) RETURNING id`)
	mock.ExpectQuery(query).
		WithArgs("Detailing Manual", "1st Edition Rev 0", "07/19/2022").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	id, err := p.InsertManual(context.Background(), "Detailing Manual", "1st Edition Rev 0", "07/19/2022")
	if err != nil {
		t.Fatalf("InsertManual: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected id 7, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDeleteAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	p := &Postgres{DB: db}
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sections`)).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM manuals`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := p.DeleteAll(context.Background()); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestNormalizeContent(t *testing.T) {
	cases := []struct {
		title   string
		content string
		want    string
	}{
		{"2.1 Bolted Connections", "Torque per table 7.", "Bolted Connections. Torque per table 7."},
		{"Introduction", "Scope of this manual.", "Introduction. Scope of this manual."},
		{"3", "Body only.", "Body only."},
	}
	for _, tc := range cases {
		if got := NormalizeContent(tc.title, tc.content); got != tc.want {
			t.Fatalf("NormalizeContent(%q, %q) = %q, want %q", tc.title, tc.content, got, tc.want)
		}
	}
}
