package database_test

import (
	"Snapshare/internal/api/config"
	"Snapshare/internal/model"
	"Snapshare/internal/pkg/database"
	"Snapshare/internal/pkg/database/dbtest"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

func TestSQLiteDSN(t *testing.T) {
	cases := []struct{ in, want string }{
		{"a.db", "a.db?_foreign_keys=on&_busy_timeout=5000"},
		{"a.db?cache=shared", "a.db?cache=shared&_foreign_keys=on&_busy_timeout=5000"},
		{"a.db?_fk=1", "a.db?_fk=1&_busy_timeout=5000"},
		{"a.db?_foreign_keys=on&_busy_timeout=10", "a.db?_foreign_keys=on&_busy_timeout=10"},
	}
	for _, tc := range cases {
		if got := database.SQLiteDSN(tc.in); got != tc.want {
			t.Errorf("SQLiteDSN(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewGormDBRejectsUnknownDriver(t *testing.T) {
	_, err := database.NewGormDB(&config.DBConfig{Driver: "oracle", DSN: "x"})
	if err == nil {
		t.Fatalf("expected unsupported driver error")
	}
}

func TestApplySchemaIsIdempotent(t *testing.T) {
	db := dbtest.New(t)

	if err := database.ApplySchema(context.Background(), db); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	for _, table := range model.Tables() {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("missing table for %T", table)
		}
	}
	if !db.Migrator().HasConstraint(&model.Follow{}, "ck_no_self_follow") {
		t.Fatalf("missing self-follow check constraint")
	}
	if !db.Migrator().HasIndex(&model.Like{}, "uq_like_post_user") {
		t.Fatalf("missing like uniqueness index")
	}
	if !db.Migrator().HasIndex(&model.Follow{}, "uq_follow_pair") {
		t.Fatalf("missing follow uniqueness index")
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	db := dbtest.New(t)

	err := db.Create(&model.Post{UserID: 999}).Error
	if !database.IsConstraint(err, database.ErrForeignKeyViolation) {
		t.Fatalf("expected foreign key violation, got %v", err)
	}
}

func TestClassifySQLiteConstraints(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	a := &model.User{Email: "a@x.io", Username: "a", Password: "h"}
	b := &model.User{Email: "b@x.io", Username: "b", Password: "h"}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		t.Fatalf("create a: %v", err)
	}
	if err := db.WithContext(ctx).Create(b).Error; err != nil {
		t.Fatalf("create b: %v", err)
	}

	dup := db.WithContext(ctx).Create(&model.User{Email: "a@x.io", Username: "c", Password: "h"}).Error
	if got := database.ClassifyError(dup); got != database.ErrUniqueViolation {
		t.Fatalf("duplicate email: got %v (%v)", got, dup)
	}

	self := db.WithContext(ctx).Create(&model.Follow{FollowerID: a.ID, FollowingID: a.ID}).Error
	if got := database.ClassifyError(self); got != database.ErrCheckViolation {
		t.Fatalf("self follow: got %v (%v)", got, self)
	}
}

func TestClassifyDriverErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"plain", errors.New("boom"), nil},
		{"record not found", gorm.ErrRecordNotFound, nil},
		{"gorm duplicate", gorm.ErrDuplicatedKey, database.ErrUniqueViolation},
		{"gorm fk", fmt.Errorf("wrap: %w", gorm.ErrForeignKeyViolated), database.ErrForeignKeyViolation},
		{"gorm check", gorm.ErrCheckConstraintViolated, database.ErrCheckViolation},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062}, database.ErrUniqueViolation},
		{"mysql fk parent", &mysql.MySQLError{Number: 1452}, database.ErrForeignKeyViolation},
		{"mysql check", &mysql.MySQLError{Number: 3819}, database.ErrCheckViolation},
		{"mysql self follow trigger", &mysql.MySQLError{Number: 1644, Message: database.SelfFollowConstraint}, database.ErrCheckViolation},
		{"mysql unrelated signal", &mysql.MySQLError{Number: 1644, Message: "custom failure"}, nil},
		{"mysql other", &mysql.MySQLError{Number: 1205}, nil},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, database.ErrUniqueViolation},
		{"postgres check", &pgconn.PgError{Code: "23514"}, database.ErrCheckViolation},
		{"postgres not null", &pgconn.PgError{Code: "23502"}, database.ErrNotNullViolation},
		{"sqlite check", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintCheck}, database.ErrCheckViolation},
		{"sqlite unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, database.ErrUniqueViolation},
		{"sqlite busy", sqlite3.Error{Code: sqlite3.ErrBusy}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := database.ClassifyError(tc.err); got != tc.want {
				t.Fatalf("ClassifyError(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestNewGormDBSQLiteFile(t *testing.T) {
	db, err := database.NewGormDB(&config.DBConfig{
		Driver: "SQLite",
		DSN:    filepath.Join(t.TempDir(), "x.db"),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	var fk int
	if err = db.Raw("PRAGMA foreign_keys").Scan(&fk).Error; err != nil {
		t.Fatalf("pragma: %v", err)
	}
	if fk != 1 {
		t.Fatalf("expected foreign keys on, got %d", fk)
	}
}

func TestConstraintLabel(t *testing.T) {
	cases := map[error]string{
		database.ErrUniqueViolation:     "unique",
		database.ErrForeignKeyViolation: "foreign_key",
		database.ErrCheckViolation:      "check",
		database.ErrNotNullViolation:    "not_null",
		errors.New("other"):             "unknown",
	}
	for kind, want := range cases {
		if got := database.ConstraintLabel(kind); got != want {
			t.Errorf("ConstraintLabel(%v) = %q, want %q", kind, got, want)
		}
	}
}
