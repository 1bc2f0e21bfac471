package database

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	ErrUniqueViolation     = errors.New("unique constraint violated")
	ErrForeignKeyViolation = errors.New("foreign key constraint violated")
	ErrCheckViolation      = errors.New("check constraint violated")
	ErrNotNullViolation    = errors.New("not null constraint violated")
)

const mysqlSignalException = 1644

var mysqlCodes = map[uint16]error{
	1062: ErrUniqueViolation,
	1451: ErrForeignKeyViolation,
	1452: ErrForeignKeyViolation,
	3819: ErrCheckViolation,
	1048: ErrNotNullViolation,
	1364: ErrNotNullViolation,
}

var postgresCodes = map[string]error{
	"23505": ErrUniqueViolation,
	"23503": ErrForeignKeyViolation,
	"23514": ErrCheckViolation,
	"23502": ErrNotNullViolation,
}

var sqliteCodes = map[sqlite3.ErrNoExtended]error{
	sqlite3.ErrConstraintUnique:     ErrUniqueViolation,
	sqlite3.ErrConstraintPrimaryKey: ErrUniqueViolation,
	sqlite3.ErrConstraintForeignKey: ErrForeignKeyViolation,
	sqlite3.ErrConstraintCheck:      ErrCheckViolation,
	sqlite3.ErrConstraintNotNull:    ErrNotNullViolation,
}

// ClassifyError 将驱动层错误归类为约束违例，非约束错误返回 nil
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrUniqueViolation
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKeyViolation
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return ErrCheckViolation
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		// 1644 为触发器 SIGNAL，消息是被违反的约束名
		if mysqlErr.Number == mysqlSignalException && strings.HasPrefix(mysqlErr.Message, "ck_") {
			return ErrCheckViolation
		}
		return mysqlCodes[mysqlErr.Number]
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return postgresCodes[pgErr.Code]
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteCodes[sqliteErr.ExtendedCode]
	}

	return nil
}

// IsConstraint 判断 err 是否为指定类型的约束违例
func IsConstraint(err error, kind error) bool {
	return errors.Is(ClassifyError(err), kind)
}

// ConstraintLabel 约束类型的短名，用于指标标签
func ConstraintLabel(kind error) string {
	switch kind {
	case ErrUniqueViolation:
		return "unique"
	case ErrForeignKeyViolation:
		return "foreign_key"
	case ErrCheckViolation:
		return "check"
	case ErrNotNullViolation:
		return "not_null"
	default:
		return "unknown"
	}
}
