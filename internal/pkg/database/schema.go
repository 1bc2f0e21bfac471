package database

import (
	"Snapshare/internal/model"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"gorm.io/gorm"
)

// ApplySchema 将模型声明的表、索引、外键与检查约束同步到数据库，可重复执行
func ApplySchema(ctx context.Context, db *gorm.DB) error {
	tables := model.Tables()
	mysqlMode := db.Dialector.Name() == DriverMySQL
	if mysqlMode {
		tables = mysqlTables(tables)
	}

	if err := db.WithContext(ctx).AutoMigrate(tables...); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	if mysqlMode {
		if err := applyMySQLFollowGuard(ctx, db); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	log.InfoContext(ctx, "Schema applied", "tables", len(tables), "dialect", db.Dialector.Name())
	return nil
}

// mysqlFollow follows 在 MySQL 上的建表形态。
// MySQL 不允许 CHECK 引用带 ON DELETE CASCADE 的外键列 (error 3823)，
// 这里去掉 CHECK，自关注改由触发器拒绝。其余列、索引、外键与 model.Follow 保持一致。
type mysqlFollow struct {
	ID          uint64    `gorm:"primaryKey"`
	FollowerID  uint64    `gorm:"not null;uniqueIndex:uq_follow_pair,priority:1"`
	FollowingID uint64    `gorm:"not null;uniqueIndex:uq_follow_pair,priority:2;index:idx_follows_following_id"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime"`

	Follower  *model.User `gorm:"foreignKey:FollowerID;references:ID;constraint:OnDelete:CASCADE"`
	Following *model.User `gorm:"foreignKey:FollowingID;references:ID;constraint:OnDelete:CASCADE"`
}

func (mysqlFollow) TableName() string {
	return model.Follow{}.TableName()
}

func mysqlTables(tables []any) []any {
	out := make([]any, 0, len(tables))
	for _, t := range tables {
		if _, ok := t.(*model.Follow); ok {
			t = &mysqlFollow{}
		}
		out = append(out, t)
	}
	return out
}

// SelfFollowConstraint 自关注约束名，MySQL 触发器以此作为 SIGNAL 消息
const SelfFollowConstraint = "ck_no_self_follow"

var mysqlFollowTriggers = []struct {
	name  string
	event string
}{
	{"trg_follows_no_self_insert", "INSERT"},
	{"trg_follows_no_self_update", "UPDATE"},
}

// applyMySQLFollowGuard 创建缺失的自关注触发器。
// CREATE TRIGGER 不能走预编译协议，直接用底层连接执行
func applyMySQLFollowGuard(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	table := model.Follow{}.TableName()

	for _, trg := range mysqlFollowTriggers {
		var count int64
		err = db.WithContext(ctx).Raw(
			"SELECT count(*) FROM information_schema.TRIGGERS WHERE TRIGGER_SCHEMA = DATABASE() AND TRIGGER_NAME = ?",
			trg.name,
		).Scan(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		ddl := fmt.Sprintf(
			"CREATE TRIGGER `%s` BEFORE %s ON `%s` FOR EACH ROW BEGIN "+
				"IF NEW.follower_id = NEW.following_id THEN "+
				"SIGNAL SQLSTATE '45000' SET MESSAGE_TEXT = '%s'; "+
				"END IF; END",
			trg.name, trg.event, table, SelfFollowConstraint,
		)
		if _, err = sqlDB.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create trigger %s: %w", trg.name, err)
		}
	}
	return nil
}
