package metrics

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

const startKey = "metrics:start"

// GormPlugin 在 gorm 回调链前后记录耗时与错误
type GormPlugin struct{}

func (GormPlugin) Name() string {
	return "snapshare:metrics"
}

type registrar interface {
	Register(name string, fn func(*gorm.DB)) error
}

func (GormPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		op            string
		before, after registrar
	}{
		{"create", cb.Create().Before("gorm:create"), cb.Create().After("gorm:create")},
		{"query", cb.Query().Before("gorm:query"), cb.Query().After("gorm:query")},
		{"update", cb.Update().Before("gorm:update"), cb.Update().After("gorm:update")},
		{"delete", cb.Delete().Before("gorm:delete"), cb.Delete().After("gorm:delete")},
		{"row", cb.Row().Before("gorm:row"), cb.Row().After("gorm:row")},
		{"raw", cb.Raw().Before("gorm:raw"), cb.Raw().After("gorm:raw")},
	}
	for _, h := range hooks {
		if err := h.before.Register("metrics:before_"+h.op, before); err != nil {
			return err
		}
		if err := h.after.Register("metrics:after_"+h.op, after(h.op)); err != nil {
			return err
		}
	}
	return nil
}

func before(db *gorm.DB) {
	db.InstanceSet(startKey, time.Now())
}

func after(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(startKey)
		if !ok {
			return
		}
		start, _ := v.(time.Time)
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}
		QueryDuration.WithLabelValues(op, table).Observe(time.Since(start).Seconds())
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			QueryErrors.WithLabelValues(op, table).Inc()
		}
	}
}
