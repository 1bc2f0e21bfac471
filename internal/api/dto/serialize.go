package dto

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
)

// TimeLayout 对外时间格式 (ISO-8601)
const TimeLayout = time.RFC3339Nano

var copyOption = copier.Option{
	DeepCopy: true,
	Converters: []copier.TypeConverter{
		{
			SrcType: time.Time{},
			DstType: (*string)(nil),
			Fn: func(src interface{}) (interface{}, error) {
				return FormatTime(src.(time.Time)), nil
			},
		},
	},
}

// FormatTime 零值返回 nil，序列化后为 null
func FormatTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(TimeLayout)
	return &s
}

// mustCopy copier 只会在类型不兼容时报错，属于编码错误
func mustCopy(to, from any) {
	if err := copier.CopyWithOption(to, from, copyOption); err != nil {
		panic(fmt.Sprintf("dto: copy %T -> %T: %v", from, to, err))
	}
}

// ToMap 将对外视图转为普通键值映射
func ToMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err = json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// SerializeAll 对列表逐条序列化
func SerializeAll[T any, D any](items []*T, fn func(*T) *D) []*D {
	out := make([]*D, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
