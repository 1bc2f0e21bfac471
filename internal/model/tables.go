package model

// Tables 按依赖顺序返回全部表模型，父表在前
func Tables() []any {
	return []any{
		&User{},
		&Post{},
		&Media{},
		&Comment{},
		&Like{},
		&Follow{},
	}
}
