package model

// AutoMigrateの対象。親テーブルを先に並べる。
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Product{},
		&ProductImage{},
		&Order{},
		&OrderItem{},
		&AuditLog{},
	}
}
