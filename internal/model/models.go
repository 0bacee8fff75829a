package model

// All lists every persisted entity in migration order.
func All() []any {
	return []any{
		&Author{},
		&Genre{},
		&User{},
		&Book{},
		&Review{},
	}
}
