package models

// All lists every persisted model, in migration order.
func All() []any {
	return []any{
		&User{},
		&Organization{},
		&Supervisor{},
		&Counter{},
		&Order{},
		&FurnitureItem{},
		&OrderNote{},
	}
}
