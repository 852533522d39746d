package models

// All lists every persisted model in dependency order.
func All() []any {
	return []any{
		&Product{},
		&Cart{},
		&CartLine{},
		&User{},
		&Ticket{},
	}
}
