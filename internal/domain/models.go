package domain

// Models lists every persisted entity in migration order.
func Models() []any {
	return []any{
		&User{},
		&Address{},
		&Category{},
		&Service{},
		&Booking{},
		&BookingService{},
	}
}
