package partner

// Contact is an address-book record owned by the contacts sync. It is only
// read here, to seed customers and finance parties.
type Contact struct {
	ID          int64
	OwnerUserID *int64
	Name        string
	Phone       string
}
