package models

// All returns every persistence model in dependency order, for AutoMigrate
// in tests and local development. Production schemas come from migrations.
func All() []any {
	return []any{
		&ContactModel{},
		&CustomerModel{},
		&ProductModel{},
		&OrderModel{},
		&OrderItemModel{},
		&PaymentModel{},
		&AuditLogModel{},
		&FinancePartyModel{},
		&FinanceTransactionModel{},
	}
}
