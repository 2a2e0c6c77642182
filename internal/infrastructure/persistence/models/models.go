// Package models holds the GORM persistence models.
package models

// All returns every model in dependency order, for schema bootstrapping.
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&PasswordResetModel{},
		&TicketModel{},
		&TicketActivityModel{},
		&TicketAttachmentModel{},
		&TicketResponseModel{},
		&ResponseAttachmentModel{},
	}
}
