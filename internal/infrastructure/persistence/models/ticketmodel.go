package models

import (
	"time"

	"github.com/tdesk-io/tdesk/internal/shared/constants"
)

type TicketModel struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"not null;index"`
	AssignedTo  *uint     `gorm:"index"`
	Title       string    `gorm:"size:255;not null"`
	Category    string    `gorm:"size:100;not null"`
	Priority    string    `gorm:"size:20;not null;default:medium;index"`
	Status      string    `gorm:"size:20;not null;default:open;index"`
	Description string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time `gorm:"index"`
}

func (TicketModel) TableName() string {
	return constants.TableTickets
}

// TicketActivityModel is an append-only audit row. ActorID is nullable so
// entries survive the deletion of their actor.
type TicketActivityModel struct {
	ID         uint      `gorm:"primaryKey"`
	TicketID   uint      `gorm:"not null;index"`
	ActorID    *uint     `gorm:"index"`
	Action     string    `gorm:"size:30;not null"`
	FromStatus *string   `gorm:"size:20"`
	ToStatus   *string   `gorm:"size:20"`
	Details    *string   `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"index"`
}

func (TicketActivityModel) TableName() string {
	return constants.TableTicketActivity
}

type TicketAttachmentModel struct {
	ID           uint   `gorm:"primaryKey"`
	TicketID     uint   `gorm:"not null;index"`
	OriginalName string `gorm:"size:255;not null"`
	StoredName   string `gorm:"size:255;not null"`
	FilePath     string `gorm:"size:500;not null"`
	FileSize     int64  `gorm:"not null"`
	MimeType     string `gorm:"size:100"`
	CreatedAt    time.Time
}

func (TicketAttachmentModel) TableName() string {
	return constants.TableTicketAttachments
}

type TicketResponseModel struct {
	ID           uint   `gorm:"primaryKey"`
	TicketID     uint   `gorm:"not null;index"`
	UserID       uint   `gorm:"not null;index"`
	ResponseText string `gorm:"type:text;not null"`
	CreatedAt    time.Time
}

func (TicketResponseModel) TableName() string {
	return constants.TableTicketResponses
}

type ResponseAttachmentModel struct {
	ID           uint   `gorm:"primaryKey"`
	ResponseID   uint   `gorm:"not null;index"`
	OriginalName string `gorm:"size:255;not null"`
	StoredName   string `gorm:"size:255;not null"`
	FilePath     string `gorm:"size:500;not null"`
	FileSize     int64  `gorm:"not null"`
	MimeType     string `gorm:"size:100"`
	CreatedAt    time.Time
}

func (ResponseAttachmentModel) TableName() string {
	return constants.TableTicketResponseAttachments
}
