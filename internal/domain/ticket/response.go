package ticket

import (
	"fmt"
	"strings"
	"time"
)

// Response is a staff reply on a ticket.
type Response struct {
	ID        uint
	TicketID  uint
	UserID    uint
	Text      string
	CreatedAt time.Time
}

func NewResponse(ticketID, userID uint, text string) (*Response, error) {
	text = strings.TrimSpace(text)
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("responder ID is required")
	}
	if text == "" {
		return nil, fmt.Errorf("response text is required")
	}
	return &Response{
		TicketID:  ticketID,
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}, nil
}
