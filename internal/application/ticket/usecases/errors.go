package usecases

import (
	stderrors "errors"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	"github.com/tdesk-io/tdesk/internal/domain/user"
	"github.com/tdesk-io/tdesk/internal/shared/constants"
	"github.com/tdesk-io/tdesk/internal/shared/db"
	"github.com/tdesk-io/tdesk/internal/shared/errors"
)

// toAppError maps what a transaction returned onto the error taxonomy.
// AppErrors pass through; anything unclassified is a storage failure.
func toAppError(err error, message string) error {
	switch {
	case err == nil:
		return nil
	case errors.IsAppError(err):
		return err
	case stderrors.Is(err, ticket.ErrTicketNotFound):
		return errors.NewNotFoundError(constants.ErrMsgTicketNotFound)
	case stderrors.Is(err, user.ErrUserNotFound):
		return errors.NewNotFoundError("user not found")
	}
	return errors.WrapInternal(message, err)
}

// optional reports whether a read failed only because an optional table is
// missing, in which case the caller serves an empty section.
func optional(err error) bool {
	return db.IsRelationNotFound(err)
}
