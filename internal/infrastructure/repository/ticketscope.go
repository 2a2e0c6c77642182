package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
)

// visibleTo renders a visibility scope as a WHERE clause on the tickets
// table, optionally referenced through alias.
func visibleTo(scope ticket.Scope, alias string) func(*gorm.DB) *gorm.DB {
	col := func(name string) string {
		if alias == "" {
			return name
		}
		return alias + "." + name
	}

	return func(q *gorm.DB) *gorm.DB {
		switch scope.Kind {
		case ticket.ScopeAll:
			return q
		case ticket.ScopeQueue:
			return q.Where("("+col("assigned_to")+" IS NULL OR "+col("assigned_to")+" = ?)", scope.UserID)
		case ticket.ScopeOwned:
			return q.Where(col("user_id")+" = ?", scope.UserID)
		}
		panic(fmt.Sprintf("repository: unknown scope kind %d", scope.Kind))
	}
}
