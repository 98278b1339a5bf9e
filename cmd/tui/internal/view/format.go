package view

import (
	"context"
	"time"

	"github.com/MrJamesThe3rd/unimarket/internal/money"
)

const dbTimeout = 5 * time.Second

// Currency is used to render minor-unit amounts.
var Currency = "NGN"

func FormatAmount(minor int64) string {
	return money.Format(minor, Currency)
}

// FormatDue renders a release due time relative to now.
func FormatDue(due, now time.Time) string {
	d := due.Sub(now).Round(time.Minute)
	if d <= 0 {
		return "overdue " + (-d).String()
	}

	return "in " + d.String()
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
