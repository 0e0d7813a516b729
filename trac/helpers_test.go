package trac_test

import (
	"fmt"

	"github.com/toothbrush/trac-term/trac/tractest"
)

func tractestVocabulary() *tractest.Fake {
	return tractest.New().
		Return("ticket.milestone.getAll", tractest.Strings("m1", "m2")).
		Return("ticket.type.getAll", tractest.Strings("defect", "enhancement", "task")).
		Return("ticket.status.getAll", tractest.Strings("new", "assigned", "closed")).
		Return("ticket.resolution.getAll", tractest.Strings("fixed", "invalid")).
		Return("ticket.priority.getAll", tractest.Strings("major", "minor")).
		Return("ticket.severity.getAll", tractest.Strings()).
		Return("ticket.component.getAll", tractest.Strings("core", "docs")).
		Return("ticket.version.getAll", tractest.Strings("1.0"))
}

func tractestTickets() *tractest.Fake {
	return tractest.New().
		Handle("ticket.get", func(args []any) (any, error) {
			id, _ := args[0].(int)
			return tractest.TicketValue(id, map[string]string{
				"summary": fmt.Sprintf("ticket %d", id),
				"status":  "new",
			}), nil
		}).
		Return("ticket.getActions", []any{
			tractest.ActionValue("leave"),
			tractest.ActionValue("resolve",
				tractest.Field("action_resolve_resolve_resolution", "fixed", "fixed", "invalid")),
		})
}
