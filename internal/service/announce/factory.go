package announce

import (
	"context"
	"strings"
)

type actionFunc func(context.Context, Event) error

type actionFactory struct {
	byStatus map[string]actionFunc
}

func newActionFactory(onPublished, onCancelled actionFunc) *actionFactory {
	return &actionFactory{
		byStatus: map[string]actionFunc{
			"published":   onPublished,
			"republished": onPublished,
			"cancelled":   onCancelled,
			"deleted":     onCancelled,
		},
	}
}

func (f *actionFactory) get(status string) (actionFunc, bool) {
	status = strings.ToLower(strings.TrimSpace(status))
	fn, ok := f.byStatus[status]
	return fn, ok
}
