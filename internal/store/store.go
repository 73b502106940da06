package store

import (
	"errors"
	"sort"

	"github.com/vttayde/smart-ship-app-sub000/pkg/courier"
)

// ErrDuplicateOrder indicates an order id already exists in the store.
var ErrDuplicateOrder = errors.New("order already exists")

func sortEventsNewestFirst(events []courier.TrackingEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
}
