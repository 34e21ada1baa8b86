package event

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
)

// Queue names, one per change type. The broker gives FIFO within a single
// queue only; created/updated/deleted for the same product may arrive in
// any relative order.
const (
	QueueProductCreated = "product_created"
	QueueProductUpdated = "product_updated"
	QueueProductDeleted = "product_deleted"
)

func Queues() []string {
	return []string{QueueProductCreated, QueueProductUpdated, QueueProductDeleted}
}

// ProductChange is the body of created and updated events: a full snapshot
// of the canonical record at mutation time. The source id becomes the
// replica's admin_id on the consuming side.
type ProductChange struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
	Likes int64  `json:"likes"`
}

// Deleted events carry the raw decimal id string as the message body,
// not JSON.
func MarshalDeleted(id int64) []byte {
	return []byte(strconv.FormatInt(id, 10))
}

func UnmarshalDeleted(body []byte) (int64, error) {
	id, err := strconv.ParseInt(string(bytes.TrimSpace(body)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse deleted event id %q: %w", body, err)
	}
	return id, nil
}

// Publisher enqueues one message on the named queue. Implementations must
// fail hard while the broker connection is down; callers surface that as a
// failure of the triggering request.
type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}
