package domain

import (
	"time"

	"github.com/google/uuid"
)

type Entity string

const (
	EntityProduct Entity = "product"
	EntityOrder   Entity = "order"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// ChangeEvent is broadcast after every successful mutation so that other
// instances can drop their cached analytics.
type ChangeEvent struct {
	Entity Entity    `json:"entity"`
	ID     uuid.UUID `json:"id"`
	Action Action    `json:"action"`
	At     time.Time `json:"at"`
}
