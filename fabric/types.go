package fabric

import (
	"errors"
	"fmt"
)

// Sentinel errors for message emission.
var (
	// ErrFieldNil is returned when the fabric is built without a gradient field.
	ErrFieldNil = errors.New("fabric: gradient field is nil")

	// ErrUnknownSource indicates a message names a source outside the topology.
	ErrUnknownSource = errors.New("fabric: unknown message source")

	// ErrDuplicateMessage indicates a (source, seq) pair was emitted twice.
	ErrDuplicateMessage = errors.New("fabric: duplicate message sequence")
)

// Kind distinguishes message payloads.
type Kind int

const (
	// KindProposal announces the role the source currently claims.
	KindProposal Kind = iota
	// KindNotice announces that the source lost a conflict and dropped its role.
	KindNotice
)

// String returns a short name for logs.
func (k Kind) String() string {
	switch k {
	case KindProposal:
		return "proposal"
	case KindNotice:
		return "notice"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Payload is the content carried by a message.
type Payload struct {
	Kind Kind
	// Role is the proposed role (KindProposal) or the contested role that was
	// given up (KindNotice).
	Role int
	// ProposedAt is the step at which the source proposed Role; tie-break
	// policies may compare it.
	ProposedAt int
	// Winner is the agent that kept the contested role (KindNotice only).
	Winner int
}

// Message is one logical update from a source agent.
type Message struct {
	Source  int
	Seq     int
	Payload Payload
	// SentAt is the step at which the source emitted the message.
	SentAt int
	// Gradient is the relaying holder's gradient to Source when this copy was
	// sent; 0 for the source's own emission.
	Gradient int
}

// key identifies a logical update for deduplication.
type key struct {
	source, seq int
}

func (m Message) key() key { return key{m.Source, m.Seq} }

// Delivery records one message hop accepted by a receiver.
type Delivery struct {
	Step    int
	From    int
	To      int
	Message Message
}

// Stats counts fabric traffic since the last Reset.
type Stats struct {
	// Emitted counts messages originated by sources.
	Emitted int
	// Transmissions counts every forward-only hop attempted.
	Transmissions int
	// Delivered counts first receipts.
	Delivered int
	// Suppressed counts hops dropped because the receiver already held the message.
	Suppressed int
}

// Option configures a Fabric.
type Option func(*Options)

// Options holds fabric callbacks.
type Options struct {
	// OnDeliver is called for every accepted delivery, in deterministic order.
	OnDeliver func(Delivery)
}

// DefaultOptions returns Options with no-op hooks.
func DefaultOptions() Options {
	return Options{OnDeliver: func(Delivery) {}}
}

// WithOnDeliver registers a delivery callback.
func WithOnDeliver(fn func(Delivery)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnDeliver = fn
		}
	}
}
