package fabric

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/swarmrole/gradient"
	"github.com/katalvlaran/swarmrole/topology"
)

// Fabric moves messages between neighbouring agents, one hop per Step.
// It is not safe for concurrent mutation; Inbox may be read concurrently
// between two Steps.
type Fabric struct {
	topo    *topology.Topology
	field   *gradient.Field
	opts    Options
	step    int
	pending [][]Message // per holder: messages to relay on the next Step
	inbox   [][]Message // per agent: messages delivered by the last Step
	seen    []map[key]struct{}
	stats   Stats
}

// New returns an empty fabric over the field's topology.
func New(field *gradient.Field, opts ...Option) (*Fabric, error) {
	if field == nil {
		return nil, ErrFieldNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	fb := &Fabric{
		topo:  field.Topology(),
		field: field,
		opts:  o,
	}
	fb.Reset()
	return fb, nil
}

// Reset drops every in-flight message, inbox and dedup record and rewinds the
// clock to step 0.
func (fb *Fabric) Reset() {
	n := fb.topo.Len()
	fb.step = 0
	fb.pending = make([][]Message, n)
	fb.inbox = make([][]Message, n)
	fb.seen = make([]map[key]struct{}, n)
	for i := range fb.seen {
		fb.seen[i] = make(map[key]struct{})
	}
	fb.stats = Stats{}
}

// Now returns the number of completed Steps.
func (fb *Fabric) Now() int { return fb.step }

// Emit queues a message originated by m.Source; it leaves the source on the
// next Step. SentAt and Gradient are stamped by the fabric.
func (fb *Fabric) Emit(m Message) error {
	if !fb.topo.Valid(m.Source) {
		return fmt.Errorf("%w: %d", ErrUnknownSource, m.Source)
	}
	k := m.key()
	if _, dup := fb.seen[m.Source][k]; dup {
		return fmt.Errorf("%w: source %d seq %d", ErrDuplicateMessage, m.Source, m.Seq)
	}
	fb.seen[m.Source][k] = struct{}{}
	m.SentAt = fb.step
	m.Gradient = 0
	fb.pending[m.Source] = append(fb.pending[m.Source], m)
	fb.stats.Emitted++
	return nil
}

// Step advances simulated time by one hop and returns the number of
// deliveries. Every holder relays each pending message to the neighbours
// farther from the message's source; first receipts land in the receiver's
// inbox and are scheduled for relay on the following Step.
func (fb *Fabric) Step() int {
	fb.step++
	n := fb.topo.Len()
	next := make([][]Message, n)
	for i := range fb.inbox {
		fb.inbox[i] = fb.inbox[i][:0]
	}

	delivered := 0
	for holder := 0; holder < n; holder++ {
		for _, m := range fb.pending[holder] {
			hg, _ := fb.field.Gradient(m.Source, holder)
			fb.topo.EachNeighbor(holder, func(nbr int) bool {
				ng, ok := fb.field.Gradient(m.Source, nbr)
				if !ok || ng <= hg {
					return true
				}
				fb.stats.Transmissions++
				k := m.key()
				if _, dup := fb.seen[nbr][k]; dup {
					fb.stats.Suppressed++
					return true
				}
				fb.seen[nbr][k] = struct{}{}

				hop := m
				hop.Gradient = hg
				fb.inbox[nbr] = append(fb.inbox[nbr], hop)
				next[nbr] = append(next[nbr], hop)
				fb.stats.Delivered++
				delivered++
				fb.opts.OnDeliver(Delivery{Step: fb.step, From: holder, To: nbr, Message: hop})
				return true
			})
		}
	}
	fb.pending = next

	for i := range fb.inbox {
		sortMessages(fb.inbox[i])
	}
	return delivered
}

// Inbox returns a copy of the messages delivered to id by the last Step,
// ordered by (source, seq).
func (fb *Fabric) Inbox(id int) []Message {
	if !fb.topo.Valid(id) {
		return nil
	}
	out := make([]Message, len(fb.inbox[id]))
	copy(out, fb.inbox[id])
	return out
}

// Pending returns the number of messages waiting to be relayed, including
// fresh emissions and copies whose holders have no farther neighbour.
func (fb *Fabric) Pending() int {
	total := 0
	for _, p := range fb.pending {
		total += len(p)
	}
	return total
}

// InFlight reports whether any pending message can still move forward.
func (fb *Fabric) InFlight() bool {
	for holder, msgs := range fb.pending {
		for _, m := range msgs {
			hg, _ := fb.field.Gradient(m.Source, holder)
			moving := false
			fb.topo.EachNeighbor(holder, func(nbr int) bool {
				if ng, ok := fb.field.Gradient(m.Source, nbr); ok && ng > hg {
					moving = true
					return false
				}
				return true
			})
			if moving {
				return true
			}
		}
	}
	return false
}

// Stats returns traffic counters since the last Reset.
func (fb *Fabric) Stats() Stats { return fb.stats }

func sortMessages(ms []Message) {
	sort.Slice(ms, func(i, j int) bool {
		if ms[i].Source != ms[j].Source {
			return ms[i].Source < ms[j].Source
		}
		return ms[i].Seq < ms[j].Seq
	})
}
