// Package tissue implements the ordered stack of tissues that the player pulls from.
// The pool has no capacity of its own; the session decides when to refill it.
package tissue

import (
	"fmt"
	"math/rand"
)

// DefaultMaxRotation is the cosmetic tilt range in degrees (±).
const DefaultMaxRotation = 3.0

// ID uniquely identifies a tissue within one session.
type ID string

// Tissue is a single sheet in the box.
type Tissue struct {
	ID       ID
	Rotation float64 // Degrees, cosmetic only
	Message  string  // Empty when the tissue carries no message
}

// HasMessage reports whether a message has been written on the tissue.
func (t Tissue) HasMessage() bool {
	return t.Message != ""
}

// Pool is the ordered tissue stack. Index 0 is the next tissue to pull.
// Pool is not safe for concurrent use; the session controller serializes access.
type Pool struct {
	tissues     []Tissue
	nextID      int
	rng         *rand.Rand
	maxRotation float64
}

// NewPool creates an empty pool. The seed drives rotation values only.
func NewPool(seed int64, maxRotation float64) *Pool {
	if maxRotation < 0 {
		maxRotation = -maxRotation
	}
	return &Pool{
		tissues:     make([]Tissue, 0, 16),
		rng:         rand.New(rand.NewSource(seed)),
		maxRotation: maxRotation,
	}
}

// Reset removes every tissue and restarts id numbering.
func (p *Pool) Reset() {
	p.tissues = p.tissues[:0]
	p.nextID = 0
}

// Refill appends n new tissues to the end of the pool.
// Tissue i gets messages[i] when present; extra tissues stay blank.
// Returns the appended tissues.
func (p *Pool) Refill(n int, messages []string) []Tissue {
	if n <= 0 {
		return nil
	}

	start := len(p.tissues)
	for i := 0; i < n; i++ {
		p.nextID++
		t := Tissue{
			ID:       ID(fmt.Sprintf("t-%d", p.nextID)),
			Rotation: p.rotation(),
		}
		if i < len(messages) {
			t.Message = messages[i]
		}
		p.tissues = append(p.tissues, t)
	}

	added := make([]Tissue, n)
	copy(added, p.tissues[start:])
	return added
}

// rotation returns a value in [-maxRotation, maxRotation].
func (p *Pool) rotation() float64 {
	if p.maxRotation == 0 {
		return 0
	}
	return p.rng.Float64()*2*p.maxRotation - p.maxRotation
}

// Remove deletes the tissue with the given id.
// Returns false if no such tissue exists (e.g. a duplicate pull).
func (p *Pool) Remove(id ID) bool {
	for i, t := range p.tissues {
		if t.ID == id {
			p.tissues = append(p.tissues[:i], p.tissues[i+1:]...)
			return true
		}
	}
	return false
}

// AssignMessages writes messages, in order, onto tissues that have none.
// Tissues that already carry a message are never touched.
// Returns how many messages were consumed from the front of the slice.
func (p *Pool) AssignMessages(messages []string) int {
	used := 0
	for i := range p.tissues {
		if used >= len(messages) {
			break
		}
		if p.tissues[i].HasMessage() {
			continue
		}
		p.tissues[i].Message = messages[used]
		used++
	}
	return used
}

// Len returns the number of tissues in the pool.
func (p *Pool) Len() int {
	return len(p.tissues)
}

// Top returns the next tissue to pull.
func (p *Pool) Top() (Tissue, bool) {
	if len(p.tissues) == 0 {
		return Tissue{}, false
	}
	return p.tissues[0], true
}

// Tissues returns a copy of the pool in stacking order.
func (p *Pool) Tissues() []Tissue {
	out := make([]Tissue, len(p.tissues))
	copy(out, p.tissues)
	return out
}

// Unlabeled counts tissues without a message.
func (p *Pool) Unlabeled() int {
	n := 0
	for _, t := range p.tissues {
		if !t.HasMessage() {
			n++
		}
	}
	return n
}
