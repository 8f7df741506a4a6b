package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Problem is one arithmetic exercise. The answer travels with the problem:
// correctness is judged by the client, the server never re-checks it. That
// matches the in-browser generator and is a documented trust gap.
type Problem struct {
	A      int    `json:"a"`
	Op     string `json:"op"`
	B      int    `json:"b"`
	Answer int    `json:"answer"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%d %s %d = ?", p.A, p.Op, p.B)
}

// Generator produces an infinite, restartable stream of problems, one per
// Next call, with no retained history. Safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a generator seeded from the clock.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic generator, handy in tests.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Next picks an operator uniformly from {+, -, *}. Addition and
// subtraction use operands in [1,50], with the subtrahend drawn from
// [1,first] so the result is never negative. Multiplication uses operands
// in [1,12].
func (g *Generator) Next() Problem {
	g.mu.Lock()
	defer g.mu.Unlock()

	var p Problem
	switch g.rnd.Intn(3) {
	case 0:
		p.A = g.rnd.Intn(50) + 1
		p.B = g.rnd.Intn(50) + 1
		p.Op = "+"
		p.Answer = p.A + p.B
	case 1:
		p.A = g.rnd.Intn(50) + 1
		p.B = g.rnd.Intn(p.A) + 1
		p.Op = "-"
		p.Answer = p.A - p.B
	default:
		p.A = g.rnd.Intn(12) + 1
		p.B = g.rnd.Intn(12) + 1
		p.Op = "*"
		p.Answer = p.A * p.B
	}
	return p
}
