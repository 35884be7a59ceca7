package services

import (
	"fmt"
	"log"
	"math/rand/v2"
	"time"
)

const (
	orderNumberPrefix   = "ORD"
	paymentIDPrefix     = "PAY"
	transactionIDPrefix = "TXN"

	identifierAttempts = 10
	identifierSpread   = 10000
)

// IdentifierGenerator produces human-readable ids of the form PREFIX-<epoch millis>-<0..9999>.
type IdentifierGenerator struct {
	now      func() time.Time
	intn     func(n int) int
	attempts int
}

// NewIdentifierGenerator returns a generator backed by the wall clock and math/rand.
func NewIdentifierGenerator() *IdentifierGenerator {
	return &IdentifierGenerator{
		now:      time.Now,
		intn:     rand.IntN,
		attempts: identifierAttempts,
	}
}

// NewIdentifierGeneratorWith lets callers control the clock and random source.
func NewIdentifierGeneratorWith(now func() time.Time, intn func(n int) int) *IdentifierGenerator {
	return &IdentifierGenerator{now: now, intn: intn, attempts: identifierAttempts}
}

func (g *IdentifierGenerator) candidate(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, g.now().UnixMilli(), g.intn(identifierSpread))
}

// Generate returns the first candidate that exists reports as free. After the retry
// budget is spent, or when exists fails, it returns one more candidate unchecked.
// A nil exists skips the uniqueness check. Generate never fails.
func (g *IdentifierGenerator) Generate(prefix string, exists func(candidate string) (bool, error)) string {
	if exists == nil {
		return g.candidate(prefix)
	}
	for attempt := 0; attempt < g.attempts; attempt++ {
		id := g.candidate(prefix)
		taken, err := exists(id)
		if err != nil {
			log.Printf("Uniqueness check for %s identifier failed, using unchecked fallback: %v", prefix, err)
			break
		}
		if !taken {
			return id
		}
	}
	return g.candidate(prefix)
}
