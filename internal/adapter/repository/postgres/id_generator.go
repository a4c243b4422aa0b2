package postgres

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates ULID-based IDs for database rows.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}

// NumberGenerator issues the customer-facing TXN and EM identifiers.
// Uniqueness is enforced by the database's unique constraints; this only
// has to make collisions unlikely.
type NumberGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewNumberGenerator creates a NumberGenerator.
func NewNumberGenerator() *NumberGenerator {
	return &NumberGenerator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// TransactionNumber returns an identifier like TXN1756600000000481516.
func (g *NumberGenerator) TransactionNumber() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fmt.Sprintf("TXN%d%06d", time.Now().UnixMilli(), g.rng.Intn(1000000))
}

// TrackingNumber returns a short uppercase code like EM4F7K2Q9D.
func (g *NumberGenerator) TrackingNumber() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"
	var b strings.Builder
	b.WriteString("EM")
	for i := 0; i < 10; i++ {
		b.WriteByte(alphabet[g.rng.Intn(len(alphabet))])
	}
	return b.String()
}
