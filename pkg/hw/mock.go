package hw

import (
	"sync"

	pkgerrors "github.com/pkg/errors"
)

// MockClock is an in-memory Clock that counts gate operations. Tests
// and simulated slots use it in place of a real clock gate.
type MockClock struct {
	// EnableErr, when set, is returned by every Enable call.
	EnableErr error

	mu       sync.Mutex
	enabled  bool
	enables  int
	disables int
}

func NewMockClock() *MockClock {
	return &MockClock{}
}

func (c *MockClock) Enable() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.enables++
	if c.EnableErr != nil {
		return c.EnableErr
	}
	c.enabled = true
	return nil
}

func (c *MockClock) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.disables++
	c.enabled = false
}

func (c *MockClock) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

func (c *MockClock) Enables() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enables
}

func (c *MockClock) Disables() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disables
}

// MockLineArray records batch writes. Lines start asserted, the same
// state a freshly requested reset line array is driven to.
type MockLineArray struct {
	mu     sync.Mutex
	values []bool
	writes int
	closed bool
}

func NewMockLineArray(count int) *MockLineArray {
	values := make([]bool, count)
	for i := range values {
		values[i] = true
	}
	return &MockLineArray{values: values}
}

func (l *MockLineArray) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.values)
}

func (l *MockLineArray) SetValues(values []bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return pkgerrors.New("line array is closed")
	}
	if len(values) != len(l.values) {
		return pkgerrors.Errorf("expected %d values, got %d", len(l.values), len(values))
	}

	copy(l.values, values)
	l.writes++
	return nil
}

func (l *MockLineArray) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// Values returns a copy of the last driven line states.
func (l *MockLineArray) Values() []bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]bool, len(l.values))
	copy(out, l.values)
	return out
}

func (l *MockLineArray) Writes() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writes
}

// MockRegulator stores a voltage in memory.
type MockRegulator struct {
	mu sync.Mutex
	uv int
}

func NewMockRegulator(microvolts int) *MockRegulator {
	return &MockRegulator{uv: microvolts}
}

func (r *MockRegulator) Microvolts() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uv, nil
}

func (r *MockRegulator) SetVoltage(minUV, maxUV int) error {
	if minUV > maxUV {
		return pkgerrors.Errorf("invalid voltage range [%d, %d]", minUV, maxUV)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.uv = minUV
	return nil
}
