package shutdown

import (
	"sync"
	"testing"
	"time"

	"risk-assessor/internal/logger"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mu    sync.Mutex
	order []string
}

func (r *recorder) add(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, name)
}

type component struct {
	name  string
	rec   *recorder
	block time.Duration
}

func (c component) Shutdown() {
	time.Sleep(c.block)
	c.rec.add(c.name)
}

func TestManager_ReverseOrderOnce(t *testing.T) {
	rec := &recorder{}
	m := NewManager(logger.NopLogger{})
	m.Register("store", component{name: "store", rec: rec})
	m.Register("controller", component{name: "controller", rec: rec})

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, []string{"controller", "store"}, rec.order)
	select {
	case <-m.done:
	default:
		t.Fatal("done channel not closed")
	}
}

func TestManager_StepTimeout(t *testing.T) {
	rec := &recorder{}
	m := NewManager(logger.NopLogger{})
	m.SetStepTimeout(10 * time.Millisecond)
	m.Register("fast", component{name: "fast", rec: rec})
	m.Register("slow", component{name: "slow", rec: rec, block: 200 * time.Millisecond})

	start := time.Now()
	m.Shutdown()

	assert.Less(t, time.Since(start), 150*time.Millisecond)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []string{"fast"}, rec.order)
}
