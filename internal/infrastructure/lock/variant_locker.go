package lock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/electro-api/internal/domain"
)

// KeyedLocker implementa inventory.VariantLocker en proceso: un lock exclusivo
// por variante con espera acotada. Cada lock es un canal con capacidad 1; los
// locks se toman en orden lexicográfico para que dos operaciones multi-variante
// no se interbloqueen.
type KeyedLocker struct {
	mu      sync.Mutex
	locks   map[string]chan struct{}
	maxWait time.Duration
}

// NewKeyedLocker construye el locker. maxWait acota la espera por variante;
// al agotarse, Acquire falla con domain.ErrLockTimeout (reintentable).
func NewKeyedLocker(maxWait time.Duration) *KeyedLocker {
	if maxWait <= 0 {
		maxWait = 3 * time.Second
	}
	return &KeyedLocker{locks: make(map[string]chan struct{}), maxWait: maxWait}
}

func (l *KeyedLocker) lockFor(variantID string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.locks[variantID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[variantID] = ch
	}
	return ch
}

// Acquire toma la sección exclusiva de cada variante pedida (orden estable,
// sin duplicados) o falla con ErrLockTimeout sin retener ninguna. El release
// devuelto libera todas; llamarlo más de una vez es inocuo.
func (l *KeyedLocker) Acquire(ctx context.Context, variantIDs ...string) (func(), error) {
	ids := dedupSorted(variantIDs)
	deadline := time.NewTimer(l.maxWait)
	defer deadline.Stop()

	held := make([]chan struct{}, 0, len(ids))
	releaseHeld := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}
	for _, id := range ids {
		ch := l.lockFor(id)
		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		case <-deadline.C:
			releaseHeld()
			return nil, domain.ErrLockTimeout
		case <-ctx.Done():
			releaseHeld()
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() { once.Do(releaseHeld) }, nil
}

func dedupSorted(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
