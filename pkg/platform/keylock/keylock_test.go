package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := New()
	const goroutines = 50

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("candidate-1")
			defer km.Unlock("candidate-1")
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines, counter)
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	km := New()
	km.Lock("a")

	done := make(chan struct{})
	go func() {
		km.Lock("b")
		km.Unlock("b")
		close(done)
	}()
	<-done // must not deadlock while "a" is held

	km.Unlock("a")
}

func TestKeyedMutex_ReleasesEntries(t *testing.T) {
	km := New()
	km.Lock("x")
	km.Unlock("x")

	km.mu.Lock()
	defer km.mu.Unlock()
	assert.Empty(t, km.locks)
}
