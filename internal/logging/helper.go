package logging

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// buildErrorChain walks an error's cause chain and returns the messages
// outermost first plus the root (innermost) message. Depth is bounded and
// repeated messages stop the walk, guarding against pathological cycles.
func buildErrorChain(err error) (chain []string, root string) {
	const maxDepth = 50
	seen := map[string]bool{}

	for depth := 0; err != nil && depth < maxDepth; depth++ {
		msg := err.Error()
		if seen[msg] {
			break
		}
		seen[msg] = true
		chain = append(chain, msg)
		err = errors.Unwrap(err)
	}

	if len(chain) > 0 {
		root = chain[len(chain)-1]
	}
	return chain, root
}

// joinChain renders the chain as a single arrow-separated history string.
func joinChain(chain []string) string {
	if len(chain) == 0 {
		return ""
	}
	return strings.Join(chain, " -> ")
}

// waitTimeout waits on wg up to d. It reports false when the timeout fired
// before the group drained.
func waitTimeout(wg *sync.WaitGroup, d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}
