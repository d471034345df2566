package transform

import (
	"fmt"
	"sort"
	"sync"
)

// Global operation registry. Operations register themselves in init and are
// immutable afterwards, so concurrent readers never race with writers in
// practice; the lock keeps the registry safe for tests that add their own.
var (
	registry   = make(map[string]Operation)
	registryMu sync.RWMutex
)

// Register adds an operation to the global registry.
func Register(op Operation) error {
	if op == nil {
		return fmt.Errorf("cannot register nil operation")
	}

	name := op.Name()
	if name == "" {
		return fmt.Errorf("operation name cannot be empty")
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[name]; exists {
		return fmt.Errorf("operation %s is already registered", name)
	}

	registry[name] = op
	return nil
}

// Lookup retrieves an operation by name.
func Lookup(name string) (Operation, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	op, exists := registry[name]
	return op, exists
}

// List returns all registered operations sorted by name.
func List() []Operation {
	registryMu.RLock()
	defer registryMu.RUnlock()

	ops := make([]Operation, 0, len(registry))
	for _, op := range registry {
		ops = append(ops, op)
	}

	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Name() < ops[j].Name()
	})

	return ops
}

// ListByType returns registered operations of the given type, sorted by name.
func ListByType(opType OperationType) []Operation {
	registryMu.RLock()
	defer registryMu.RUnlock()

	ops := make([]Operation, 0)
	for _, op := range registry {
		if op.Type() == opType {
			ops = append(ops, op)
		}
	}

	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Name() < ops[j].Name()
	})

	return ops
}
