package mcp

import (
	"sync"

	"github.com/rendis/flowtree/pkg/schema"
)

// ConversionRegistry keeps conversion results in memory so the query tool
// can address them by id for the lifetime of the server process.
type ConversionRegistry struct {
	mu    sync.RWMutex
	trees map[string]*schema.ProcessTree
}

func NewConversionRegistry() *ConversionRegistry {
	return &ConversionRegistry{trees: make(map[string]*schema.ProcessTree)}
}

func (r *ConversionRegistry) Put(id string, tree *schema.ProcessTree) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trees[id] = tree
}

func (r *ConversionRegistry) Get(id string) (*schema.ProcessTree, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tree, ok := r.trees[id]
	return tree, ok
}

func (r *ConversionRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.trees, id)
}

func (r *ConversionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.trees)
}
