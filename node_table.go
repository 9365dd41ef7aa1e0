package cfr

import (
	"fmt"

	"github.com/golang/glog"
)

// NodeTable maps information set keys to their Node.
// Entries are created lazily and never evicted.
type NodeTable[K comparable] map[K]*Node

// Lookup returns the node for key, if it has been visited.
func (t NodeTable[K]) Lookup(key K) (*Node, bool) {
	n, ok := t[key]
	return n, ok
}

// Len returns the number of information sets in the table.
func (t NodeTable[K]) Len() int {
	return len(t)
}

// Merge folds other into t: strategy sums are added for keys present in
// both tables, and nodes for unseen keys are copied in wholesale.
func (t NodeTable[K]) Merge(other NodeTable[K]) {
	for key, node := range other {
		if existing, ok := t[key]; ok {
			existing.Merge(node)
		} else {
			t[key] = node.Clone()
		}
	}
}

// Clone returns a deep copy of the table.
func (t NodeTable[K]) Clone() NodeTable[K] {
	result := make(NodeTable[K], len(t))
	for key, node := range t {
		result[key] = node.Clone()
	}

	return result
}

func (t NodeTable[K]) getOrCreate(key K, nActions int) *Node {
	node, ok := t[key]
	if !ok {
		node = NewNode(nActions, nil)
		t[key] = node
		if len(t)%100000 == 0 {
			glog.V(2).Infof("%d infosets", len(t))
		}
	}

	if node.NumActions() != nActions {
		panic(fmt.Errorf("node has n_actions=%v but state has %v legal actions: key %v",
			node.NumActions(), nActions, key))
	}

	return node
}
