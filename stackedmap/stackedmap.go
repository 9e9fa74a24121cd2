// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap

// MapGetter defines getter method of map.
type MapGetter func(key interface{}) (value interface{}, exist bool)

// StackedMap maintains maps in a stack.
// Each map inherits key/value of map that is at lower level.
// It acts as a map with save-restore/snapshot-revert manner.
type StackedMap struct {
	src      MapGetter
	mapStack stack
	keyRevs  map[interface{}]*stack
}

type level struct {
	kvs     map[interface{}]interface{}
	journal []*journalEntry
}

type journalEntry struct {
	key   interface{}
	value interface{}
}

func newLevel() *level {
	return &level{kvs: make(map[interface{}]interface{})}
}

// New create an instance of StackedMap.
// src acts as source of data.
func New(src MapGetter) *StackedMap {
	return &StackedMap{
		src:      src,
		mapStack: stack{newLevel()},
		keyRevs:  make(map[interface{}]*stack),
	}
}

// Depth returns depth of stack.
func (sm *StackedMap) Depth() int {
	return len(sm.mapStack)
}

// Push pushes a new map on stack.
// It returns stack depth before push.
func (sm *StackedMap) Push() int {
	sm.mapStack.push(newLevel())
	return len(sm.mapStack) - 1
}

// Pop pop the map at top of stack.
// It will revert all Put operations since last Push.
func (sm *StackedMap) Pop() {
	if len(sm.mapStack) <= 1 {
		panic("stackedmap: pop on base level")
	}
	// audit key revisions
	top := sm.mapStack.pop().(*level)
	for key := range top.kvs {
		revs := sm.keyRevs[key]
		revs.pop()
		if len(*revs) == 0 {
			delete(sm.keyRevs, key)
		}
	}
}

// PopTo pops maps until stack depth reaches depth.
func (sm *StackedMap) PopTo(depth int) {
	if depth < 1 {
		depth = 1
	}
	for len(sm.mapStack) > depth {
		sm.Pop()
	}
}

// Get gets value for given key.
// The second return value indicates whether the given key is found.
func (sm *StackedMap) Get(key interface{}) (interface{}, bool) {
	if revs, ok := sm.keyRevs[key]; ok {
		lvl := sm.mapStack[revs.top().(int)].(*level)
		return lvl.kvs[key], true
	}
	if sm.src != nil {
		return sm.src(key)
	}
	return nil, false
}

// Put puts key value into map at stack top.
func (sm *StackedMap) Put(key, value interface{}) {
	topIdx := len(sm.mapStack) - 1
	top := sm.mapStack[topIdx].(*level)
	if _, exist := top.kvs[key]; !exist {
		revs, ok := sm.keyRevs[key]
		if !ok {
			revs = &stack{}
			sm.keyRevs[key] = revs
		}
		revs.push(topIdx)
	}
	top.kvs[key] = value
	top.journal = append(top.journal, &journalEntry{key: key, value: value})
}

// Journal traverses journal entries of all Put operations.
// The traverse will be aborted if fn returns false.
func (sm *StackedMap) Journal(fn func(key, value interface{}) bool) {
	for _, item := range sm.mapStack {
		for _, entry := range item.(*level).journal {
			if !fn(entry.key, entry.value) {
				return
			}
		}
	}
}

type stack []interface{}

func (s *stack) push(v interface{}) {
	*s = append(*s, v)
}

func (s *stack) pop() interface{} {
	last := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return last
}

func (s stack) top() interface{} {
	return s[len(s)-1]
}
