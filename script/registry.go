// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"fmt"
	"sort"
	"sync"

	setypes "github.com/meterio/meter-auction/script/types"
)

type handlerFunc func(senv *setypes.ScriptEnv, payload []byte, gas uint64) (seOutput *setypes.ScriptEngineOutput, leftOverGas uint64, err error)

type replyFunc func(senv *setypes.ScriptEnv, replyID uint64, outcome *setypes.ReplyOutcome, gas uint64) (seOutput *setypes.ScriptEngineOutput, leftOverGas uint64, err error)

// Module is one script module known to the engine.
// initHandler is nil for modules that can not be instantiated,
// replyHandler is nil for modules that never await replies.
type Module struct {
	modName      string
	modID        uint32
	modHandler   handlerFunc
	initHandler  handlerFunc
	replyHandler replyFunc
}

func (m *Module) ToString() string {
	return fmt.Sprintf("Module::: Name: %v, ID: %v", m.modName, m.modID)
}

// Registry is the hub of all modules on the chain
type Registry struct {
	Modules sync.Map
}

func (r *Registry) Register(modID uint32, p *Module) error {
	_, loaded := r.Modules.LoadOrStore(modID, *p)
	if loaded {
		return fmt.Errorf("Module with ID %v is already registered", modID)
	}
	return nil
}

// Find by ID
func (r *Registry) Find(modID uint32) (*Module, bool) {
	value, ok := r.Modules.Load(modID)
	if !ok {
		return nil, false
	}
	p, ok := value.(Module)
	if !ok {
		panic("Registry stores the item which is not a Module")
	}
	return &p, true
}

// All returns modules ordered by id.
func (r *Registry) All() []Module {
	all := make([]Module, 0)
	r.Modules.Range(func(_, value interface{}) bool {
		p, ok := value.(Module)
		if !ok {
			panic("Registry stores the item which is not a module")
		}
		all = append(all, p)
		return true
	})
	sort.Slice(all, func(i, j int) bool { return all[i].modID < all[j].modID })
	return all
}
