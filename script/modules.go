// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/script/custody"
	setypes "github.com/meterio/meter-auction/script/types"
)

func ModuleAuctionInit(se *ScriptEngine) *auction.Auction {
	a := auction.NewAuction()
	mod := &Module{
		modName:      setypes.AUCTION_MODULE_NAME,
		modID:        setypes.AUCTION_MODULE_ID,
		modHandler:   a.Handler,
		replyHandler: a.HandleReply,
	}
	if err := se.modReg.Register(setypes.AUCTION_MODULE_ID, mod); err != nil {
		panic("register auction module failed")
	}

	se.logger.Info("ScriptEngine", "started module", mod.modName)
	return a
}

func ModuleCustodyInit(se *ScriptEngine) *custody.Custody {
	c := custody.NewCustody()
	mod := &Module{
		modName:     setypes.CUSTODY_MODULE_NAME,
		modID:       setypes.CUSTODY_MODULE_ID,
		modHandler:  c.Handler,
		initHandler: c.InitHandler,
	}
	if err := se.modReg.Register(setypes.CUSTODY_MODULE_ID, mod); err != nil {
		panic("register custody module failed")
	}

	se.logger.Info("ScriptEngine", "started module", mod.modName)
	return c
}
