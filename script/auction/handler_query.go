// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	setypes "github.com/meterio/meter-auction/script/types"
)

// HandleQuery returns the rlp encoded listing view or config.
func (a *Auction) HandleQuery(env *setypes.ScriptEnv, ab *AuctionBody, gas uint64) (leftOverGas uint64, err error) {
	var ret []byte
	defer func() {
		if err != nil {
			ret = []byte(err.Error())
		}
		env.SetReturnData(ret)
	}()
	leftOverGas = chargeGas(gas)

	st := env.GetState()
	engine := env.GetToAddr()
	switch ab.Opcode {
	case OP_QUERY_LISTING:
		listing := GetListing(st, engine, ab.ListingID)
		if listing == nil {
			err = ErrUnknownListing
			return
		}
		ret, err = encodeResult(listing.View(engine))
	case OP_QUERY_CONFIG:
		cfg := GetConfig(st, engine)
		if cfg == nil {
			err = ErrNotBootstrapped
			return
		}
		ret, err = encodeResult(cfg)
	default:
		err = errUnknownOpcode
	}
	return
}
