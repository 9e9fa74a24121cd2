// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"math/big"

	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
)

// loadAsset checks the ledger and the asset exist.
func loadAsset(st *state.State, addr meter.Address, id *big.Int) (*Asset, error) {
	if GetInfo(st, addr) == nil {
		return nil, ErrNoLedger
	}
	if id == nil || id.Sign() < 0 || id.BitLen() > 256 {
		return nil, ErrInvalidAssetID
	}
	asset := GetAsset(st, addr, id)
	if asset == nil {
		return nil, ErrAssetNotFound
	}
	return asset, nil
}

func (c *Custody) HandleTransfer(env *setypes.ScriptEnv, cb *CustodyBody, gas uint64) (leftOverGas uint64, err error) {
	var ret []byte
	defer func() {
		if err != nil {
			ret = []byte(err.Error())
		}
		env.SetReturnData(ret)
	}()
	leftOverGas = chargeGas(gas)

	st := env.GetState()
	addr := env.GetToAddr()
	caller := env.GetCaller()
	asset, err := loadAsset(st, addr, cb.AssetID)
	if err != nil {
		return
	}
	if asset.Owner != caller {
		c.logger.Info("transfer by non owner", "asset", asset.ID, "owner", asset.Owner, "caller", caller)
		err = ErrNotOwner
		return
	}

	moveAsset(st, addr, asset, cb.Recipient)
	addCustodyEvent(env, "transfer", caller, cb.Recipient, asset)
	return
}

func (c *Custody) HandleTransferFrom(env *setypes.ScriptEnv, cb *CustodyBody, gas uint64) (leftOverGas uint64, err error) {
	var ret []byte
	defer func() {
		if err != nil {
			ret = []byte(err.Error())
		}
		env.SetReturnData(ret)
	}()
	leftOverGas = chargeGas(gas)

	st := env.GetState()
	addr := env.GetToAddr()
	caller := env.GetCaller()
	asset, err := loadAsset(st, addr, cb.AssetID)
	if err != nil {
		return
	}
	if asset.Owner != cb.Owner {
		c.logger.Info("transfer from non owner", "asset", asset.ID, "owner", asset.Owner, "from", cb.Owner)
		err = ErrNotOwner
		return
	}
	approved := asset.Approved != nil && *asset.Approved == caller
	if caller != asset.Owner && !approved && !IsOperator(st, addr, asset.Owner, caller) {
		c.logger.Info("caller not approved", "asset", asset.ID, "caller", caller)
		err = ErrNotApproved
		return
	}

	moveAsset(st, addr, asset, cb.Recipient)
	addCustodyEvent(env, "transfer_from", cb.Owner, cb.Recipient, asset)
	return
}

func (c *Custody) HandleApprove(env *setypes.ScriptEnv, cb *CustodyBody, gas uint64) (leftOverGas uint64, err error) {
	var ret []byte
	defer func() {
		if err != nil {
			ret = []byte(err.Error())
		}
		env.SetReturnData(ret)
	}()
	leftOverGas = chargeGas(gas)

	st := env.GetState()
	addr := env.GetToAddr()
	caller := env.GetCaller()
	asset, err := loadAsset(st, addr, cb.AssetID)
	if err != nil {
		return
	}
	if caller != asset.Owner && !IsOperator(st, addr, asset.Owner, caller) {
		c.logger.Info("approve by non owner", "asset", asset.ID, "owner", asset.Owner, "caller", caller)
		err = ErrCannotApprove
		return
	}

	spender := cb.Spender
	asset.Approved = &spender
	SetAsset(st, addr, asset)
	addCustodyEvent(env, "approve", caller, spender, asset)
	return
}

func (c *Custody) HandleApproveAll(env *setypes.ScriptEnv, cb *CustodyBody, gas uint64) (leftOverGas uint64, err error) {
	var ret []byte
	defer func() {
		if err != nil {
			ret = []byte(err.Error())
		}
		env.SetReturnData(ret)
	}()
	leftOverGas = chargeGas(gas)

	st := env.GetState()
	addr := env.GetToAddr()
	caller := env.GetCaller()
	if GetInfo(st, addr) == nil {
		err = ErrNoLedger
		return
	}
	if cb.Spender == caller {
		err = ErrInvalidOperator
		return
	}

	setOperator(st, addr, caller, cb.Spender, cb.Approved)
	action := "approve_all"
	if !cb.Approved {
		action = "revoke_all"
	}
	env.AddEvent(EventKind,
		attr("action", action),
		attr("sender", caller.String()),
		attr("operator", cb.Spender.String()),
	)
	return
}

func (c *Custody) HandleMint(env *setypes.ScriptEnv, cb *CustodyBody, gas uint64) (leftOverGas uint64, err error) {
	var ret []byte
	defer func() {
		if err != nil {
			ret = []byte(err.Error())
		}
		env.SetReturnData(ret)
	}()
	leftOverGas = chargeGas(gas)

	st := env.GetState()
	addr := env.GetToAddr()
	caller := env.GetCaller()
	info := GetInfo(st, addr)
	if info == nil {
		err = ErrNoLedger
		return
	}

	asset := &Asset{
		ID:    new(big.Int).Set(info.Minted),
		Name:  cb.Name,
		URI:   cb.URI,
		Owner: caller,
	}
	SetAsset(st, addr, asset)
	setBalance(st, addr, caller, GetBalance(st, addr, caller)+1)
	info.Minted = new(big.Int).Add(info.Minted, big.NewInt(1))
	SetInfo(st, addr, info)

	env.AddEvent(EventKind,
		attr("action", "mint"),
		attr("recipient", caller.String()),
		attr("asset_id", asset.ID.String()),
	)
	ret, err = encodeResult(asset.ID)
	return
}

// HandleQuery writes the rlp encoded result as return data.
func (c *Custody) HandleQuery(env *setypes.ScriptEnv, cb *CustodyBody, gas uint64) (leftOverGas uint64, err error) {
	var ret []byte
	defer func() {
		if err != nil {
			ret = []byte(err.Error())
		}
		env.SetReturnData(ret)
	}()
	leftOverGas = chargeGas(gas)

	st := env.GetState()
	addr := env.GetToAddr()
	info := GetInfo(st, addr)
	if info == nil {
		err = ErrNoLedger
		return
	}

	switch cb.Opcode {
	case OP_QUERY_INFO:
		ret, err = encodeResult(info)
	case OP_QUERY_BALANCE:
		ret, err = encodeResult(GetBalance(st, addr, cb.Owner))
	default:
		var asset *Asset
		if asset, err = loadAsset(st, addr, cb.AssetID); err != nil {
			return
		}
		switch cb.Opcode {
		case OP_QUERY_OWNER:
			ret, err = encodeResult(asset.Owner)
		case OP_QUERY_APPROVAL:
			ret, err = encodeResult(&Approval{Approved: asset.Approved})
		default:
			ret, err = encodeResult(asset)
		}
	}
	return
}

// Approval is the result of OP_QUERY_APPROVAL.
type Approval struct {
	Approved *meter.Address `rlp:"nil"`
}
