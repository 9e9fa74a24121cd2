// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
)

const (
	AUCTION_MODULE_NAME = string("auction")
	AUCTION_MODULE_ID   = uint32(1001)

	CUSTODY_MODULE_NAME = string("custody")
	CUSTODY_MODULE_ID   = uint32(1003)
)

var (
	ScriptPrefix  = [4]byte{0xff, 0xff, 0xff, 0xff}
	ScriptPattern = [4]byte{0xde, 0xad, 0xbe, 0xef} //pattern: deadbeef

	errNotScriptData = errors.New("not script data")
)

type ScriptData struct {
	Header  ScriptHeader
	Payload []byte
}

// UniteHash hashes header and payload.
func (s *ScriptData) UniteHash() (hash meter.Bytes32) {
	hw := meter.NewBlake2b()
	err := rlp.Encode(hw, []interface{}{
		s.Header.Version,
		s.Header.ModID,
		meter.Blake2b(s.Payload),
	})
	if err != nil {
		return
	}
	hw.Sum(hash[:0])
	return
}

type ScriptHeader struct {
	Version uint32
	ModID   uint32
}

func (sh *ScriptHeader) GetVersion() uint32 { return sh.Version }
func (sh *ScriptHeader) GetModID() uint32   { return sh.ModID }

func (sh *ScriptHeader) ToString() string {
	return fmt.Sprintf("ScriptHeader:::  Version: %v, ModID: %v", sh.Version, sh.ModID)
}

// IsScriptData reports whether clause data carries a script.
func IsScriptData(data []byte) bool {
	n := len(ScriptPrefix) + len(ScriptPattern)
	return len(data) > n &&
		bytes.Equal(data[:len(ScriptPrefix)], ScriptPrefix[:]) &&
		bytes.Equal(data[len(ScriptPrefix):n], ScriptPattern[:])
}

// EncodeScriptData wraps the rlp of body as clause data addressed to module modID.
func EncodeScriptData(modID uint32, body interface{}) ([]byte, error) {
	payload, err := rlp.EncodeToBytes(body)
	if err != nil {
		return nil, err
	}
	data, err := rlp.EncodeToBytes(&ScriptData{Header: ScriptHeader{Version: uint32(0), ModID: modID}, Payload: payload})
	if err != nil {
		return nil, err
	}
	script := make([]byte, 0, len(ScriptPrefix)+len(ScriptPattern)+len(data))
	script = append(script, ScriptPrefix[:]...)
	script = append(script, ScriptPattern[:]...)
	return append(script, data...), nil
}

// DecodeScriptData unwraps clause data produced by EncodeScriptData.
func DecodeScriptData(data []byte) (*ScriptData, error) {
	if !IsScriptData(data) {
		return nil, errNotScriptData
	}
	script := ScriptData{}
	err := rlp.DecodeBytes(data[len(ScriptPrefix)+len(ScriptPattern):], &script)
	return &script, err
}
