// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

import (
	"encoding/binary"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// NewBlake2b return blake2b-256 hash.
func NewBlake2b() hash.Hash {
	// New256 only fails on oversized keys
	h, _ := blake2b.New256(nil)
	return h
}

// Blake2b computes blake2b-256 checksum for given data.
func Blake2b(data ...[]byte) (b32 Bytes32) {
	h := NewBlake2b()
	for _, b := range data {
		h.Write(b)
	}
	h.Sum(b32[:0])
	return
}

// CreateAddress derives the address of the seq-th instance created by creator.
func CreateAddress(creator Address, seq uint64) Address {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], seq)
	h := Blake2b([]byte("instance"), creator[:], n[:])
	return BytesToAddress(h[12:])
}
