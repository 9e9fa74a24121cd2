// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

// Constants of block chain.
const (
	BlockInterval uint64 = 10 // time interval between two consecutive blocks.

	TxGas     uint64 = 5000
	ClauseGas uint64 = 16000

	// InitialGasLimit gas limit value for each transaction in solo mode.
	InitialGasLimit uint64 = 200 * 1000 * 1000

	// MaxCallDepth bounds nested module messages emitted by one clause.
	MaxCallDepth = 8
)

// well-known addresses and storage keys
var (
	ZeroAddress = Address{}

	// 0x00000000006175637469...: ascii name padded from the left
	AuctionModuleAddr = BytesToAddress([]byte("auction-account-address"))
	RuntimeAddr       = BytesToAddress([]byte("runtime-address"))

	// key of the module id bound to an address
	KeyModuleID = Blake2b([]byte("module-id-key"))
	// key of the sequence used to derive instance addresses
	KeyInstanceSequence = Blake2b([]byte("instance-sequence-key"))
	// key of the best block header, stored under RuntimeAddr
	KeyBestBlock = Blake2b([]byte("best-block-key"))

	// auction engine storage, under the engine address
	AuctionConfigKey     = Blake2b([]byte("auction-config-key"))
	AuctionPendingKey    = Blake2b([]byte("auction-pending-key"))
	AuctionListingPrefix = []byte("auction-listing")
)

// BalanceKey is the storage key holding the balance of denom.
func BalanceKey(denom string) Bytes32 {
	return Blake2b([]byte("balance"), []byte(denom))
}
