// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

const (
	eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	blockID BLOB(32) NOT NULL,
	eventIndex INTEGER NOT NULL,
	blockNumber INTEGER NOT NULL,
	blockTime INTEGER NOT NULL,
	txID BLOB(32) NOT NULL,
	txOrigin BLOB(20) NOT NULL,
	address BLOB(20) NOT NULL,
	kind TEXT NOT NULL,
	attributes BLOB,
	PRIMARY KEY (blockID, eventIndex)
);
CREATE INDEX IF NOT EXISTS eventI0 ON event(blockNumber);
CREATE INDEX IF NOT EXISTS eventI1 ON event(address, kind);
`
	attributeTableSchema = `CREATE TABLE IF NOT EXISTS attribute (
	blockID BLOB(32) NOT NULL,
	eventIndex INTEGER NOT NULL,
	attrKey TEXT NOT NULL,
	attrValue TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS attributeI0 ON attribute(attrKey, attrValue);
CREATE INDEX IF NOT EXISTS attributeI1 ON attribute(blockID, eventIndex);
`
	transferTableSchema = `CREATE TABLE IF NOT EXISTS transfer (
	blockID BLOB(32) NOT NULL,
	transferIndex INTEGER NOT NULL,
	blockNumber INTEGER NOT NULL,
	blockTime INTEGER NOT NULL,
	txID BLOB(32) NOT NULL,
	txOrigin BLOB(20) NOT NULL,
	sender BLOB(20) NOT NULL,
	recipient BLOB(20) NOT NULL,
	denom TEXT NOT NULL,
	amount BLOB(32),
	PRIMARY KEY (blockID, transferIndex)
);
CREATE INDEX IF NOT EXISTS transferI0 ON transfer(blockNumber);
CREATE INDEX IF NOT EXISTS transferI1 ON transfer(sender);
CREATE INDEX IF NOT EXISTS transferI2 ON transfer(recipient);
`
)
