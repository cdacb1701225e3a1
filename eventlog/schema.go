// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventlog

// create a table for staking events
const eventTableSchema = `
create table if not exists event (
	seq integer primary key autoincrement,
	name text not null,
	blockNumber integer not null,
	staker blob(20),
	staked blob(20),
	stakeID integer,
	amount text
);

CREATE INDEX if not exists eventNameIndex on event(name);
CREATE INDEX if not exists eventBlockIndex on event(blockNumber);
CREATE INDEX if not exists eventStakerIndex on event(staker);
CREATE INDEX if not exists eventStakedIndex on event(staked);
`
