// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages contract storage of the ledger.
// It follows the flow as bellow:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ bulk write ]
//	         |
//	   [ kv store ]
//
// Every ledger operation runs between NewCheckpoint and either RevertTo or
// Commit, so a failed operation leaves no trace in the store.
package state
