// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventlog

import (
	"context"
	"database/sql"
	"math/big"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/xylabs/xl1-ledger/xl1"
)

type EventLog struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open event log at given path.
func New(path string) (log *EventLog, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if log == nil {
			db.Close()
		}
	}()
	// a memory database exists per connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventLog{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create an event log in ram.
func NewMem() (*EventLog, error) {
	return New(":memory:")
}

// Close close the event log.
func (l *EventLog) Close() error {
	return l.db.Close()
}

func (l *EventLog) Path() string {
	return l.path
}

func (l *EventLog) DriverVersion() string {
	return l.driverVersion
}

// NewBatch starts a set of events written in one transaction.
func (l *EventLog) NewBatch() *Batch {
	return &Batch{db: l.db}
}

// LastSeq returns the sequence number of the newest event, 0 if empty.
func (l *EventLog) LastSeq(ctx context.Context) (uint64, error) {
	var seq sql.NullInt64
	if err := l.db.QueryRowContext(ctx, "SELECT MAX(seq) FROM event").Scan(&seq); err != nil {
		return 0, err
	}
	return uint64(seq.Int64), nil
}

// After returns up to limit events with a sequence number above seq, oldest first.
func (l *EventLog) After(ctx context.Context, seq uint64, limit uint64) ([]*Event, error) {
	return l.query(ctx, "SELECT * FROM event WHERE seq > ? ORDER BY seq ASC LIMIT ?", seq, limit)
}

func (l *EventLog) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	if filter == nil {
		return l.query(ctx, "SELECT * FROM event ORDER BY seq ASC")
	}
	metricsHandleFilter(filter)

	var (
		args []any
		stmt strings.Builder
	)
	stmt.WriteString("SELECT * FROM event WHERE 1")
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt.WriteString(" AND blockNumber >= ?")
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt.WriteString(" AND blockNumber <= ?")
		}
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt.WriteString(" AND (( 1")
		} else {
			stmt.WriteString(" OR ( 1")
		}
		if criteria.Name != nil {
			args = append(args, *criteria.Name)
			stmt.WriteString(" AND name = ?")
		}
		if criteria.Address != nil {
			args = append(args, criteria.Address.Bytes(), criteria.Address.Bytes())
			stmt.WriteString(" AND (staker = ? OR staked = ?)")
		}
		if criteria.Staker != nil {
			args = append(args, criteria.Staker.Bytes())
			stmt.WriteString(" AND staker = ?")
		}
		if criteria.Staked != nil {
			args = append(args, criteria.Staked.Bytes())
			stmt.WriteString(" AND staked = ?")
		}
		stmt.WriteString(" )")
	}
	if len(filter.CriteriaSet) > 0 {
		stmt.WriteString(")")
	}

	if filter.Order == DESC {
		stmt.WriteString(" ORDER BY seq DESC")
	} else {
		stmt.WriteString(" ORDER BY seq ASC")
	}

	if filter.Options != nil {
		stmt.WriteString(" LIMIT ?, ?")
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return l.query(ctx, stmt.String(), args...)
}

func (l *EventLog) query(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := l.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq         uint64
			name        string
			blockNumber uint32
			staker      []byte
			staked      []byte
			stakeID     sql.NullInt64
			amount      sql.NullString
		)
		if err := rows.Scan(
			&seq,
			&name,
			&blockNumber,
			&staker,
			&staked,
			&stakeID,
			&amount,
		); err != nil {
			return nil, err
		}
		event := &Event{
			Seq:         seq,
			Name:        name,
			BlockNumber: blockNumber,
			Staker:      xl1.BytesToAddress(staker),
			Staked:      xl1.BytesToAddress(staked),
		}
		if stakeID.Valid {
			id := uint64(stakeID.Int64)
			event.StakeID = &id
		}
		if amount.Valid {
			v, ok := new(big.Int).SetString(amount.String, 10)
			if !ok {
				return nil, errors.Errorf("invalid amount %q at seq %d", amount.String, seq)
			}
			event.Amount = v
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

type Batch struct {
	db     *sql.DB
	events []*Event
}

func (b *Batch) Add(events ...*Event) *Batch {
	b.events = append(b.events, events...)
	return b
}

func (b *Batch) Len() int {
	return len(b.events)
}

func (b *Batch) execInTx(proc func(*sql.Tx) error) error {
	tx, err := b.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Commit writes the batch and assigns sequence numbers to its events.
func (b *Batch) Commit() error {
	if len(b.events) == 0 {
		return nil
	}
	return b.execInTx(func(tx *sql.Tx) error {
		for _, event := range b.events {
			var stakeID, amount any
			if event.StakeID != nil {
				stakeID = int64(*event.StakeID)
			}
			if event.Amount != nil {
				amount = event.Amount.String()
			}
			res, err := tx.Exec("INSERT INTO event(name, blockNumber, staker, staked, stakeID, amount) VALUES (?, ?, ?, ?, ?, ?);",
				event.Name,
				event.BlockNumber,
				event.Staker.Bytes(),
				event.Staked.Bytes(),
				stakeID,
				amount,
			)
			if err != nil {
				return err
			}
			seq, err := res.LastInsertId()
			if err != nil {
				return err
			}
			event.Seq = uint64(seq)
		}
		return nil
	})
}
