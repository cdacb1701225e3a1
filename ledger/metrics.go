// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"time"

	"github.com/xylabs/xl1-ledger/builtin/staker/reverts"
	"github.com/xylabs/xl1-ledger/metrics"
)

var (
	metricOpCount         = metrics.LazyLoadCounterVec("ledger_ops_count", []string{"op", "status"})
	metricOpDuration      = metrics.LazyLoadHistogramVec("ledger_op_duration_us", []string{"op"}, metrics.BucketOpMicros)
	metricRejectedKinds   = metrics.LazyLoadCounterVec("ledger_rejections_count", []string{"kind"})
	metricMinStakeSetSize = metrics.LazyLoadGauge("ledger_min_stake_set_size")
	metricStakeCount      = metrics.LazyLoadGauge("ledger_stake_count")
	metricBlock           = metrics.LazyLoadGauge("ledger_block")
	metricEventsWritten   = metrics.LazyLoadCounter("ledger_events_written_count")
)

func observeOp(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "failed"
		if reverts.IsRevertErr(err) {
			status = "rejected"
			metricRejectedKinds().AddWithLabel(1, map[string]string{"kind": reverts.KindOf(err).String()})
		}
	}
	metricOpCount().AddWithLabel(1, map[string]string{"op": op, "status": status})
	metricOpDuration().ObserveWithLabels(time.Since(start).Microseconds(), map[string]string{"op": op})
}
