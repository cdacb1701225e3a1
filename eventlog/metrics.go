// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventlog

import (
	"strings"

	"github.com/xylabs/xl1-ledger/metrics"
)

var (
	metricCriteriaLengthBucket = metrics.LazyLoadHistogram("eventlog_criteria_length_bucket", []int64{0, 1, 2, 5, 10, 25})
	metricQueryParameters      = metrics.LazyLoadCounterVec("eventlog_query_parameters", []string{"parameters"})
	metricQueryOrderCounter    = metrics.LazyLoadCounterVec("eventlog_query_order", []string{"order"})
	metricLimitBucket          = metrics.LazyLoadHistogram("eventlog_query_limit_bucket", []int64{
		0, 5, 10, 25, 50, 100, 250, 500, 1000,
	})
)

func metricsHandleFilter(filter *Filter) {
	if !metrics.Enabled() {
		return
	}

	metricCriteriaLengthBucket().Observe(int64(len(filter.CriteriaSet)))
	order := "asc"
	if filter.Order == DESC {
		order = "desc"
	}
	metricQueryOrderCounter().AddWithLabel(1, map[string]string{"order": order})

	if filter.Options != nil {
		metricLimitBucket().Observe(int64(min(filter.Options.Limit, 1001)))
	}

	for _, c := range filter.CriteriaSet {
		var used []string
		if c.Name != nil {
			used = append(used, "name")
		}
		if c.Address != nil {
			used = append(used, "address")
		}
		if c.Staker != nil {
			used = append(used, "staker")
		}
		if c.Staked != nil {
			used = append(used, "staked")
		}
		metricQueryParameters().AddWithLabel(1, map[string]string{"parameters": strings.Join(used, ",")})
	}
}
