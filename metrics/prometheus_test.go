// Copyright (c) 2025 The XL1 Ledger developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/require"
)

func gatherMap(t *testing.T) map[string]*dto.MetricFamily {
	families, err := Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		out[mf.GetName()] = mf
	}
	return out
}

func TestPromMetrics(t *testing.T) {
	metrics = defaultNoopMetrics()
	InitializePrometheusMetrics()
	require.True(t, Enabled())

	count1 := Counter("count1")
	countVec := CounterVec("countVec1", []string{"zeroOrOne"})
	hist := Histogram("hist1", BucketOpMicros)
	gauge1 := Gauge("gauge1")
	gaugeVec := GaugeVec("gaugeVec1", []string{"zeroOrOne"})

	count1.Add(1)
	for range 7 {
		Counter("count2").Add(1)
	}

	total := 0
	for i := range 10 {
		label := map[string]string{"zeroOrOne": strconv.Itoa(i % 2)}
		hist.Observe(int64(i))
		countVec.AddWithLabel(int64(i), label)
		gaugeVec.AddWithLabel(int64(i), label)
		gauge1.Add(int64(i))
		total += i
	}
	gaugeVec.SetWithLabel(100, map[string]string{"zeroOrOne": "0"})

	m := gatherMap(t)
	require.Equal(t, float64(1), m["xl1_count1"].Metric[0].GetCounter().GetValue())
	require.Equal(t, float64(7), m["xl1_count2"].Metric[0].GetCounter().GetValue())
	require.Equal(t, float64(total), m["xl1_hist1"].Metric[0].GetHistogram().GetSampleSum())
	require.Equal(t, float64(total), m["xl1_gauge1"].Metric[0].GetGauge().GetValue())

	sumCountVec := m["xl1_countVec1"].Metric[0].GetCounter().GetValue() +
		m["xl1_countVec1"].Metric[1].GetCounter().GetValue()
	require.Equal(t, float64(total), sumCountVec)

	// label "1" accumulated 1+3+5+7+9, label "0" was overwritten
	sumGaugeVec := m["xl1_gaugeVec1"].Metric[0].GetGauge().GetValue() +
		m["xl1_gaugeVec1"].Metric[1].GetGauge().GetValue()
	require.Equal(t, float64(125), sumGaugeVec)

	server := httptest.NewServer(HTTPHandler())
	t.Cleanup(server.Close)
	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	parser := expfmt.TextParser{}
	served, err := parser.TextToMetricFamilies(resp.Body)
	require.NoError(t, err)
	require.Equal(t, float64(1), served["xl1_count1"].GetMetric()[0].GetCounter().GetValue())
	require.Equal(t, float64(total), served["xl1_hist1"].GetMetric()[0].GetHistogram().GetSampleSum())
}

func TestLazyLoading(t *testing.T) {
	metrics = defaultNoopMetrics()

	for _, a := range []any{
		Gauge("noopGauge"),
		GaugeVec("noopGauge", nil),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
		Histogram("noopHist", nil),
		HistogramVec("noopHist", nil, nil),
	} {
		require.IsType(t, &noopMeters{}, a)
	}

	lazyGauge := LazyLoadGauge("lazyGauge")
	lazyGaugeVec := LazyLoadGaugeVec("lazyGaugeVec", nil)
	lazyCounter := LazyLoadCounter("lazyCounter")
	lazyCounterVec := LazyLoadCounterVec("lazyCounterVec", nil)
	lazyHistogram := LazyLoadHistogram("lazyHistogram", nil)
	lazyHistogramVec := LazyLoadHistogramVec("lazyHistogramVec", nil, nil)

	// after initialization, newly created metrics become of the prometheus type
	InitializePrometheusMetrics()

	require.IsType(t, &promGaugeMeter{}, lazyGauge())
	require.IsType(t, &promGaugeVecMeter{}, lazyGaugeVec())
	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promCountVecMeter{}, lazyCounterVec())
	require.IsType(t, &promHistogramMeter{}, lazyHistogram())
	require.IsType(t, &promHistogramVecMeter{}, lazyHistogramVec())
}
