package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ImportedRows = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "classtrack", Name: "csv_rows_imported_total", Help: "CSV rows inserted or updated",
	})
	SkippedRows = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "classtrack", Name: "csv_rows_skipped_total", Help: "CSV rows skipped (missing username or name)",
	})
	FailedRows = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "classtrack", Name: "csv_rows_failed_total", Help: "CSV rows that failed to persist",
	})
	FailedLogins = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "classtrack", Name: "failed_logins_total", Help: "Rejected login attempts",
	})
)

func init() {
	prometheus.MustRegister(ImportedRows, SkippedRows, FailedRows, FailedLogins)
}

func Handler() http.Handler { return promhttp.Handler() }
