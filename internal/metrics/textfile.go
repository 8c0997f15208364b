// Package metrics exports the process's Prometheus metrics for short-lived
// CLI runs, which cannot be scraped.
package metrics

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile writes every metric known to g in the node_exporter textfile
// collector format.  A nil gatherer means prometheus.DefaultGatherer.  The
// target must end in .prom for the collector to pick it up.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("metrics file path is empty")
	}
	if filepath.Ext(path) != ".prom" {
		return fmt.Errorf("metrics file %q must have a .prom extension", path)
	}
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
