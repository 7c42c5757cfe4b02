package project

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

type ProbeResult struct {
	X float64
	Y float64
	Z float64
}

func parseProbeCSV(input string) (ProbeResult, error) {
	parts := strings.Split(input, ",")
	if len(parts) != 3 {
		return ProbeResult{}, fmt.Errorf("expected three comma separated values")
	}
	var values [3]float64
	for i := range parts {
		val, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return ProbeResult{}, err
		}
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return ProbeResult{}, fmt.Errorf("value %q is not a finite number", strings.TrimSpace(parts[i]))
		}
		values[i] = val
	}
	return ProbeResult{X: values[0], Y: values[1], Z: values[2]}, nil
}

// Parse_probe_results reads one x,y,z triple per line. Blank lines and
// lines starting with '#' are skipped.
func Parse_probe_results(r io.Reader) ([]ProbeResult, error) {
	var results []ProbeResult
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		result, err := parseProbeCSV(line)
		if err != nil {
			return nil, fmt.Errorf("probe results line %d: %w", lineno, err)
		}
		results = append(results, result)
	}
	return results, scanner.Err()
}

// probeGeometry is the grid the mesh points were probed on.
func (self *LevelingContext) probeGeometry() *GridGeometry {
	if abl, ok := self.strategy.(*BilinearLeveling); ok {
		return abl.geom
	}
	return self.strategy.Geometry()
}

// Ingest_probe_results stores each result at its nearest grid point.
// Results off the mesh or without a finite height are skipped; the count
// stored is returned.
func (self *LevelingContext) Ingest_probe_results(results []ProbeResult) int {
	self.checkOwner("ingest_probe_results")
	geom := self.probeGeometry()
	stored := 0
	for _, result := range results {
		x, y := geom.Closest_index(result.X, X_AXIS), geom.Closest_index(result.Y, Y_AXIS)
		if x < 0 || y < 0 {
			self.log.Warnf("probe result at (%.3f, %.3f) is off the mesh", result.X, result.Y)
			continue
		}
		if math.IsNaN(result.Z) || math.IsInf(result.Z, 0) {
			self.log.Warnf("probe result at (%.3f, %.3f) has no finite height", result.X, result.Y)
			continue
		}
		self.strategy.Mesh().Set(x, y, result.Z)
		stored++
	}
	if stored > 0 {
		self.strategy.Refresh()
	}
	return stored
}
