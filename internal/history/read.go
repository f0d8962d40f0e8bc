package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"hostwatch/internal/report"
)

// ReadCSV loads archived cycle samples from a CSV file.
func ReadCSV(path string) ([]report.Sample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return readCSV(file)
}

func readCSV(r io.Reader) ([]report.Sample, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	start := 0
	if len(records[0]) > 0 && records[0][0] == "timestamp" {
		start = 1
	}

	items := make([]report.Sample, 0, len(records)-start)
	for i := start; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 10 {
			return nil, fmt.Errorf("invalid record at line %d", i+1)
		}
		ts, err := time.Parse(time.RFC3339Nano, rec[0])
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp at line %d: %w", i+1, err)
		}
		cpu, _ := strconv.ParseFloat(rec[3], 64)
		memUsed, _ := strconv.ParseUint(rec[4], 10, 64)
		memTotal, _ := strconv.ParseUint(rec[5], 10, 64)
		bytesIn, _ := strconv.ParseUint(rec[6], 10, 64)
		bytesOut, _ := strconv.ParseUint(rec[7], 10, 64)
		reachable, _ := strconv.ParseBool(rec[8])
		incident, _ := strconv.ParseBool(rec[9])
		items = append(items, report.Sample{
			Timestamp:      ts,
			IP:             rec[1],
			Hostname:       rec[2],
			CPUUtilization: cpu,
			MemoryUsedMB:   memUsed,
			MemoryTotalMB:  memTotal,
			BytesIn:        bytesIn,
			BytesOut:       bytesOut,
			Reachable:      reachable,
			Incident:       incident,
		})
	}

	return items, nil
}
