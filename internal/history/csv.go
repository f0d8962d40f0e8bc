package history

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"hostwatch/internal/report"
)

var header = []string{
	"timestamp",
	"ip",
	"hostname",
	"cpu_utilization",
	"memory_used_mb",
	"memory_total_mb",
	"network_bytes_in",
	"network_bytes_out",
	"remote_connection",
	"incident",
}

// WriteCSV writes samples to CSV with a fixed column order.
func WriteCSV(w io.Writer, items []report.Sample) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return err
	}
	for _, s := range items {
		if err := writer.Write(record(s)); err != nil {
			return err
		}
	}
	return writer.Error()
}

// AppendCSV appends samples to the CSV at path, creating it (with a
// header row) when missing.
func AppendCSV(path string, items []report.Sample) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	writer := csv.NewWriter(f)
	defer writer.Flush()

	if info.Size() == 0 {
		if err := writer.Write(header); err != nil {
			return err
		}
	}
	for _, s := range items {
		if err := writer.Write(record(s)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func record(s report.Sample) []string {
	return []string{
		s.Timestamp.UTC().Format(time.RFC3339Nano),
		s.IP,
		s.Hostname,
		strconv.FormatFloat(s.CPUUtilization, 'f', 1, 64),
		strconv.FormatUint(s.MemoryUsedMB, 10),
		strconv.FormatUint(s.MemoryTotalMB, 10),
		strconv.FormatUint(s.BytesIn, 10),
		strconv.FormatUint(s.BytesOut, 10),
		strconv.FormatBool(s.Reachable),
		strconv.FormatBool(s.Incident),
	}
}
