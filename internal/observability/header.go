package observability

import (
	"fmt"
	"net/http"
	"strconv"
)

// AppendServerTiming adds one Server-Timing metric. Non-positive durations
// are dropped; a metric with neither duration nor description is skipped.
func AppendServerTiming(w http.ResponseWriter, name string, durMs float64, desc string) {
	metric := name
	if durMs > 0 {
		metric += fmt.Sprintf(";dur=%.2f", durMs)
	}
	if desc != "" {
		metric += fmt.Sprintf(";desc=%q", desc)
	}
	if metric == name {
		return
	}
	w.Header().Add("Server-Timing", metric)
}

func SetIfPos(w http.ResponseWriter, key string, ms float64) {
	if ms > 0 {
		w.Header().Set(key, fmt.Sprintf("%.2f", ms))
	}
}

func SetInt(w http.ResponseWriter, key string, v int) {
	w.Header().Set(key, strconv.Itoa(v))
}
