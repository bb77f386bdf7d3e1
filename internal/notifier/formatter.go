package notifier

import (
	"fmt"
	"strings"
	"time"

	"GasSentinel/internal/exporter"
	"GasSentinel/internal/model"
)

const timeLayout = "2006-01-02 15:04:05 MST"

func inZone(ms int64, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMilli(ms).In(loc).Format(timeLayout)
}

// FormatPrices renders the latest sample, or a waiting notice when there is none.
func FormatPrices(s model.Sample, ok bool, level model.PriceLevel, loc *time.Location) string {
	if !ok {
		return "No data available yet, please wait..."
	}
	var b strings.Builder
	b.WriteString("⛽ Current Gas Prices\n\n")
	b.WriteString(fmt.Sprintf("Slow:     %d gwei\n", s.Slow))
	b.WriteString(fmt.Sprintf("Standard: %d gwei (%s)\n", s.Standard, level))
	b.WriteString(fmt.Sprintf("Fast:     %d gwei\n", s.Fast))
	b.WriteString(fmt.Sprintf("Updated:  %s", inZone(s.Timestamp, loc)))
	return b.String()
}

// FormatRecommendation renders a recommendation. Prices are only shown once
// enough history exists to decide.
func FormatRecommendation(rec model.Recommendation) string {
	var b strings.Builder
	b.WriteString("💡 Recommendation\n\n")
	b.WriteString(fmt.Sprintf("Status: %s\n", rec.Label.Message()))
	b.WriteString(fmt.Sprintf("Confidence: %d%%", rec.Confidence))
	if rec.Decided() {
		b.WriteString(fmt.Sprintf("\nCurrent: %d gwei\n", rec.CurrentPrice))
		b.WriteString(fmt.Sprintf("24h avg: %d gwei", rec.AveragePrice))
	}
	return b.String()
}

// FormatTrend renders the trend together with the last-hour average, if any.
func FormatTrend(trend model.Trend, avg1h int64, ok bool) string {
	var b strings.Builder
	b.WriteString("📈 Price Trend\n\n")
	b.WriteString(fmt.Sprintf("Current trend: %s", trend))
	if ok {
		b.WriteString(fmt.Sprintf("\n1h avg: %d gwei", avg1h))
	}
	return b.String()
}

// FormatStatistics renders the window summary. Nil stats means no data.
func FormatStatistics(stats *model.Statistics, count, limit int) string {
	if stats == nil {
		return "No data available yet, please wait..."
	}
	var b strings.Builder
	b.WriteString("📊 Statistics\n\n")
	b.WriteString(fmt.Sprintf("Samples: %d/%d\n", count, limit))
	b.WriteString(fmt.Sprintf("Min: %d gwei | Max: %d gwei\n", stats.Min, stats.Max))
	b.WriteString(fmt.Sprintf("Average: %d gwei | Median: %d gwei\n", stats.Average, stats.Median))
	b.WriteString(fmt.Sprintf("From: %s\n", stats.DataRange.From))
	b.WriteString(fmt.Sprintf("To:   %s", stats.DataRange.To))
	return b.String()
}

// FormatExport renders the outcome of one export.
func FormatExport(res *exporter.Result) string {
	return fmt.Sprintf("✅ Exported %d records to %s", res.RecordCount, res.Path)
}

// FormatExports renders the export directory listing.
func FormatExports(files []exporter.File, loc *time.Location) string {
	if len(files) == 0 {
		return "No exports found"
	}
	var b strings.Builder
	b.WriteString("📁 Exports\n")
	for _, f := range files {
		b.WriteString(fmt.Sprintf("\n%s  %d bytes  %s", f.Name, f.Size, inZone(f.ModTime.UnixMilli(), loc)))
	}
	return b.String()
}

// FormatAlert renders the low-price notification.
func FormatAlert(s model.Sample, threshold int64, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("🔔 Low gas price alert\n\n")
	b.WriteString(fmt.Sprintf("Standard: %d gwei (threshold %d gwei)\n", s.Standard, threshold))
	b.WriteString(fmt.Sprintf("Slow: %d | Fast: %d\n", s.Slow, s.Fast))
	b.WriteString(fmt.Sprintf("At: %s", inZone(s.Timestamp, loc)))
	return b.String()
}

// HelpText lists the chat commands.
const HelpText = "Available commands:\n/price - current gas prices\n/recommend - transaction timing advice\n/trend - price trend\n/stats - history statistics"
