package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/keywordtrends/internal/aggregate"
	"github.com/hyperifyio/keywordtrends/internal/query"
)

// ChartTitle is the heading drawn above a range's bar chart.
func ChartTitle(r query.DateRange) string {
	return fmt.Sprintf("On Page 0 ~ 9, Top Ten Common Keywords In AI Articles During %s ~ %s", r.Begin, r.End)
}

// Layout of the plot area on a landscape A4 page, in mm.
const (
	plotLeft   = 30.0
	plotTop    = 30.0
	plotWidth  = 240.0
	plotHeight = 110.0
	labelWidth = 45.0
)

// WriteChartPDF renders entries as a vertical bar chart with keyword labels
// along the x axis and counts on the y axis.
func WriteChartPDF(path string, r query.DateRange, entries []aggregate.Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir report dir: %w", err)
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(ChartTitle(r), true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 10, tr(ChartTitle(r)), "", 1, "C", false, 0, "")

	maxCount := 0
	for _, e := range entries {
		if e.Count > maxCount {
			maxCount = e.Count
		}
	}
	step := tickStep(maxCount)
	top := step * int(math.Ceil(float64(maxCount)/float64(step)))
	if top == 0 {
		top = step
	}

	// Axes and y ticks
	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(0.3)
	pdf.Line(plotLeft, plotTop, plotLeft, plotTop+plotHeight)
	pdf.Line(plotLeft, plotTop+plotHeight, plotLeft+plotWidth, plotTop+plotHeight)
	pdf.SetFont("Helvetica", "", 8)
	for v := 0; v <= top; v += step {
		y := plotTop + plotHeight - plotHeight*float64(v)/float64(top)
		pdf.Line(plotLeft-1.5, y, plotLeft, y)
		pdf.SetXY(plotLeft-16, y-2)
		pdf.CellFormat(14, 4, strconv.Itoa(v), "", 0, "R", false, 0, "")
	}

	// Bars
	if n := len(entries); n > 0 {
		slot := plotWidth / float64(n)
		barW := slot * 0.6
		pdf.SetFillColor(135, 206, 235) // skyblue
		for i, e := range entries {
			h := plotHeight * float64(e.Count) / float64(top)
			x := plotLeft + slot*float64(i) + (slot-barW)/2
			y := plotTop + plotHeight - h
			pdf.Rect(x, y, barW, h, "F")

			pdf.SetXY(x, y-4)
			pdf.CellFormat(barW, 4, strconv.Itoa(e.Count), "", 0, "C", false, 0, "")

			// Rotated label hanging below the axis, right-aligned to the bar centre.
			cx := x + barW/2
			ly := plotTop + plotHeight + 2
			pdf.TransformBegin()
			pdf.TransformRotate(45, cx, ly)
			pdf.SetXY(cx-labelWidth, ly)
			pdf.CellFormat(labelWidth, 4, tr(truncateLabel(e.Keyword, 40)), "", 0, "R", false, 0, "")
			pdf.TransformEnd()
		}
	} else {
		pdf.SetXY(plotLeft, plotTop+plotHeight/2)
		pdf.CellFormat(plotWidth, 6, "No keywords collected for this range", "", 0, "C", false, 0, "")
	}

	// Axis titles
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(plotLeft, plotTop+plotHeight+labelWidth)
	pdf.CellFormat(plotWidth, 6, "keywords", "", 0, "C", false, 0, "")
	pdf.TransformBegin()
	pdf.TransformRotate(90, 12, plotTop+plotHeight/2)
	pdf.SetXY(12-plotHeight/2, plotTop+plotHeight/2-3)
	pdf.CellFormat(plotHeight, 6, "Amount", "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	return pdf.OutputFileAndClose(path)
}

// tickStep picks a 1/2/5 x 10^n step giving at most about ten ticks.
func tickStep(max int) int {
	if max <= 10 {
		return 1
	}
	raw := float64(max) / 10
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 5, 10} {
		if raw <= m*mag {
			return int(m * mag)
		}
	}
	return int(10 * mag)
}

func truncateLabel(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
