// Package pdf renders trip blueprints with gofpdf.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/yanqian/trip-blueprint/internal/domain/blueprint"
	"github.com/yanqian/trip-blueprint/pkg/util"
)

// Renderer produces A4 blueprint summaries.
type Renderer struct {
	title string
}

// NewRenderer constructs a renderer. title is printed in the header bar.
func NewRenderer(title string) *Renderer {
	if title == "" {
		title = "Trip Blueprint"
	}
	return &Renderer{title: title}
}

// Render implements export.Renderer.
func (r *Renderer) Render(bp blueprint.Blueprint) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetMargins(20, 20, 20)
	doc.SetTitle(tr(r.title+": "+bp.TripDetails.DestinationName), false)
	doc.AddPage()

	doc.SetFillColor(18, 52, 86)
	doc.Rect(0, 0, 210, 26, "F")
	doc.SetTextColor(255, 255, 255)
	doc.SetFont("Helvetica", "B", 18)
	doc.SetXY(20, 8)
	doc.CellFormat(170, 10, tr(r.title), "", 1, "L", false, 0, "")
	doc.SetY(34)
	doc.SetTextColor(0, 0, 0)

	section := func(title string) {
		doc.SetFillColor(18, 52, 86)
		doc.SetTextColor(255, 255, 255)
		doc.SetFont("Helvetica", "B", 11)
		doc.CellFormat(170, 8, "  "+tr(title), "", 1, "L", true, 0, "")
		doc.SetTextColor(0, 0, 0)
		doc.Ln(2)
	}
	row := func(label, value string) {
		doc.SetFont("Helvetica", "", 10)
		doc.SetTextColor(100, 100, 100)
		doc.CellFormat(55, 7, tr(label), "", 0, "L", false, 0, "")
		doc.SetTextColor(20, 20, 20)
		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(115, 7, tr(value), "", 1, "L", false, 0, "")
	}

	d := bp.TripDetails
	section("Trip")
	row("Route", d.Origin+" -> "+d.DestinationName)
	row("Departure", readableDate(d.DepartureDate))
	row("Duration", fmt.Sprintf("%d day(s)", d.Duration))
	row("Travelers", fmt.Sprintf("%d", d.Travelers))
	row("Driving distance", fmt.Sprintf("%.0f km", bp.Route.DistanceKm))
	doc.Ln(4)

	section("Weather")
	for _, day := range bp.WeatherForecast {
		row(readableDate(day.Date), fmt.Sprintf("%s, %.0f / %.0f C", day.Description, day.TempMax, day.TempMin))
	}
	doc.Ln(4)

	section("Transport")
	t := bp.TransportOptions
	row("Flight (per person)", fare(t.Flight.CostPerPerson))
	row("Bus (per person)", fare(t.Bus.CostPerPerson))
	row("Car (total)", rupees(t.Car.TotalCost))
	doc.Ln(4)

	section("Stay")
	row("Hotel estimate", rupees(bp.Accommodation.EstimatedTotalCost))
	doc.Ln(4)

	doc.SetFillColor(240, 190, 70)
	doc.SetTextColor(18, 52, 86)
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(55, 9, "TOTAL ESTIMATE", "", 0, "L", true, 0, "")
	doc.CellFormat(115, 9, tr(fmt.Sprintf("%s (%s per person)", rupees(bp.Budget.TotalEstimatedCost), rupees(bp.Budget.CostPerPerson))), "", 1, "L", true, 0, "")

	doc.SetY(-22)
	doc.SetFont("Helvetica", "I", 8)
	doc.SetTextColor(150, 150, 150)
	doc.CellFormat(0, 8, tr("Generated "+bp.GeneratedAt.UTC().Format(time.RFC1123)+" - estimates only, not a booking"), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

func fare(cost *int) string {
	if cost == nil {
		return "not available"
	}
	return rupees(*cost)
}

func rupees(v int) string {
	return fmt.Sprintf("Rs. %d", v)
}

func readableDate(iso string) string {
	t, err := util.ParseDate(iso)
	if err != nil {
		return iso
	}
	return t.Format("02 Jan 2006 (Mon)")
}
