package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"p9e.in/fleet/models"
)

// ReportPDF renders one inspection report as a fixed-layout Letter PDF and
// returns the document bytes.
func ReportPDF(r *models.Report) ([]byte, error) {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetMargins(50, 50, 50)
	doc.AddPage()

	field := func(v interface{}) string {
		switch x := v.(type) {
		case *string:
			if x != nil {
				return *x
			}
		case *int:
			if x != nil {
				return fmt.Sprintf("%d", *x)
			}
		case *float64:
			if x != nil {
				return trimFloat(*x)
			}
		}
		return "______"
	}

	labeled := func(label, value string) {
		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(doc.GetStringWidth(label+": ")+2, 14, label+":", "", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		doc.CellFormat(0, 14, value, "", 1, "L", false, 0, "")
	}

	checkbox := func(label string, checked *bool) {
		box := "[ ]"
		if checked != nil && *checked {
			box = "[X]"
		}
		doc.SetFont("Helvetica", "", 10)
		doc.CellFormat(0, 14, fmt.Sprintf("%s %s", box, label), "", 1, "L", false, 0, "")
	}

	section := func(title string) {
		doc.Ln(6)
		doc.SetFont("Helvetica", "B", 12)
		doc.CellFormat(0, 16, title, "", 1, "L", false, 0, "")
		doc.Ln(2)
	}

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 24, "VEHICLE CONDITION REPORT", "", 1, "C", false, 0, "")
	doc.Ln(6)

	labeled("VEHICLE NO", r.VehicleNumber)
	labeled("DATE", r.InspectionDate.String())
	labeled("INSPECTOR", r.InspectorName)

	section("Vehicle Information")
	labeled("Make of Vehicle", field(r.Make))
	labeled("Year", field(r.Year))
	labeled("Mileage", field(r.Mileage))
	labeled("Last Mileage Serviced", field(r.LastMileageServiced))
	labeled("Hour Meter", field(r.HourMeter))
	labeled("Hours PTO", field(r.HoursPTO))

	section("Inspection Checklist")
	checkbox("Is Steering Gear in Good Condition?", r.SteeringGood)
	checkbox("Do Brakes Work Properly?", r.BrakesWork)
	checkbox("Does Parking Brake Work Properly?", r.ParkingBrakeWork)
	checkbox("Are Both Headlights Working?", r.HeadlightsWorking)
	checkbox("Are Both Parking Lights Working?", r.ParkingLightsWorking)
	checkbox("Are Taillights Working?", r.TaillightsWorking)
	checkbox("Are Both Back-Up Lights Working?", r.BackupLightsWorking)
	checkbox("Are Signal Devices in Good Order?", r.SignalDevicesGood)
	checkbox("Are Auxiliary Lights Working?", r.AuxiliaryLightsWorking)
	doc.Ln(4)

	labeled("Condition of Windshield", field(r.WindshieldCondition))
	checkbox("Is Windshield Wiper Working?", r.WindshieldWiperWorking)
	checkbox("Are All Tires & Treads Safe?", r.TiresSafe)
	checkbox("Are there Flags & Flares?", r.FlagsFlaresPresent)
	checkbox("Is First Aid Kit Fully Stocked?", r.FirstAidKitStocked)
	doc.Ln(4)

	labeled("Location and Condition of AED", field(r.AEDLocation))
	labeled("Condition of Fire Extinguisher", field(r.FireExtinguisherCondition))

	section("Tire Pressure (PSI)")
	pressure := func(p *float64) string {
		if p == nil {
			return "__"
		}
		return trimFloat(*p)
	}
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 14, fmt.Sprintf("RF: %s  RR: %s  RR (Outer): %s",
		pressure(r.TirePressureRF), pressure(r.TirePressureRR), pressure(r.TirePressureRROuter)),
		"", 1, "L", false, 0, "")
	doc.CellFormat(0, 14, fmt.Sprintf("LF: %s  LR: %s  LR (Outer): %s",
		pressure(r.TirePressureLF), pressure(r.TirePressureLR), pressure(r.TirePressureLROuter)),
		"", 1, "L", false, 0, "")

	section("Defects")
	defects := "None reported"
	if r.Defects != nil && *r.Defects != "" {
		defects = *r.Defects
	}
	doc.SetFont("Helvetica", "", 10)
	doc.MultiCell(0, 14, defects, "", "L", false)

	section("Signature")
	signature := "______________________"
	if r.Signature != nil && *r.Signature != "" {
		signature = *r.Signature
	}
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 14, signature, "", 1, "L", false, 0, "")
	doc.Ln(24)

	doc.SetFont("Helvetica", "", 8)
	doc.SetTextColor(128, 128, 128)
	doc.CellFormat(0, 12, fmt.Sprintf("Report ID: %d | Generated: %s",
		r.ID, time.Now().Format("1/2/2006, 3:04:05 PM")), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report pdf: %w", err)
	}
	return buf.Bytes(), nil
}
