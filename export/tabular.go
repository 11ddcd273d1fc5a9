package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"p9e.in/fleet/models"
)

// reportColumns is the fixed export column order shared by CSV and XLSX.
var reportColumns = []string{
	"id", "vehicle_number", "inspection_date", "inspector_name",
	"make", "year", "mileage", "last_mileage_serviced", "hour_meter", "hours_pto",
	"steering_good", "brakes_work", "parking_brake_work",
	"headlights_working", "parking_lights_working", "taillights_working",
	"backup_lights_working", "signal_devices_good", "auxiliary_lights_working",
	"windshield_condition", "windshield_wiper_working", "tires_safe",
	"flags_flares_present", "first_aid_kit_stocked", "aed_location",
	"fire_extinguisher_condition", "tire_pressure_rf", "tire_pressure_rr",
	"tire_pressure_rr_outer", "tire_pressure_lf", "tire_pressure_lr",
	"tire_pressure_lr_outer", "defects", "signature", "created_at",
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func cell(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case *string:
		if x != nil {
			return *x
		}
	case *int:
		if x != nil {
			return strconv.Itoa(*x)
		}
	case *float64:
		if x != nil {
			return trimFloat(*x)
		}
	case *bool:
		if x != nil {
			if *x {
				return "1"
			}
			return "0"
		}
	}
	return ""
}

func reportRow(r *models.Report) []string {
	return []string{
		cell(r.ID),
		cell(r.VehicleNumber),
		r.InspectionDate.String(),
		cell(r.InspectorName),
		cell(r.Make),
		cell(r.Year),
		cell(r.Mileage),
		cell(r.LastMileageServiced),
		cell(r.HourMeter),
		cell(r.HoursPTO),
		cell(r.SteeringGood),
		cell(r.BrakesWork),
		cell(r.ParkingBrakeWork),
		cell(r.HeadlightsWorking),
		cell(r.ParkingLightsWorking),
		cell(r.TaillightsWorking),
		cell(r.BackupLightsWorking),
		cell(r.SignalDevicesGood),
		cell(r.AuxiliaryLightsWorking),
		cell(r.WindshieldCondition),
		cell(r.WindshieldWiperWorking),
		cell(r.TiresSafe),
		cell(r.FlagsFlaresPresent),
		cell(r.FirstAidKitStocked),
		cell(r.AEDLocation),
		cell(r.FireExtinguisherCondition),
		cell(r.TirePressureRF),
		cell(r.TirePressureRR),
		cell(r.TirePressureRROuter),
		cell(r.TirePressureLF),
		cell(r.TirePressureLR),
		cell(r.TirePressureLROuter),
		cell(r.Defects),
		cell(r.Signature),
		r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ReportsCSV renders reports as CSV with a header row. Nil fields export
// as empty cells and checklist booleans as 1/0, so round-tripping through
// a spreadsheet preserves the unknown/no distinction.
func ReportsCSV(reports []models.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(reportColumns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for i := range reports {
		if err := w.Write(reportRow(&reports[i])); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ReportsXLSX renders reports as an Excel workbook with a styled header
// row on a single "Reports" sheet.
func ReportsXLSX(reports []models.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Reports"

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("remove default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, col := range reportColumns {
		cellRef, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cellRef, col); err != nil {
			return nil, fmt.Errorf("write header cell: %w", err)
		}
		if err := f.SetCellStyle(sheet, cellRef, cellRef, headerStyle); err != nil {
			return nil, fmt.Errorf("style header cell: %w", err)
		}
	}

	for rowIdx := range reports {
		row := reportRow(&reports[rowIdx])
		for colIdx, value := range row {
			cellRef, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, fmt.Errorf("data cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cellRef, value); err != nil {
				return nil, fmt.Errorf("write data cell: %w", err)
			}
		}
	}

	return f, nil
}

// ExportFilename builds a timestamped download name like
// reports_20250101_120000.csv.
func ExportFilename(prefix, ext string, ts string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, prefix)
	return fmt.Sprintf("%s_%s.%s", safe, ts, ext)
}
