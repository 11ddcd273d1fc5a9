package services

import (
	"fmt"
	"strings"
)

// Vehicle numbers are sorted naturally so "9" < "10" < "T-5" < "T-100":
// identifiers starting with a digit form one class ordered by their leading
// integer value, everything else follows, with length and then plain string
// order as tie-breakers. The comparator below and vehicleNumberOrder must
// agree; the tests hold them to the same fixture.

// CompareVehicleNumbers reports -1, 0 or 1 ordering a before b naturally.
func CompareVehicleNumbers(a, b string) int {
	aVal, aNumeric := leadingInt(a)
	bVal, bNumeric := leadingInt(b)

	if aNumeric != bNumeric {
		if aNumeric {
			return -1
		}
		return 1
	}
	if aNumeric && aVal != bVal {
		if aVal < bVal {
			return -1
		}
		return 1
	}
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// leadingInt parses the leading digit run of s. ok is false when s does
// not start with a digit, matching sqlite's GLOB '[0-9]*'.
func leadingInt(s string) (int64, bool) {
	if s == "" || s[0] < '0' || s[0] > '9' {
		return 0, false
	}
	var n int64
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		if n > (1<<62)/10 {
			break
		}
		n = n*10 + int64(s[i]-'0')
	}
	return n, true
}

// vehicleNumberOrder returns the ORDER BY expression implementing the same
// order in sqlite. dir is a fixed literal, never user input.
func vehicleNumberOrder(desc bool) string {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return fmt.Sprintf(
		"CASE WHEN vehicle_number GLOB '[0-9]*' THEN 0 ELSE 1 END %[1]s, "+
			"CASE WHEN vehicle_number GLOB '[0-9]*' THEN CAST(vehicle_number AS INTEGER) ELSE 0 END %[1]s, "+
			"LENGTH(vehicle_number) %[1]s, vehicle_number %[1]s", dir)
}
