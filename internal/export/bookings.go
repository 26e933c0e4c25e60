// Package export renders admin reports as spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"salon-booking/internal/domain"
)

const bookingsSheet = "Bookings"

var bookingColumns = []struct {
	title string
	width float64
}{
	{"Booking ID", 38},
	{"Created", 18},
	{"Status", 12},
	{"Person", 22},
	{"Phone", 16},
	{"Preferred date", 14},
	{"Preferred time", 14},
	{"Services", 40},
	{"Total price", 12},
	{"Total minutes", 14},
	{"Address", 50},
	{"Notes", 30},
}

// WriteBookings writes one row per booking as an XLSX workbook to w.
func WriteBookings(w io.Writer, bookings []domain.Booking) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", bookingsSheet); err != nil {
		return err
	}

	header, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}

	for i, col := range bookingColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(bookingsSheet, cell, col.title)
		_ = f.SetCellStyle(bookingsSheet, cell, cell, header)
		name, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(bookingsSheet, name, name, col.width)
	}

	for r, b := range bookings {
		row := []any{
			b.ID,
			b.CreatedAt.Format("2006-01-02 15:04"),
			string(b.Status),
			b.PersonName,
			b.PersonPhone,
			b.PreferredDate.Format("2006-01-02"),
			b.PreferredTime,
			serviceTitles(b),
			totalPrice(b).StringFixed(2),
			totalMinutes(b),
			formatAddress(b.Address),
			deref(b.Notes),
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(bookingsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", r+2, err)
		}
	}
	_ = f.SetPanes(bookingsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	return f.Write(w)
}

func serviceTitles(b domain.Booking) string {
	titles := make([]string, 0, len(b.BookingServices))
	for _, bs := range b.BookingServices {
		if bs.Service != nil {
			titles = append(titles, bs.Service.Title)
		}
	}
	return strings.Join(titles, ", ")
}

func totalPrice(b domain.Booking) decimal.Decimal {
	sum := decimal.Zero
	for _, bs := range b.BookingServices {
		if bs.Service != nil {
			sum = sum.Add(bs.Service.Price)
		}
	}
	return sum
}

func totalMinutes(b domain.Booking) int {
	n := 0
	for _, bs := range b.BookingServices {
		if bs.Service != nil {
			n += bs.Service.Duration
		}
	}
	return n
}

func formatAddress(a *domain.Address) string {
	if a == nil {
		return ""
	}
	parts := []string{a.AddressLine1}
	if a.AddressLine2 != nil && *a.AddressLine2 != "" {
		parts = append(parts, *a.AddressLine2)
	}
	parts = append(parts, a.City, a.State, a.Pincode)
	return strings.Join(parts, ", ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
