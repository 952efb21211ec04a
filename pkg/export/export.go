package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/romainsacchi/carculator/core/resultstore"
)

// WriteJSON writes the calculation summaries to w in JSON format.
func WriteJSON(w io.Writer, summaries []resultstore.Summary) error {
	enc := json.NewEncoder(w)
	return enc.Encode(summaries)
}

// WriteCSV writes the calculation summaries to w in CSV format, one row per
// impact category.
func WriteCSV(w io.Writer, summaries []resultstore.Summary) error {
	cw := csv.NewWriter(w)
	header := []string{"request_id", "vehicle_type", "powertrain", "size", "year", "country", "category", "unit", "per_km"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range summaries {
		for _, iv := range s.Impacts {
			rec := []string{
				s.RequestID,
				string(s.VehicleType),
				string(s.Powertrain),
				s.Size,
				strconv.Itoa(s.Year),
				s.Country,
				iv.Category,
				iv.Unit,
				strconv.FormatFloat(iv.PerKm, 'f', -1, 64),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
