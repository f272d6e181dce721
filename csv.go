package restbind

import (
	"bytes"
	"encoding/csv"
)

func encodeCSV(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	csvWriter := csv.NewWriter(&buf)
	csvWriter.UseCRLF = true
	if err := csvWriter.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeCSV parses all records. Rows may have different lengths.
func decodeCSV(body []byte) ([][]string, error) {
	csvReader := csv.NewReader(bytes.NewReader(body))
	csvReader.FieldsPerRecord = -1
	return csvReader.ReadAll()
}
