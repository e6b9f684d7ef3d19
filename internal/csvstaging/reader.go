package csvstaging

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/loganpetree/homesellphotography/internal/adapter"
	"github.com/loganpetree/homesellphotography/internal/domain"
)

// Staging export column headers
const (
	ColumnSiteID      = "Site ID"
	ColumnOrderID     = "Order ID"
	ColumnOrderStatus = "Order Status"
	ColumnInvoiceDate = "Invoice Date"
	ColumnOrderTotal  = "Order Total"
	ColumnSiteType    = "Site Type"
	ColumnSiteURL     = "Site URL"
	ColumnSiteCreated = "Site Created"
	ColumnAddress     = "Address"
	ColumnAddress2    = "Address 2"
	ColumnCity        = "City"
	ColumnState       = "State"
	ColumnZipCode     = "Zip Code"
	ColumnMLSNumber   = "MLS Number"
	ColumnLongitude   = "Longitude"
	ColumnLatitude    = "Latitude"
	ColumnAgentName   = "Agent Name"
	ColumnFirstName   = "First Name"
	ColumnLastName    = "Last Name"
	ColumnEmail       = "Email"
	ColumnPhone       = "Phone"
	ColumnWebsite     = "Website"
	ColumnGroup       = "Group"
)

const utf8BOM = "\ufeff"

// Parse reads every row of a staging export keyed by header name.
// Unknown columns are ignored and missing ones read as "". A missing
// Site ID column is a fatal input error.
func Parse(r io.Reader) ([]domain.CSVRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty csv", domain.ErrFatalInput)
		}
		return nil, fmt.Errorf("%w: failed to read csv header: %v", domain.ErrFatalInput, err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		h = strings.TrimSpace(h)
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	if _, ok := index[ColumnSiteID]; !ok {
		return nil, fmt.Errorf("%w: csv has no %q column", domain.ErrFatalInput, ColumnSiteID)
	}

	var rows []domain.CSVRow
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read csv line %d: %v", domain.ErrFatalInput, line, err)
		}
		if blank(record) {
			continue
		}

		get := func(column string) string {
			i, ok := index[column]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		rows = append(rows, domain.CSVRow{
			SiteID:      get(ColumnSiteID),
			OrderID:     get(ColumnOrderID),
			OrderStatus: get(ColumnOrderStatus),
			InvoiceDate: get(ColumnInvoiceDate),
			OrderTotal:  get(ColumnOrderTotal),
			SiteType:    get(ColumnSiteType),
			SiteURL:     get(ColumnSiteURL),
			SiteCreated: get(ColumnSiteCreated),
			Address:     get(ColumnAddress),
			Address2:    get(ColumnAddress2),
			City:        get(ColumnCity),
			State:       get(ColumnState),
			ZipCode:     get(ColumnZipCode),
			MLSNumber:   get(ColumnMLSNumber),
			Longitude:   get(ColumnLongitude),
			Latitude:    get(ColumnLatitude),
			AgentName:   get(ColumnAgentName),
			FirstName:   get(ColumnFirstName),
			LastName:    get(ColumnLastName),
			Email:       get(ColumnEmail),
			Phone:       get(ColumnPhone),
			Website:     get(ColumnWebsite),
			Group:       get(ColumnGroup),
		})
	}

	return rows, nil
}

// ReadFile opens and parses a staging export
func ReadFile(fs adapter.FileSystem, path string) ([]domain.CSVRow, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open csv %s: %v", domain.ErrFatalInput, path, err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
