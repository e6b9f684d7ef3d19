package normalizer

import (
	"math"
	"strconv"
	"strings"

	"github.com/loganpetree/homesellphotography/internal/domain"
)

// Normalize maps an upstream record and its optional staging row to the
// stored site document. Media are left empty; the driver attaches them once
// every asset has been fetched. The result depends only on the inputs.
func Normalize(rec *domain.SourceRecord, row *domain.CSVRow) domain.Site {
	site := domain.Site{
		SiteID:     strconv.FormatInt(rec.SID, 10),
		BusinessID: strconv.FormatInt(rec.BID, 10),
		Status:     rec.Status,
		Purchased:  rec.Purchased,
		User:       NormalizeUser(rec.User),
		Address:    NormalizeAddress(rec),
		Created:    rec.Created,
		Activated:  rec.Activated,
		Reviewed:   false,
		Media:      []domain.Media{},
	}
	if row != nil {
		site.CSVData = ParseCSVData(row)
	}
	return site
}

// NormalizeAddress always yields four strings. A record without any address
// part gets the "No address available" street.
func NormalizeAddress(rec *domain.SourceRecord) domain.Address {
	street, city, state, zip := deref(rec.Address), deref(rec.City), deref(rec.State), deref(rec.Zip)
	if street == "" && city == "" && state == "" && zip == "" {
		return domain.Address{Street: domain.PLACEHOLDER_NO_ADDRESS}
	}
	if street == "" {
		street = domain.PLACEHOLDER_NO_STREET
	}
	return domain.Address{Street: street, City: city, State: state, Zip: zip}
}

// NormalizeUser converts the upstream owner. The group is attached only when upstream has one.
func NormalizeUser(u domain.SourceUser) domain.User {
	user := domain.User{
		UserID:      strconv.FormatInt(u.UID, 10),
		BusinessID:  strconv.FormatInt(u.BID, 10),
		Name:        u.Name,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Phone:       deref(u.Phone),
		Status:      u.Status,
		Type:        u.Type,
		Permissions: SplitList(u.Keyring),
	}
	if u.Group != nil {
		user.Group = &domain.Group{
			GroupID:    strconv.FormatInt(u.Group.GID, 10),
			BusinessID: strconv.FormatInt(u.Group.BID, 10),
			Name:       u.Group.Name,
			Status:     u.Group.Status,
		}
	}
	return user
}

// NormalizeMedia copies the upstream fields of a media entry. Storage fields
// are filled in by the fetcher.
func NormalizeMedia(m domain.SourceMedia) domain.Media {
	return domain.Media{
		MediaID:     strconv.FormatInt(m.MID, 10),
		Name:        m.Name,
		Type:        m.Type,
		Hidden:      m.Hidden,
		Highlight:   m.Highlight,
		Extension:   m.Extension,
		Size:        m.Size,
		OriginalURL: m.URL,
		URL:         m.URL,
		Order:       m.Order,
		Branded:     SplitList(m.Branded),
	}
}

// ParseCSVData extracts the staging fields upstream does not return.
// Unparseable numbers never fail: the total defaults to 0 and coordinates to nil.
func ParseCSVData(row *domain.CSVRow) *domain.CSVData {
	total, ok := ParseFloat(row.OrderTotal)
	if !ok {
		total = 0
	}

	return &domain.CSVData{
		OrderID:      row.OrderID,
		OrderStatus:  row.OrderStatus,
		InvoiceDate:  row.InvoiceDate,
		OrderTotal:   total,
		SiteType:     row.SiteType,
		SiteURL:      row.SiteURL,
		SiteCreated:  row.SiteCreated,
		MLSNumber:    row.MLSNumber,
		AddressLine2: row.Address2,
		Coordinates: domain.Coordinates{
			Longitude: floatPtr(row.Longitude),
			Latitude:  floatPtr(row.Latitude),
		},
		Agent: domain.Agent{
			Name:      row.AgentName,
			FirstName: row.FirstName,
			LastName:  row.LastName,
			Email:     row.Email,
			Phone:     row.Phone,
			Website:   row.Website,
			Group:     row.Group,
		},
	}
}

// ParseFloat parses a finite decimal, tolerating "$" and thousands separators
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// SplitList splits a comma-joined list, trimming entries and dropping empty ones
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func floatPtr(s string) *float64 {
	f, ok := ParseFloat(s)
	if !ok {
		return nil
	}
	return &f
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
