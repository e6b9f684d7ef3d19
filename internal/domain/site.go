package domain

import "time"

// Group is the normalized user group
type Group struct {
	GroupID    string `json:"groupId" firestore:"groupId"`
	BusinessID string `json:"businessId" firestore:"businessId"`
	Name       string `json:"name" firestore:"name"`
	Status     string `json:"status" firestore:"status"`
}

// User is the normalized site owner. Group is nil when upstream has none.
type User struct {
	UserID      string   `json:"userId" firestore:"userId"`
	BusinessID  string   `json:"businessId" firestore:"businessId"`
	Name        string   `json:"name" firestore:"name"`
	FirstName   string   `json:"firstName" firestore:"firstName"`
	LastName    string   `json:"lastName" firestore:"lastName"`
	Email       string   `json:"email" firestore:"email"`
	Phone       string   `json:"phone" firestore:"phone"`
	Status      string   `json:"status" firestore:"status"`
	Type        string   `json:"type" firestore:"type"`
	Group       *Group   `json:"group,omitempty" firestore:"group,omitempty"`
	Permissions []string `json:"permissions" firestore:"permissions"`
}

// Address always carries four strings
type Address struct {
	Street string `json:"street" firestore:"street"`
	City   string `json:"city" firestore:"city"`
	State  string `json:"state" firestore:"state"`
	Zip    string `json:"zip" firestore:"zip"`
}

// Coordinates are nil when absent or unparseable
type Coordinates struct {
	Longitude *float64 `json:"longitude" firestore:"longitude"`
	Latitude  *float64 `json:"latitude" firestore:"latitude"`
}

// Agent is the listing agent contact from the staging row
type Agent struct {
	Name      string `json:"name" firestore:"name"`
	FirstName string `json:"firstName" firestore:"firstName"`
	LastName  string `json:"lastName" firestore:"lastName"`
	Email     string `json:"email" firestore:"email"`
	Phone     string `json:"phone" firestore:"phone"`
	Website   string `json:"website" firestore:"website"`
	Group     string `json:"group" firestore:"group"`
}

// CSVData carries staging-row fields the upstream API does not return
type CSVData struct {
	OrderID      string      `json:"orderId" firestore:"orderId"`
	OrderStatus  string      `json:"orderStatus" firestore:"orderStatus"`
	InvoiceDate  string      `json:"invoiceDate" firestore:"invoiceDate"`
	OrderTotal   float64     `json:"orderTotal" firestore:"orderTotal"`
	SiteType     string      `json:"siteType" firestore:"siteType"`
	SiteURL      string      `json:"siteUrl" firestore:"siteUrl"`
	SiteCreated  string      `json:"siteCreated" firestore:"siteCreated"`
	MLSNumber    string      `json:"mlsNumber" firestore:"mlsNumber"`
	AddressLine2 string      `json:"addressLine2" firestore:"addressLine2"`
	Coordinates  Coordinates `json:"coordinates" firestore:"coordinates"`
	Agent        Agent       `json:"agent" firestore:"agent"`
}

// Media is a normalized media entry. Exactly one of StorageURL and
// ProcessingError is set.
type Media struct {
	MediaID         string   `json:"mediaId" firestore:"mediaId"`
	Name            string   `json:"name" firestore:"name"`
	Type            string   `json:"type" firestore:"type"`
	Hidden          bool     `json:"hidden" firestore:"hidden"`
	Highlight       bool     `json:"highlight" firestore:"highlight"`
	Extension       string   `json:"extension" firestore:"extension"`
	Size            int64    `json:"size" firestore:"size"`
	OriginalURL     string   `json:"originalUrl" firestore:"originalUrl"`
	StorageURL      string   `json:"storageUrl" firestore:"storageUrl"`
	URL             string   `json:"url" firestore:"url"`
	WorkingURL      string   `json:"workingUrl,omitempty" firestore:"workingUrl,omitempty"`
	SmallURL        string   `json:"smallUrl,omitempty" firestore:"smallUrl,omitempty"`
	MediumURL       string   `json:"mediumUrl,omitempty" firestore:"mediumUrl,omitempty"`
	LargeURL        string   `json:"largeUrl,omitempty" firestore:"largeUrl,omitempty"`
	Order           int      `json:"order" firestore:"order"`
	Branded         []string `json:"branded" firestore:"branded"`
	ProcessingError *string  `json:"processingError" firestore:"processingError"`
}

// Stored reports whether the asset was re-hosted
func (m Media) Stored() bool {
	return m.StorageURL != "" && m.ProcessingError == nil
}

// HasDerivedSizes reports whether all derived resolutions exist
func (m Media) HasDerivedSizes() bool {
	return m.SmallURL != "" && m.MediumURL != "" && m.LargeURL != ""
}

// Site is the normalized document stored in CollectionSites
type Site struct {
	SiteID     string     `json:"siteId" firestore:"siteId"`
	BusinessID string     `json:"businessId" firestore:"businessId"`
	Status     string     `json:"status" firestore:"status"`
	Purchased  string     `json:"purchased" firestore:"purchased"`
	User       User       `json:"user" firestore:"user"`
	Address    Address    `json:"address" firestore:"address"`
	Created    string     `json:"created" firestore:"created"`
	Activated  string     `json:"activated" firestore:"activated"`
	Reviewed   bool       `json:"reviewed" firestore:"reviewed"`
	CSVData    *CSVData   `json:"csvData,omitempty" firestore:"csvData,omitempty"`
	Media      []Media    `json:"media" firestore:"media"`
	MigratedAt *time.Time `json:"migratedAt,omitempty" firestore:"migratedAt,omitempty"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty" firestore:"updatedAt,omitempty"`
}
