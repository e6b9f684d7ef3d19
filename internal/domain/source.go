package domain

// SourceGroup is the optional group owning an upstream user
type SourceGroup struct {
	GID    int64  `json:"gid"`
	BID    int64  `json:"bid"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// SourceUser is the upstream owner of a site
type SourceUser struct {
	UID       int64        `json:"uid"`
	BID       int64        `json:"bid"`
	Name      string       `json:"name"`
	FirstName string       `json:"firstname"`
	LastName  string       `json:"lastname"`
	Email     string       `json:"email"`
	Phone     *string      `json:"phone"`
	Status    string       `json:"status"`
	Type      string       `json:"type"`
	Group     *SourceGroup `json:"group"`
	Keyring   string       `json:"keyring"`
}

// SourceMedia is one media entry of an upstream site. URL may be a
// placeholder when the asset has not been generated yet.
type SourceMedia struct {
	MID       int64  `json:"mid"`
	Type      string `json:"type"`
	Name      string `json:"name"`
	Hidden    bool   `json:"hidden"`
	Highlight bool   `json:"highlight"`
	Extension string `json:"extension"`
	Size      int64  `json:"size"`
	URL       string `json:"url"`
	Order     int    `json:"order"`
	Branded   string `json:"branded"`
}

// SourceRecord is the property+media snapshot returned by the upstream API
type SourceRecord struct {
	SID       int64         `json:"sid"`
	BID       int64         `json:"bid"`
	Status    string        `json:"status"`
	Purchased string        `json:"purchased"`
	User      SourceUser    `json:"user"`
	Address   *string       `json:"address"`
	City      *string       `json:"city"`
	State     *string       `json:"state"`
	Zip       *string       `json:"zip"`
	Created   string        `json:"created"`
	Activated string        `json:"activated"`
	Media     []SourceMedia `json:"media"`
}

// CSVRow is one row of the staging export. Values are raw column strings.
type CSVRow struct {
	SiteID      string `json:"siteId" firestore:"siteId"`
	OrderID     string `json:"orderId" firestore:"orderId"`
	OrderStatus string `json:"orderStatus" firestore:"orderStatus"`
	InvoiceDate string `json:"invoiceDate" firestore:"invoiceDate"`
	OrderTotal  string `json:"orderTotal" firestore:"orderTotal"`
	SiteType    string `json:"siteType" firestore:"siteType"`
	SiteURL     string `json:"siteUrl" firestore:"siteUrl"`
	SiteCreated string `json:"siteCreated" firestore:"siteCreated"`
	Address     string `json:"address" firestore:"address"`
	Address2    string `json:"address2" firestore:"address2"`
	City        string `json:"city" firestore:"city"`
	State       string `json:"state" firestore:"state"`
	ZipCode     string `json:"zipCode" firestore:"zipCode"`
	MLSNumber   string `json:"mlsNumber" firestore:"mlsNumber"`
	Longitude   string `json:"longitude" firestore:"longitude"`
	Latitude    string `json:"latitude" firestore:"latitude"`
	AgentName   string `json:"agentName" firestore:"agentName"`
	FirstName   string `json:"firstName" firestore:"firstName"`
	LastName    string `json:"lastName" firestore:"lastName"`
	Email       string `json:"email" firestore:"email"`
	Phone       string `json:"phone" firestore:"phone"`
	Website     string `json:"website" firestore:"website"`
	Group       string `json:"group" firestore:"group"`
}
