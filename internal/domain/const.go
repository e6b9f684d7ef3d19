package domain

const (
	// Collections
	CollectionSites         = "sites"
	CollectionWakeUpSites   = "wake-up-sites"
	CollectionSystem        = "system"
	CollectionSleepingMedia = "sleeping-media"

	// MigrationProgressDocID is the checkpoint document under CollectionSystem
	MigrationProgressDocID = "migration_progress"

	// Upstream endpoints
	DEFAULT_HDPHOTOHUB_API_URL = "https://homesellphotography.hd.pics/api/v1"
	DEFAULT_WAKE_UP_URL        = "https://homesellphotography.hd.pics/Sites/media.asp?nSiteID={siteId}"
	DEFAULT_SITE_ADMIN_URL     = "https://homesellphotography.hd.pics/{siteId}/admin"

	// Address placeholders
	PLACEHOLDER_NO_ADDRESS = "No address available"
	PLACEHOLDER_NO_STREET  = "No street address"
)

// DefaultMediaFallbackTemplates are tried in order when the upstream URL is a
// placeholder or fails. {mid} and {ext} are substituted.
var DefaultMediaFallbackTemplates = []string{
	"https://media.hd.pics/{mid}.{ext}",
	"https://homesellphotography.hd.pics/media/{mid}.{ext}",
	"https://media.hd.pics/1/{mid}.{ext}",
}
