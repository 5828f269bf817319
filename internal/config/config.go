package config

import "time"

const (
	// Auth
	TokenTTL = 72 * time.Hour

	// Uploads
	MaxUploadBytes = 5 << 20

	// Admin console
	ComplaintsPerPage = 10
)

// Categories a citizen can file under. Subcategories are free-form.
var Categories = []string{
	"Sanitation",
	"Water Supply",
	"Roads",
	"Electricity",
	"Public Safety",
	"Other",
}
