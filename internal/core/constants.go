package core

// File and directory names
const (
	// WorkDir is the root directory for client state (config, saved reports).
	// Uses dotfile convention so it stays out of the way of Comsof exports.
	WorkDir = ".comsof-validate"
	// ConfigFile is the client configuration filename
	ConfigFile = "config.yml"
	// ReportsDir is the directory containing saved validation reports
	ReportsDir = "reports"
)

// Full paths relative to the working directory.
const (
	// ConfigPath is the full path to config.yml
	ConfigPath = WorkDir + "/" + ConfigFile
	// ReportsPath is the full path to the saved reports directory
	ReportsPath = WorkDir + "/" + ReportsDir
)

// Backend endpoint defaults. The serverless deployment layout; both path
// variants seen in the field are reachable by overriding these in config.
const (
	DefaultBackendURL   = "http://localhost:5000"
	DefaultValidatePath = "/api/validate"
	DefaultExportPath   = "/api/export-pdf"
	DefaultHealthPath   = "/api/health"
)

// MaxUploadSize is the client-enforced ceiling on archive uploads (500 MB).
// Stricter backends still answer 413; both cases surface as "file too large".
const MaxUploadSize = 500 * 1024 * 1024

// AllChecks lists the checks the backend runs when no selection is sent.
// The names are the wire identifiers and must match the backend exactly.
var AllChecks = []string{
	"OSC Duplicates Check",
	"Cluster Overlap Check",
	"Cable Granularity Check",
	"Non-virtual Closure Validation",
	"Point Location Validation",
	"Cable Diameter Validation",
	"Cable Reference Validation",
	"Shapefile Processing",
	"GISTOOL_ID Validation",
	"Splice Count Report",
}

// CheckDescriptions maps check names to the one-line summaries shown in the
// wizard and the `checks` command.
var CheckDescriptions = map[string]string{
	"OSC Duplicates Check":           "Duplicated OSC values in the LINKED_AGG column",
	"Cluster Overlap Check":          "Overlapping cluster polygons",
	"Cable Granularity Check":        "Missing or inconsistent cable granularity fields",
	"Non-virtual Closure Validation": "Non-virtual closures placed without a matching point",
	"Point Location Validation":      "Feeder/PrimDistribution points off their expected locations",
	"Cable Diameter Validation":      "Cable diameters outside the allowed range",
	"Cable Reference Validation":     "Cable pieces referencing missing CABLE_IDs",
	"Shapefile Processing":           "Shapefiles that fail to load or have broken geometry",
	"GISTOOL_ID Validation":          "Missing or duplicated GISTOOL_IDs",
	"Splice Count Report":            "Splice counts aggregated per closure",
}

// IsKnownCheck reports whether name is in the catalog. Unknown names are
// still forwarded; the backend answers them with an ERROR tuple.
func IsKnownCheck(name string) bool {
	for _, c := range AllChecks {
		if c == name {
			return true
		}
	}
	return false
}
