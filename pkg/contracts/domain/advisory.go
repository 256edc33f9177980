package domain

// Advisory codes surfaced to the presentation layer.
const (
	AdvisoryNoMatches          = "NO_MATCHES"
	AdvisoryNoRecordsForPrefix = "NO_RECORDS_FOR_PREFIX"
	AdvisoryMalformedCode      = "MALFORMED_CODE"
	AdvisoryTimestampParse     = "TIMESTAMP_PARSE"
	AdvisoryNoTimestamps       = "NO_TIMESTAMPS"
	AdvisoryBeforeRelease      = "BEFORE_RELEASE"
	AdvisoryNoReference        = "NO_REFERENCE"
	AdvisoryInputDecoded       = "INPUT_DECODED"
)

// Advisory is a non-fatal condition met while building a report.
type Advisory struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Value   string `json:"value,omitempty"`
}
