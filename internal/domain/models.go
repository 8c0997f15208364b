package domain

import "encoding/json"

// GenerationRequest is the JSON body sent to the generations endpoint.  The
// client layers treat it as opaque; only the CLI checks RequiredFields before
// submitting.
type GenerationRequest map[string]any

// RequiredFields lists the keys a GenerationRequest must carry before it is
// worth sending to the API.
var RequiredFields = []string{"inputText", "textMode", "format"}

// MissingFields returns the required keys absent from the request, in the
// order of RequiredFields.
func (r GenerationRequest) MissingFields() []string {
	var missing []string
	for _, key := range RequiredFields {
		if _, ok := r[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// JobHandle identifies a generation on the server.  It is returned by the
// create call and is the only key used for status queries.
type JobHandle string

func (h JobHandle) String() string { return string(h) }

// StatusTag is the closed set of generation states the client understands.
type StatusTag int

const (
	// StatusUnrecognized marks a status string outside the known set,
	// including an absent status field.
	StatusUnrecognized StatusTag = iota
	StatusPending
	StatusCompleted
	StatusFailed
)

// ParseStatusTag maps the wire value onto a StatusTag.  Matching is exact;
// anything else is StatusUnrecognized.
func ParseStatusTag(raw string) StatusTag {
	switch raw {
	case "pending":
		return StatusPending
	case "completed":
		return StatusCompleted
	case "failed":
		return StatusFailed
	default:
		return StatusUnrecognized
	}
}

func (t StatusTag) String() string {
	switch t {
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unrecognized"
	}
}

// Terminal reports whether no further polling is valid after this tag.
func (t StatusTag) Terminal() bool {
	return t == StatusCompleted || t == StatusFailed
}

// Credits is the usage accounting attached to a completed generation.  Either
// value may be absent from the response.
type Credits struct {
	Deducted  *float64 `json:"deducted,omitempty"`
	Remaining *float64 `json:"remaining,omitempty"`
}

// JobStatus is one snapshot returned by a status query.  RawTag keeps the
// server's status string so unrecognized values can be reported verbatim.
// Fields holds every decoded top-level field and Raw the response bytes.
type JobStatus struct {
	Handle   JobHandle
	Tag      StatusTag
	RawTag   string
	GammaURL string
	PDFURL   string
	PPTXURL  string
	Credits  Credits
	Fields   map[string]any
	Raw      []byte
}

// ResourceKind names a listable workspace resource.
type ResourceKind string

const (
	ResourceThemes  ResourceKind = "themes"
	ResourceFolders ResourceKind = "folders"
)

// Valid reports whether the kind has a listing endpoint.
func (k ResourceKind) Valid() bool {
	return k == ResourceThemes || k == ResourceFolders
}

// ResourceRecord is a single theme or folder.  Colors is only populated for
// themes.
type ResourceRecord struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	IsDefault bool            `json:"isDefault,omitempty"`
	Colors    map[string]any  `json:"colors,omitempty"`
	Raw       json.RawMessage `json:"-"`
}

// ResultSidecar is written next to the user's files when a generation
// completes so the result can be inspected later without calling the API.
type ResultSidecar struct {
	GenerationID string          `json:"generation_id"`
	Status       string          `json:"status"`
	GammaURL     string          `json:"gamma_url,omitempty"`
	PDFURL       string          `json:"pdf_url,omitempty"`
	PPTXURL      string          `json:"pptx_url,omitempty"`
	Credits      Credits         `json:"credits"`
	Request      map[string]any  `json:"request,omitempty"`
	Timestamp    string          `json:"timestamp"`
	Response     json.RawMessage `json:"response,omitempty"`
}
