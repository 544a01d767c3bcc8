package workflow

// DraftKey is the single storage key the current draft order lives under.
const DraftKey = "fm_draft_order"

// MessageDesignReady is the only message type sent to the embedding host.
const MessageDesignReady = "FM_DESIGN_READY"

// DraftOrder is the locally persisted result of the last successful
// generation. CreatedAt is in unix milliseconds.
type DraftOrder struct {
	DraftOrderID      string `json:"draftOrderId"`
	CreatedAt         int64  `json:"createdAt"`
	Style             string `json:"style"`
	OriginalFileName  string `json:"originalFileName"`
	GeneratedImageURL string `json:"generatedImageUrl"`
	GeneratedImageID  string `json:"generatedImageId,omitempty"`
}

type DesignReadyMessage struct {
	Type      string `json:"type"`
	DesignURL string `json:"designUrl"`
	DesignID  string `json:"designId"`
}

type SelectedFile struct {
	Name     string
	Data     []byte
	MimeType string
}

type Submission struct {
	File         *SelectedFile
	Style        string
	CustomPrompt string
}

// TransformResult is the decoded body of a transform call. Every field may be
// missing; fields that are not JSON strings are treated as missing.
type TransformResult struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Mime  string `json:"mime"`
	B64   string `json:"b64"`
	Style string `json:"style"`
}

// State mirrors what the configurator page shows.
type State struct {
	Loading  bool
	Error    string
	ImageSrc string
	SavedURL string
	Draft    *DraftOrder
}

type Outcome struct {
	Draft    *DraftOrder
	ImageSrc string
	// Notified is true when a design-ready message was delivered to the host.
	Notified bool
}
