package webtrack

// EventType enumerates the event kinds the collect endpoint accepts.
type EventType string

const (
	EventSessionStart EventType = "session.start"
	EventPageView     EventType = "page.view"
	EventBatch        EventType = "events.batch"
	EventFormSubmit   EventType = "form.submit"
	EventIdentify     EventType = "user.identify"
	EventSessionEnd   EventType = "page.leave"
)

// Envelope pairs an event type with its payload. Send wraps it with the
// API key into the wire body {"apiKey", "type", "data"}.
type Envelope struct {
	Type EventType
	Data any
}

// SessionInfo is the resolved (visitor, session) pair a caller persists
// across requests, typically in cookies.
type SessionInfo struct {
	VisitorID string
	SessionID string
}

// UTMParams carries marketing-attribution query parameters.
type UTMParams struct {
	Source   string
	Medium   string
	Campaign string
	Term     string
	Content  string
}

// SessionStart describes a new tracking session. SessionID may be left
// empty; a fresh one is generated.
type SessionStart struct {
	VisitorID string
	SessionID string
	UserAgent string
	IPAddress string
	Referrer  string
	EntryPage string
	UTM       UTMParams
}

// PageView describes a single page impression. LoadTime is in
// milliseconds; zero means unknown.
type PageView struct {
	VisitorID string
	SessionID string
	URL       string
	Title     string
	Referrer  string
	LoadTime  int64
}

// CustomEvent describes a named application event. Type defaults to
// "custom" when empty.
type CustomEvent struct {
	VisitorID string
	SessionID string
	Name      string
	Type      string
	Category  string
	Value     string
	Metadata  map[string]any
}

// FormSubmission describes a submitted form. Field values whose key looks
// sensitive are masked before they reach the wire.
type FormSubmission struct {
	VisitorID  string
	SessionID  string
	FormID     string
	FormAction string
	Fields     map[string]string
}

// Identity links a visitor to known user traits. Extra holds arbitrary
// additional traits; empty and nil values are dropped from the payload.
type Identity struct {
	VisitorID string
	SessionID string
	Email     string
	UserID    string
	Name      string
	Phone     string
	Company   string
	Extra     map[string]any
}

// Wire payload shapes. Field names match what the collect endpoint stores.

type DeviceInfo struct {
	UserAgent      string `json:"userAgent"`
	Browser        string `json:"browser,omitempty"`
	BrowserVersion string `json:"browserVersion,omitempty"`
	OS             string `json:"os,omitempty"`
	OSVersion      string `json:"osVersion,omitempty"`
	Mobile         bool   `json:"mobile"`
	Tablet         bool   `json:"tablet"`
	Bot            bool   `json:"bot"`
}

type UTMData struct {
	Source   string `json:"utmSource,omitempty"`
	Medium   string `json:"utmMedium,omitempty"`
	Campaign string `json:"utmCampaign,omitempty"`
	Term     string `json:"utmTerm,omitempty"`
	Content  string `json:"utmContent,omitempty"`
}

type SessionStartData struct {
	VisitorID string     `json:"visitorId"`
	SessionID string     `json:"sessionId"`
	Timestamp int64      `json:"timestamp"`
	Referrer  string     `json:"referrer,omitempty"`
	EntryPage string     `json:"entryPage,omitempty"`
	Device    DeviceInfo `json:"device"`
	UTM       UTMData    `json:"utm"`
}

type PageViewData struct {
	SessionID string `json:"sessionId"`
	VisitorID string `json:"visitorId"`
	URL       string `json:"url"`
	Path      string `json:"path"`
	Title     string `json:"title,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
	Timestamp int64  `json:"timestamp"`
	LoadTime  int64  `json:"loadTime,omitempty"`
}

type BatchItem struct {
	Type      string         `json:"type"`
	Name      string         `json:"name"`
	Category  string         `json:"category,omitempty"`
	Value     string         `json:"value,omitempty"`
	Metadata  map[string]any `json:"metadata"`
	Timestamp int64          `json:"timestamp"`
}

type BatchData struct {
	SessionID string      `json:"sessionId"`
	Events    []BatchItem `json:"events"`
}

type FormSubmitData struct {
	SessionID  string            `json:"sessionId"`
	FormID     string            `json:"formId"`
	FormAction string            `json:"formAction,omitempty"`
	Fields     map[string]string `json:"fields"`
	Timestamp  int64             `json:"timestamp"`
}

type IdentifyData struct {
	SessionID string         `json:"sessionId"`
	VisitorID string         `json:"visitorId"`
	UserID    string         `json:"userId,omitempty"`
	Traits    map[string]any `json:"traits"`
	Timestamp int64          `json:"timestamp"`
}

type SessionEndData struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url,omitempty"`
	Path      string `json:"path,omitempty"`
	Timestamp int64  `json:"timestamp"`
}
