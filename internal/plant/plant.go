package plant

import (
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
)

// Plant is the root record: care parameters, watering schedule, and its
// journal of logs. The ID is assigned by the store on creation and the
// owner is fixed at creation; neither is ever taken from a client payload
// afterwards.
type Plant struct {
	ID       uuid.UUID `json:"id"`
	Owner    string    `json:"ownerUsername"`
	Name     string    `json:"name,omitempty"`
	Species  string    `json:"species,omitempty"`

	LastWatered           *Date `json:"lastWateredDate,omitempty"`
	WateringFrequencyDays int   `json:"wateringFrequencyDays,omitempty"`

	SoilType         string `json:"soilType,omitempty"`
	Fertilizer       string `json:"fertilizer,omitempty"`
	SunExposure      string `json:"sunExposure,omitempty"`
	IdealTemperature string `json:"idealTemperature,omitempty"`
	Notes            string `json:"notes,omitempty"`

	Logs []Log `json:"logs"`

	// Overdue is derived from the watering schedule on every read and
	// write. It is never accepted as input.
	Overdue bool `json:"overdue"`

	Public bool `json:"isPublic"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Normalize ensures the owned collections are present. A plant always has a
// non-nil logs slice and every log a non-nil comments slice, so JSON output
// is [] rather than null.
func (p *Plant) Normalize() {
	if p.Logs == nil {
		p.Logs = []Log{}
	}
	for i := range p.Logs {
		if p.Logs[i].Comments == nil {
			p.Logs[i].Comments = []Comment{}
		}
	}
}

// Log is a single journal entry on a plant. Logs have no identity of their
// own: they are addressed by position in the plant's logs slice, and indices
// shift after a deletion.
type Log struct {
	PhotoURL  string    `json:"photoUrl,omitempty"`
	Note      string    `json:"note"`
	Timestamp time.Time `json:"timestamp"`
	Comments  []Comment `json:"comments"`
}

// Comment is a remark on a log entry.
type Comment struct {
	Username  string    `json:"username"`
	Text      string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}

const dateLayout = "2006-01-02"

// Date is a calendar date with no time-of-day component. It marshals as
// "YYYY-MM-DD".
type Date struct {
	t time.Time
}

// NewDate builds a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, m, d)
}

// AddDays returns the date n calendar days later.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool { return d.t.After(other.t) }

func (d Date) String() string { return d.t.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.t.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	d.t = t
	return nil
}

// Schema implements huma.SchemaProvider so Date appears as a date string in
// the generated OpenAPI document.
func (d Date) Schema(r huma.Registry) *huma.Schema {
	return &huma.Schema{Type: huma.TypeString, Format: "date"}
}

// Caller identifies who is making a request. It wraps the bare username the
// transport hands us so that a richer identity (tokens, roles) can be slotted
// in later without touching the engine's signatures.
type Caller struct {
	Username string
}

// Anonymous is the caller with no identity.
var Anonymous = Caller{}

// CallerFor normalizes a transport-supplied username. Blank and the sentinel
// strings some clients send for "no user" all collapse to Anonymous.
func CallerFor(username string) Caller {
	u := strings.TrimSpace(username)
	if u == "" || u == "null" || u == "undefined" {
		return Anonymous
	}
	return Caller{Username: u}
}

// IsAnonymous reports whether the caller carries no identity.
func (c Caller) IsAnonymous() bool { return c.Username == "" }

// Is reports whether the caller is the named user. An anonymous caller never
// matches anyone, including an empty owner.
func (c Caller) Is(username string) bool {
	return !c.IsAnonymous() && c.Username == username
}
