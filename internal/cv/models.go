package cv

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// DefaultKey is the record key of the deployment's CV. The store is keyed so a
// second CV never requires a schema change.
const DefaultKey = "primary"

// DefaultTheme is applied when a submission carries no theme.
const DefaultTheme = "default"

// Image references an uploaded asset.
type Image struct {
	URL      string `json:"url" bson:"url"`
	PublicID string `json:"public_id" bson:"public_id"`
}

type SocialLink struct {
	Platform string `json:"platform" bson:"platform"`
	URL      string `json:"url" bson:"url"`
}

type Personal struct {
	Name        string       `json:"name" bson:"name"`
	Title       string       `json:"title" bson:"title"`
	Email       string       `json:"email" bson:"email"`
	Phone       string       `json:"phone" bson:"phone"`
	Address     string       `json:"address" bson:"address"`
	Website     string       `json:"website" bson:"website"`
	Summary     string       `json:"summary" bson:"summary"`
	ProfilePic  *Image       `json:"profilePic,omitempty" bson:"profilePic,omitempty"`
	SocialLinks []SocialLink `json:"socialLinks" bson:"socialLinks"`
}

// Experience with a nil EndDate is an ongoing position.
type Experience struct {
	Company     string `json:"company" bson:"company"`
	Position    string `json:"position" bson:"position"`
	StartDate   *Date  `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate     *Date  `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Description string `json:"description" bson:"description"`
}

type Education struct {
	Institution string `json:"institution" bson:"institution"`
	Degree      string `json:"degree" bson:"degree"`
	Field       string `json:"field" bson:"field"`
	StartDate   *Date  `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate     *Date  `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Notes       string `json:"notes" bson:"notes"`
}

type Project struct {
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
	Link        string `json:"link,omitempty" bson:"link,omitempty"`
	Image       *Image `json:"image,omitempty" bson:"image,omitempty"`
}

type Certification struct {
	Name       string `json:"name" bson:"name"`
	Issuer     string `json:"issuer" bson:"issuer"`
	Date       *Date  `json:"date,omitempty" bson:"date,omitempty"`
	Credential string `json:"credential" bson:"credential"`
	URL        string `json:"url,omitempty" bson:"url,omitempty"`
}

// Skill level is a percentage in [0,100].
type Skill struct {
	Name  string `json:"name" bson:"name"`
	Level int    `json:"level" bson:"level"`
}

type Language struct {
	Name        string `json:"name" bson:"name"`
	Proficiency string `json:"proficiency" bson:"proficiency"`
}

// CustomSection content is free-form: a string, a list or any JSON value.
type CustomSection struct {
	Title   string      `json:"title" bson:"title"`
	Content interface{} `json:"content" bson:"content"`
}

// CVDocument is the canonical résumé record. Every list is non-nil once normalized.
type CVDocument struct {
	ID             string          `json:"_id" bson:"_id"`
	Personal       Personal        `json:"personal" bson:"personal"`
	Experiences    []Experience    `json:"experiences" bson:"experiences"`
	Education      []Education     `json:"education" bson:"education"`
	Projects       []Project       `json:"projects" bson:"projects"`
	Certifications []Certification `json:"certifications" bson:"certifications"`
	Skills         []Skill         `json:"skills" bson:"skills"`
	Languages      []Language      `json:"languages" bson:"languages"`
	Interests      []string        `json:"interests" bson:"interests"`
	CustomSections []CustomSection `json:"customSections" bson:"customSections"`
	Theme          string          `json:"theme" bson:"theme"`
	CreatedAt      time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// EnsureLists replaces nil lists with empty ones. Documents read from older
// records may lack fields entirely.
func (d *CVDocument) EnsureLists() {
	if d.Personal.SocialLinks == nil {
		d.Personal.SocialLinks = []SocialLink{}
	}
	if d.Experiences == nil {
		d.Experiences = []Experience{}
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	if d.Certifications == nil {
		d.Certifications = []Certification{}
	}
	if d.Skills == nil {
		d.Skills = []Skill{}
	}
	if d.Languages == nil {
		d.Languages = []Language{}
	}
	if d.Interests == nil {
		d.Interests = []string{}
	}
	if d.CustomSections == nil {
		d.CustomSections = []CustomSection{}
	}
	if d.Theme == "" {
		d.Theme = DefaultTheme
	}
}

// Date is a calendar timestamp that decodes leniently from JSON: RFC 3339,
// YYYY-MM-DD, YYYY-MM, epoch milliseconds or empty. Anything else decodes to the
// zero Date, which the normalizer drops.
type Date struct {
	time.Time
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02", "2006-01"}

// ParseDate parses s with the accepted layouts.
func ParseDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{t.UTC()}, true
		}
	}
	return Date{}, false
}

func (d *Date) UnmarshalJSON(b []byte) error {
	d.Time = time.Time{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		if p, ok := ParseDate(s); ok {
			*d = p
		}
		return nil
	}
	var ms float64
	if err := json.Unmarshal(b, &ms); err == nil {
		d.Time = time.UnixMilli(int64(ms)).UTC()
	}
	return nil
}

func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(d.Time.UTC())
}

func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	d.Time = time.Time{}
	if t == bsontype.Null || t == bsontype.Undefined {
		return nil
	}
	var tm time.Time
	if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&tm); err != nil {
		return err
	}
	d.Time = tm.UTC()
	return nil
}
