package cv

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Submission is a raw CV submission. List fields and Personal may hold a
// JSON-encoded string (multipart transport) or an already structured value
// (JSON bodies). Absent fields are nil.
type Submission struct {
	Personal       interface{} `json:"personal"`
	Experiences    interface{} `json:"experiences"`
	Education      interface{} `json:"education"`
	Projects       interface{} `json:"projects"`
	Certifications interface{} `json:"certifications"`
	Skills         interface{} `json:"skills"`
	Languages      interface{} `json:"languages"`
	Interests      interface{} `json:"interests"`
	CustomSections interface{} `json:"customSections"`
	Theme          interface{} `json:"theme"`
}

// Normalize coerces a submission into the canonical document shape. It never
// fails: malformed input degrades to empty values. ID, ProfilePic and
// timestamps are left for the caller to fill in.
func Normalize(sub Submission) CVDocument {
	fields := lenientObject(sub.Personal)
	doc := CVDocument{
		Personal: Personal{
			Name:        scalar(fields["name"]),
			Title:       scalar(fields["title"]),
			Email:       scalar(fields["email"]),
			Phone:       scalar(fields["phone"]),
			Address:     scalar(fields["address"]),
			Website:     scalar(fields["website"]),
			Summary:     scalar(fields["summary"]),
			SocialLinks: LenientList[SocialLink](rawOrNil(fields["socialLinks"])),
		},
		Experiences:    LenientList[Experience](sub.Experiences),
		Education:      LenientList[Education](sub.Education),
		Projects:       LenientList[Project](sub.Projects),
		Certifications: LenientList[Certification](sub.Certifications),
		Skills:         LenientList[Skill](sub.Skills),
		Languages:      LenientList[Language](sub.Languages),
		Interests:      lenientStrings(sub.Interests),
		CustomSections: LenientList[CustomSection](sub.CustomSections),
		Theme:          theme(sub.Theme),
	}

	for i := range doc.Experiences {
		doc.Experiences[i].StartDate = dropZero(doc.Experiences[i].StartDate)
		doc.Experiences[i].EndDate = dropZero(doc.Experiences[i].EndDate)
	}
	for i := range doc.Education {
		doc.Education[i].StartDate = dropZero(doc.Education[i].StartDate)
		doc.Education[i].EndDate = dropZero(doc.Education[i].EndDate)
	}
	for i := range doc.Certifications {
		doc.Certifications[i].Date = dropZero(doc.Certifications[i].Date)
	}
	for i := range doc.Projects {
		if img := doc.Projects[i].Image; img != nil && img.URL == "" {
			doc.Projects[i].Image = nil
		}
	}
	if doc.Theme == "" {
		doc.Theme = DefaultTheme
	}
	return doc
}

// LenientList implements the lenient-parse policy for list fields:
//   - nil or empty string yields an empty list
//   - a string is parsed as JSON; a parse failure yields an empty list
//   - any other value is re-encoded and decoded into []T
//
// Elements that do not decode into T are skipped; the rest are kept in order.
// The result is never nil.
func LenientList[T any](v interface{}) []T {
	out := []T{}
	raw := toRaw(v)
	if raw == nil {
		return out
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return out
	}
	for _, it := range items {
		var elem T
		if err := json.Unmarshal(it, &elem); err != nil {
			continue
		}
		out = append(out, elem)
	}
	return out
}

// lenientStrings keeps scalar elements of a list as text. Numbers and booleans
// are rendered in their literal form; objects, arrays and nulls are skipped.
func lenientStrings(v interface{}) []string {
	out := []string{}
	for _, it := range LenientList[json.RawMessage](v) {
		it = bytes.TrimSpace(it)
		if len(it) == 0 || it[0] == '{' || it[0] == '[' || it[0] == 'n' {
			continue
		}
		out = append(out, scalar(it))
	}
	return out
}

// toRaw returns the JSON text of v, or nil when v is absent.
func toRaw(v interface{}) json.RawMessage {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return json.RawMessage(t)
	case json.RawMessage:
		if len(bytes.TrimSpace(t)) == 0 {
			return nil
		}
		return t
	case []byte:
		return json.RawMessage(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return nil
		}
		return b
	}
}

// rawOrNil adapts a decoded object member so nested strings keep the list rules.
func rawOrNil(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		return nil
	}
	return raw
}

// lenientObject decodes the personal block, accepting a JSON string or a structured value.
func lenientObject(v interface{}) map[string]json.RawMessage {
	out := map[string]json.RawMessage{}
	raw := toRaw(v)
	if raw == nil {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return map[string]json.RawMessage{}
	}
	return out
}

// scalar renders a JSON scalar as text. Strings are returned as-is, numbers and
// booleans in their literal form, anything else as "".
func scalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case 't', 'f':
		if string(raw) == "true" || string(raw) == "false" {
			return string(raw)
		}
		return ""
	case '{', '[', 'n':
		return ""
	default:
		if _, err := strconv.ParseFloat(string(raw), 64); err == nil || errors.Is(err, strconv.ErrRange) {
			return string(raw)
		}
		return ""
	}
}

// text is scalar extended to arrays: scalar elements are joined with ", ".
func text(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return scalar(raw)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return ""
	}
	parts := make([]string, 0, len(items))
	for _, it := range items {
		if s := scalar(it); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// lenientDate decodes a date member; anything unusable yields nil.
func lenientDate(raw json.RawMessage) *Date {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var d Date
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil
	}
	return dropZero(&d)
}

func theme(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	default:
		return scalar(toRaw(t))
	}
}

func dropZero(d *Date) *Date {
	if d == nil || d.IsZero() {
		return nil
	}
	return d
}

// ClampLevel rounds a percentage and clamps it to [0,100].
func ClampLevel(f float64) int {
	if math.IsNaN(f) {
		return 0
	}
	r := math.Round(f)
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return int(r)
}

// UnmarshalJSON accepts levels as numbers or numeric strings.
func (s *Skill) UnmarshalJSON(b []byte) error {
	var aux struct {
		Name  json.RawMessage `json:"name"`
		Level json.RawMessage `json:"level"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	s.Name = scalar(aux.Name)
	s.Level = 0
	if lv := scalar(aux.Level); lv != "" {
		// out-of-range values come back as ±Inf with ErrRange and clamp to the bounds
		f, err := strconv.ParseFloat(strings.TrimSpace(lv), 64)
		if err == nil || errors.Is(err, strconv.ErrRange) {
			s.Level = ClampLevel(f)
		}
	}
	return nil
}

// The decoders below keep an element when individual members carry the wrong
// type. String members accept any scalar; the element is only rejected when it
// is not an object.

func (l *SocialLink) UnmarshalJSON(b []byte) error {
	var aux struct {
		Platform json.RawMessage `json:"platform"`
		URL      json.RawMessage `json:"url"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*l = SocialLink{Platform: scalar(aux.Platform), URL: scalar(aux.URL)}
	return nil
}

func (e *Experience) UnmarshalJSON(b []byte) error {
	var aux struct {
		Company     json.RawMessage `json:"company"`
		Position    json.RawMessage `json:"position"`
		StartDate   json.RawMessage `json:"startDate"`
		EndDate     json.RawMessage `json:"endDate"`
		Description json.RawMessage `json:"description"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*e = Experience{
		Company:     scalar(aux.Company),
		Position:    scalar(aux.Position),
		StartDate:   lenientDate(aux.StartDate),
		EndDate:     lenientDate(aux.EndDate),
		Description: text(aux.Description),
	}
	return nil
}

func (e *Education) UnmarshalJSON(b []byte) error {
	var aux struct {
		Institution json.RawMessage `json:"institution"`
		Degree      json.RawMessage `json:"degree"`
		Field       json.RawMessage `json:"field"`
		StartDate   json.RawMessage `json:"startDate"`
		EndDate     json.RawMessage `json:"endDate"`
		Notes       json.RawMessage `json:"notes"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*e = Education{
		Institution: scalar(aux.Institution),
		Degree:      scalar(aux.Degree),
		Field:       scalar(aux.Field),
		StartDate:   lenientDate(aux.StartDate),
		EndDate:     lenientDate(aux.EndDate),
		Notes:       text(aux.Notes),
	}
	return nil
}

func (p *Project) UnmarshalJSON(b []byte) error {
	var aux struct {
		Title       json.RawMessage `json:"title"`
		Description json.RawMessage `json:"description"`
		Link        json.RawMessage `json:"link"`
		Image       json.RawMessage `json:"image"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*p = Project{
		Title:       scalar(aux.Title),
		Description: text(aux.Description),
		Link:        scalar(aux.Link),
	}
	if img := lenientObject(aux.Image); len(img) > 0 {
		if url := scalar(img["url"]); url != "" {
			p.Image = &Image{URL: url, PublicID: scalar(img["public_id"])}
		}
	}
	return nil
}

func (c *Certification) UnmarshalJSON(b []byte) error {
	var aux struct {
		Name       json.RawMessage `json:"name"`
		Issuer     json.RawMessage `json:"issuer"`
		Date       json.RawMessage `json:"date"`
		Credential json.RawMessage `json:"credential"`
		URL        json.RawMessage `json:"url"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*c = Certification{
		Name:       scalar(aux.Name),
		Issuer:     scalar(aux.Issuer),
		Date:       lenientDate(aux.Date),
		Credential: scalar(aux.Credential),
		URL:        scalar(aux.URL),
	}
	return nil
}

func (l *Language) UnmarshalJSON(b []byte) error {
	var aux struct {
		Name        json.RawMessage `json:"name"`
		Proficiency json.RawMessage `json:"proficiency"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*l = Language{Name: scalar(aux.Name), Proficiency: scalar(aux.Proficiency)}
	return nil
}
