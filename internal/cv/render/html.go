package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/folio-studio/portfolio-api/internal/cv"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the short month/day/year format used for every date on the CV.
const DateLayout = "1/2/2006"

const cvTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>CV - {{.Personal.Name}}</title>
<style>
@import url('https://fonts.googleapis.com/css2?family=Inter:wght@400;600;700&display=swap');
body { font-family: 'Inter', sans-serif; margin:0; padding:0; background:#f5f5f5; color:#333; }
.container { max-width: 800px; margin: 20px auto; background: #fff; padding: 40px; border-radius: 12px; box-shadow: 0 4px 12px rgba(0,0,0,0.1); }
.header { display:flex; align-items:center; gap:20px; margin-bottom:30px; }
.profile-pic { width:120px; height:120px; border-radius:50%; object-fit:cover; border:2px solid #f9861a; }
.personal-info h1 { margin:0; font-size:32px; color:#f9861a; }
.personal-info p { margin:2px 0; font-size:14px; color:#555; }
.section { margin-bottom:25px; }
.section h2 { font-size:20px; color:#07070e; border-bottom:2px solid #f9861a; padding-bottom:4px; margin-bottom:10px; }
.item { margin-bottom:10px; }
.item h3 { margin:0; font-size:16px; font-weight:600; }
.item p { margin:2px 0; font-size:14px; color:#555; }
.social-links a { margin-right:10px; text-decoration:none; color:#f9861a; font-weight:600; }
</style>
</head>
<body>
<div class="container">
<div class="header">
{{with .Personal.ProfilePic}}{{if .URL}}<img class="profile-pic" src="{{.URL}}" alt="">{{end}}{{end}}
<div class="personal-info">
<h1>{{.Personal.Name}}</h1>
{{with .Personal.Title}}<p>{{.}}</p>{{end}}
{{with .Personal.Email}}<p>Email: {{.}}</p>{{end}}
{{with .Personal.Phone}}<p>Phone: {{.}}</p>{{end}}
{{with .Personal.Address}}<p>Address: {{.}}</p>{{end}}
{{with .Personal.Website}}<p>Website: {{.}}</p>{{end}}
{{if .Personal.SocialLinks}}<div class="social-links" id="social-links">{{range .Personal.SocialLinks}}<a href="{{.URL}}" target="_blank">{{.Platform}}</a>{{end}}</div>{{end}}
</div>
</div>
{{with .Personal.Summary}}<section class="section" id="summary"><h2>Summary</h2><p>{{.}}</p></section>{{end}}
{{if .Experiences}}<section class="section" id="experience"><h2>Experience</h2>{{range .Experiences}}
<div class="item">
<h3>{{.Position}} - {{.Company}}</h3>
<p>{{date .StartDate}} - {{endDate .EndDate}}</p>
{{with .Description}}<p>{{.}}</p>{{end}}
</div>{{end}}
</section>{{end}}
{{if .Education}}<section class="section" id="education"><h2>Education</h2>{{range .Education}}
<div class="item">
<h3>{{.Degree}} - {{.Institution}}</h3>
<p>{{date .StartDate}} - {{endDate .EndDate}}</p>
{{with .Field}}<p>{{.}}</p>{{end}}
{{with .Notes}}<p>{{.}}</p>{{end}}
</div>{{end}}
</section>{{end}}
{{if .Projects}}<section class="section" id="projects"><h2>Projects</h2>{{range .Projects}}
<div class="item">
<h3>{{.Title}}</h3>
{{with .Description}}<p>{{.}}</p>{{end}}
{{with .Link}}<p>Link: <a href="{{.}}" target="_blank">{{.}}</a></p>{{end}}
</div>{{end}}
</section>{{end}}
{{if .Certifications}}<section class="section" id="certifications"><h2>Certifications</h2>{{range .Certifications}}
<div class="item">
<h3>{{.Name}} - {{.Issuer}}</h3>
{{with .Date}}<p>{{date .}}</p>{{end}}
{{with .Credential}}<p>{{.}}</p>{{end}}
{{with .URL}}<p>URL: <a href="{{.}}" target="_blank">{{.}}</a></p>{{end}}
</div>{{end}}
</section>{{end}}
{{if .Skills}}<section class="section" id="skills"><h2>Skills</h2><p>{{skills .Skills}}</p></section>{{end}}
{{if .Languages}}<section class="section" id="languages"><h2>Languages</h2><p>{{languages .Languages}}</p></section>{{end}}
{{if .Interests}}<section class="section" id="interests"><h2>Interests</h2><p>{{join .Interests}}</p></section>{{end}}
{{if .CustomSections}}<section class="section" id="custom-sections"><h2>Custom Sections</h2>{{range .CustomSections}}
<div class="item">
<h3>{{.Title}}</h3>
<p>{{content .Content}}</p>
</div>{{end}}
</section>{{end}}
</div>
</body>
</html>
`

var cvPage = template.Must(template.New("cv").Funcs(template.FuncMap{
	"date":      formatDate,
	"endDate":   formatEndDate,
	"skills":    SkillsLine,
	"languages": LanguagesLine,
	"join":      func(v []string) string { return strings.Join(v, ", ") },
	"content":   ContentText,
}).Parse(cvTemplate))

// HTML renders doc as a self-contained HTML page. Sections whose data is empty
// are omitted entirely. All document text is escaped.
func HTML(doc *cv.CVDocument) string {
	var buf bytes.Buffer
	// helpers never fail and the buffer cannot, so execution errors are impossible
	_ = cvPage.Execute(&buf, doc)
	return buf.String()
}

func formatDate(d *cv.Date) string {
	if d == nil || d.IsZero() {
		return ""
	}
	return d.UTC().Format(DateLayout)
}

func formatEndDate(d *cv.Date) string {
	if d == nil || d.IsZero() {
		return "Present"
	}
	return formatDate(d)
}

// SkillsLine renders skills as "name (level%)" joined by ", ".
func SkillsLine(skills []cv.Skill) string {
	parts := make([]string, 0, len(skills))
	for _, s := range skills {
		parts = append(parts, fmt.Sprintf("%s (%d%%)", s.Name, s.Level))
	}
	return strings.Join(parts, ", ")
}

// LanguagesLine renders languages as "name (proficiency)" joined by ", ".
func LanguagesLine(langs []cv.Language) string {
	parts := make([]string, 0, len(langs))
	for _, l := range langs {
		parts = append(parts, fmt.Sprintf("%s (%s)", l.Name, l.Proficiency))
	}
	return strings.Join(parts, ", ")
}

// ContentText renders free-form custom section content: strings as-is, lists
// joined by ", ", anything else as JSON.
func ContentText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(t, ", ")
	case []interface{}:
		return joinValues(t)
	case primitive.A:
		return joinValues(t)
	default:
		return jsonText(t)
	}
}

func joinValues(vs []interface{}) string {
	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		if s, ok := v.(string); ok {
			parts = append(parts, s)
			continue
		}
		parts = append(parts, jsonText(v))
	}
	return strings.Join(parts, ", ")
}

func jsonText(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
