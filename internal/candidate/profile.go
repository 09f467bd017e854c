package candidate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Profile is the typed form of an externally parsed resume. Instances are
// immutable once ParseProfile returns them; the pipeline run owns the value.
type Profile struct {
	PersonalInfo   PersonalInfo    `json:"personal_info"`
	Summary        string          `json:"summary"`
	Education      []Education     `json:"education"`
	Experience     []Experience    `json:"experience"`
	Skills         StringList      `json:"skills"`
	Projects       []Project       `json:"projects"`
	Certifications []Certification `json:"certifications"`
}

// PersonalInfo carries the identity fields. A profile without a name or
// without any contact channel cannot enter the pipeline.
type PersonalInfo struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required_without=Phone"`
	Phone    string `json:"phone" validate:"required_without=Email"`
	Location string `json:"location"`
}

type Education struct {
	Degree         string `json:"degree"`
	Institution    string `json:"institution"`
	Field          string `json:"field,omitempty"`
	GraduationYear string `json:"graduation_year,omitempty"`
	GPA            string `json:"gpa,omitempty"`
}

func (e *Education) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		e.Degree = strings.TrimSpace(plain)
		return nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.Degree = textField(raw, "degree", "qualification")
	e.Institution = textField(raw, "institution", "school", "university")
	e.Field = textField(raw, "field", "field_of_study", "major")
	e.GraduationYear = textField(raw, "graduation_year", "graduation_date", "year")
	e.GPA = textField(raw, "gpa")
	return nil
}

// Experience dates are normalized to YYYY-MM or YYYY granularity; an
// unrecognizable or open-ended date serializes as null.
type Experience struct {
	Title            string     `json:"title"`
	Company          string     `json:"company"`
	Location         string     `json:"location,omitempty"`
	StartDate        *string    `json:"start_date"`
	EndDate          *string    `json:"end_date"`
	Duration         string     `json:"duration,omitempty"`
	UnparsedDuration string     `json:"unparsed_duration,omitempty"`
	Description      StringList `json:"description"`
	Responsibilities StringList `json:"responsibilities"`
	Achievements     StringList `json:"achievements"`
}

func (x *Experience) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		x.Title = strings.TrimSpace(plain)
		return nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	x.Title = textField(raw, "title", "position", "role")
	x.Company = textField(raw, "company", "employer", "organization")
	x.Location = textField(raw, "location")
	x.Duration = textField(raw, "duration")
	if v := textField(raw, "start_date", "from"); v != "" {
		x.StartDate = &v
	}
	if v := textField(raw, "end_date", "to"); v != "" {
		x.EndDate = &v
	}
	x.Description = listField(raw, "description")
	x.Responsibilities = listField(raw, "responsibilities")
	x.Achievements = listField(raw, "achievements")
	return nil
}

func (x *Experience) normalize() {
	x.StartDate = canonicalDate(x.StartDate)
	x.EndDate = canonicalDate(x.EndDate)

	duration := strings.TrimSpace(x.Duration)
	switch {
	case duration == "":
		x.Duration = ""
	case RecognizeDuration(duration):
		x.Duration = duration
	default:
		x.Duration = ""
		x.UnparsedDuration = duration
	}

	if x.Description == nil {
		x.Description = StringList{}
	}
	if x.Responsibilities == nil {
		x.Responsibilities = StringList{}
	}
	if x.Achievements == nil {
		x.Achievements = StringList{}
	}
}

type Project struct {
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Technologies StringList `json:"technologies"`
	URL          string     `json:"url,omitempty"`
}

func (p *Project) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		p.Name = strings.TrimSpace(plain)
		return nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.Name = textField(raw, "name", "title")
	p.Description = textField(raw, "description")
	p.Technologies = listField(raw, "technologies", "tech_stack", "stack")
	p.URL = textField(raw, "url", "link")
	return nil
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
}

func (c *Certification) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		c.Name = strings.TrimSpace(plain)
		return nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.Name = textField(raw, "name", "title")
	c.Issuer = textField(raw, "issuer", "authority")
	c.Date = textField(raw, "date", "issued")
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseProfile validates and normalizes an externally produced profile
// document. Unknown or missing optional fields default to explicit empty
// values; only a structurally unusable document (no name, no identifying
// contact) yields a ParseError.
func ParseProfile(data []byte) (*Profile, error) {
	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, &ParseError{Doc: "profile", Err: err}
	}

	profile.normalize()

	if err := validate.Struct(&profile); err != nil {
		return nil, &ParseError{Doc: "profile", Err: describeValidation(err)}
	}

	return &profile, nil
}

func (p *Profile) normalize() {
	p.PersonalInfo.Name = strings.TrimSpace(p.PersonalInfo.Name)
	p.PersonalInfo.Email = strings.TrimSpace(p.PersonalInfo.Email)
	p.PersonalInfo.Phone = strings.TrimSpace(p.PersonalInfo.Phone)
	p.PersonalInfo.Location = strings.TrimSpace(p.PersonalInfo.Location)
	p.Summary = strings.TrimSpace(p.Summary)

	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	for i := range p.Experience {
		p.Experience[i].normalize()
	}
	for i := range p.Education {
		p.Education[i].GraduationYear = NormalizeYear(p.Education[i].GraduationYear)
	}
	p.Skills = splitCommas(p.Skills)
	if p.Projects == nil {
		p.Projects = []Project{}
	}
	for i := range p.Projects {
		p.Projects[i].Technologies = splitCommas(p.Projects[i].Technologies)
	}
	if p.Certifications == nil {
		p.Certifications = []Certification{}
	}
	for i := range p.Certifications {
		if canonical, ok := NormalizeDate(p.Certifications[i].Date); ok {
			p.Certifications[i].Date = canonical
		}
	}
}

// describeValidation rewrites validator output into the ingestion contract's
// terms. The identity rules are the only fatal ones.
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var reasons []string
	contactSeen := false
	for _, fe := range verrs {
		switch fe.Field() {
		case "Name":
			reasons = append(reasons, "no candidate name")
		case "Title":
			reasons = append(reasons, "no job title or required skills")
		case "Email", "Phone":
			if !contactSeen {
				reasons = append(reasons, "no identifying contact (email or phone)")
				contactSeen = true
			}
		default:
			reasons = append(reasons, fmt.Sprintf("%s is required", strings.ToLower(fe.Field())))
		}
	}

	return errors.New(strings.Join(reasons, "; "))
}
