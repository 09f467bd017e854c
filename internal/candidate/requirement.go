package candidate

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Requirement is the typed form of a job requirement set. Like Profile it is
// immutable for the duration of a pipeline run.
type Requirement struct {
	Title                 string     `json:"title" validate:"required_without=RequiredSkills"`
	RequiredSkills        StringList `json:"required_skills"`
	PreferredSkills       StringList `json:"preferred_skills"`
	MinExperienceYears    Years      `json:"min_experience_years"`
	EducationRequirements StringList `json:"education_requirements"`
}

// Years holds an experience requirement. Upstream emits both bare numbers
// and strings like "3+ years"; unreadable values degrade to zero rather than
// failing ingestion.
type Years float64

var yearsRe = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

func (y *Years) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*y = Years(num)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if m := yearsRe.FindStringSubmatch(s); m != nil {
			f, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				*y = Years(f)
				return nil
			}
		}
	}

	*y = 0
	return nil
}

// ParseRequirement validates and normalizes an externally produced job
// requirement document.
func ParseRequirement(data []byte) (*Requirement, error) {
	var req Requirement
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, &ParseError{Doc: "requirement", Err: err}
	}

	req.normalize()

	if err := validate.Struct(&req); err != nil {
		return nil, &ParseError{Doc: "requirement", Err: describeValidation(err)}
	}

	return &req, nil
}

func (r *Requirement) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.RequiredSkills = splitCommas(r.RequiredSkills)
	r.PreferredSkills = splitCommas(r.PreferredSkills)
	if r.EducationRequirements == nil {
		r.EducationRequirements = StringList{}
	}
	if r.MinExperienceYears < 0 {
		r.MinExperienceYears = 0
	}
}
