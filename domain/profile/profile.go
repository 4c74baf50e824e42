package profile

import "time"

// CareerStatus enumerates where a member currently stands in their career.
type CareerStatus string

const (
	StatusInIndustry           CareerStatus = "in_industry"
	StatusSeekingOpportunities CareerStatus = "seeking_opportunities"
	StatusStudent              CareerStatus = "student"
	StatusCareerBreak          CareerStatus = "career_break"
)

// CareerStatusLabels maps enum values to their display labels.
var CareerStatusLabels = map[CareerStatus]string{
	StatusInIndustry:           "Currently in Industry",
	StatusSeekingOpportunities: "Seeking Opportunities",
	StatusStudent:              "Student",
	StatusCareerBreak:          "Career Break",
}

// Label returns the display label for a career status, falling back to
// the raw value for unknown ones.
func (s CareerStatus) Label() string {
	if label, ok := CareerStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// IndustryOptions is the closed list of industry labels offered by the
// product. Custom labels live in the custom_industry column instead.
var IndustryOptions = []string{
	"Software Engineering",
	"Data Science",
	"Manufacturing",
	"Mechanical Engineering",
	"Electrical Engineering",
	"Chemical Engineering",
	"Biotechnology",
	"Robotics",
	"Aerospace",
	"Research & Development",
	"Quality Assurance",
	"Other",
}

// Profile is a member profile. The id equals the auth provider's user id;
// all rows are owned and persisted by the external store.
type Profile struct {
	ID                string       `json:"id"`
	FullName          string       `json:"full_name"`
	Email             string       `json:"email,omitempty"`
	Bio               string       `json:"bio,omitempty"`
	Location          string       `json:"location,omitempty"`
	Industry          string       `json:"industry,omitempty"`
	CustomIndustry    string       `json:"custom_industry,omitempty"`
	CurrentSchool     string       `json:"current_school,omitempty"`
	CareerStatus      CareerStatus `json:"career_status,omitempty"`
	Skills            []string     `json:"skills,omitempty"`
	LookingFor        []string     `json:"looking_for,omitempty"`
	ProfilePictureURL string       `json:"profile_picture_url,omitempty"`
	Embedding         []float32    `json:"embedding,omitempty"`
	CreatedAt         time.Time    `json:"created_at,omitempty"`
	UpdatedAt         time.Time    `json:"updated_at,omitempty"`
}

// EffectiveIndustry prefers a custom label over the enumerated one.
func (p *Profile) EffectiveIndustry() string {
	if p.CustomIndustry != "" {
		return p.CustomIndustry
	}
	return p.Industry
}

// Summary is a compact profile view sent to the ranking model and embedded
// in recommendation payloads. Bio is truncated to keep prompts bounded.
type Summary struct {
	ID             string   `json:"id"`
	Location       string   `json:"location"`
	Industry       string   `json:"industry"`
	CustomIndustry string   `json:"custom_industry"`
	CurrentSchool  string   `json:"current_school"`
	CareerStatus   string   `json:"career_status"`
	Skills         []string `json:"skills"`
	Bio            string   `json:"bio"`
}

const summaryBioLimit = 200

// Summarize renders a profile into its compact form.
func Summarize(p *Profile) Summary {
	bio := p.Bio
	if runes := []rune(bio); len(runes) > summaryBioLimit {
		bio = string(runes[:summaryBioLimit])
	}
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	return Summary{
		ID:             p.ID,
		Location:       p.Location,
		Industry:       p.Industry,
		CustomIndustry: p.CustomIndustry,
		CurrentSchool:  p.CurrentSchool,
		CareerStatus:   string(p.CareerStatus),
		Skills:         skills,
		Bio:            bio,
	}
}
