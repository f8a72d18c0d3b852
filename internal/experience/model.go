package experience

import (
	"fmt"
	"math"
	"strings"
	"time"

	"portfolio-backend/internal/validation"
)

const (
	DefaultWorkType = "Full-time"
	DefaultPriority = 5

	monthLayout = "Jan 2006"
)

var WorkTypes = []string{"Full-time", "Part-time", "Contract", "Internship", "Freelance"}

type Duration struct {
	StartDate time.Time  `bson:"startDate" json:"startDate"`
	EndDate   *time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"`
	IsCurrent bool       `bson:"isCurrent" json:"isCurrent"`
}

type Impact struct {
	UserEngagement        string `bson:"userEngagement,omitempty" json:"userEngagement,omitempty"`
	DailyConversations    string `bson:"dailyConversations,omitempty" json:"dailyConversations,omitempty"`
	PlatformAdoption      string `bson:"platformAdoption,omitempty" json:"platformAdoption,omitempty"`
	ReleaseCycles         string `bson:"releaseCycles,omitempty" json:"releaseCycles,omitempty"`
	OperationalEfficiency string `bson:"operationalEfficiency,omitempty" json:"operationalEfficiency,omitempty"`
	ResponseTime          string `bson:"responseTime,omitempty" json:"responseTime,omitempty"`
	CloudCosts            string `bson:"cloudCosts,omitempty" json:"cloudCosts,omitempty"`
	PostDeploymentDefects string `bson:"postDeploymentDefects,omitempty" json:"postDeploymentDefects,omitempty"`
	StudentsReached       string `bson:"studentsReached,omitempty" json:"studentsReached,omitempty"`
	SolutionsProcessed    string `bson:"solutionsProcessed,omitempty" json:"solutionsProcessed,omitempty"`
	LearningTimeReduction string `bson:"learningTimeReduction,omitempty" json:"learningTimeReduction,omitempty"`
	AccuracyTracking      string `bson:"accuracyTracking,omitempty" json:"accuracyTracking,omitempty"`
}

// Count is the number of metrics that carry a value.
func (i *Impact) Count() int {
	if i == nil {
		return 0
	}
	n := 0
	for _, v := range []string{
		i.UserEngagement, i.DailyConversations, i.PlatformAdoption, i.ReleaseCycles,
		i.OperationalEfficiency, i.ResponseTime, i.CloudCosts, i.PostDeploymentDefects,
		i.StudentsReached, i.SolutionsProcessed, i.LearningTimeReduction, i.AccuracyTracking,
	} {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

type Certification struct {
	Name       string     `bson:"name,omitempty" json:"name,omitempty"`
	Issuer     string     `bson:"issuer,omitempty" json:"issuer,omitempty"`
	Date       *time.Time `bson:"date,omitempty" json:"date,omitempty"`
	ExpiryDate *time.Time `bson:"expiryDate,omitempty" json:"expiryDate,omitempty"`
	IsExpired  bool       `bson:"isExpired" json:"isExpired"`
}

type Reference struct {
	Name         string `bson:"name,omitempty" json:"name,omitempty"`
	Position     string `bson:"position,omitempty" json:"position,omitempty"`
	Email        string `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`
	Relationship string `bson:"relationship,omitempty" json:"relationship,omitempty"`
}

type Experience struct {
	ID                 string          `bson:"_id,omitempty" json:"_id"`
	Company            string          `bson:"company" json:"company"`
	Position           string          `bson:"position" json:"position"`
	Duration           Duration        `bson:"duration" json:"duration"`
	Location           string          `bson:"location,omitempty" json:"location,omitempty"`
	WorkType           string          `bson:"workType" json:"workType"`
	Achievements       []string        `bson:"achievements" json:"achievements"`
	Technologies       []string        `bson:"technologies" json:"technologies"`
	CompanyDescription string          `bson:"companyDescription,omitempty" json:"companyDescription,omitempty"`
	Impact             *Impact         `bson:"impact,omitempty" json:"impact,omitempty"`
	Highlights         []string        `bson:"highlights" json:"highlights"`
	Responsibilities   []string        `bson:"responsibilities" json:"responsibilities"`
	TeamSize           *int            `bson:"teamSize,omitempty" json:"teamSize,omitempty"`
	ProjectBudget      *float64        `bson:"projectBudget,omitempty" json:"projectBudget,omitempty"`
	IsPublic           bool            `bson:"isPublic" json:"isPublic"`
	Priority           int             `bson:"priority" json:"priority"`
	Skills             []string        `bson:"skills" json:"skills"`
	Certifications     []Certification `bson:"certifications" json:"certifications"`
	References         []Reference     `bson:"references" json:"references"`
	CreatedAt          time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time       `bson:"updatedAt" json:"updatedAt"`

	// Derived on read, never stored.
	FormattedDuration string   `bson:"-" json:"formattedDuration"`
	DurationMonths    *int     `bson:"-" json:"durationMonths"`
	DurationYears     *float64 `bson:"-" json:"durationYears"`
	TotalImpact       int      `bson:"-" json:"totalImpact"`
}

// FormatDuration renders "Jan 2023 - Present", "Jan 2023 - Mar 2024" or the
// start month alone.
func (e Experience) FormatDuration() string {
	start := formatMonth(e.Duration.StartDate)
	switch {
	case e.Duration.IsCurrent:
		return start + " - Present"
	case e.Duration.EndDate != nil:
		return start + " - " + formatMonth(*e.Duration.EndDate)
	default:
		return start
	}
}

func formatMonth(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(monthLayout)
}

// Months counts calendar months from start to now (current roles) or to the
// end date. It is nil only when there is no end date and the role is not current.
func (e Experience) Months(now time.Time) *int {
	var end time.Time
	switch {
	case e.Duration.IsCurrent:
		end = now
	case e.Duration.EndDate != nil:
		end = *e.Duration.EndDate
	default:
		return nil
	}
	start := e.Duration.StartDate.UTC()
	end = end.UTC()
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if months < 0 {
		months = 0
	}
	return &months
}

func yearsFromMonths(months *int) *float64 {
	if months == nil {
		return nil
	}
	years := math.Round(float64(*months)/12*10) / 10
	return &years
}

func (e *Experience) fillDerived(now time.Time) {
	e.FormattedDuration = e.FormatDuration()
	e.DurationMonths = e.Months(now)
	e.DurationYears = yearsFromMonths(e.DurationMonths)
	e.TotalImpact = e.Impact.Count()
}

func (e Experience) missingRequired() bool {
	return strings.TrimSpace(e.Company) == "" ||
		strings.TrimSpace(e.Position) == "" ||
		e.Duration.StartDate.IsZero()
}

// PrepareExperience applies the save-time rules: trimming, defaults, the
// current flag for open-ended roles and certification expiry relative to now.
func PrepareExperience(e Experience, now time.Time) Experience {
	e.Company = strings.TrimSpace(e.Company)
	e.Position = strings.TrimSpace(e.Position)
	e.Location = strings.TrimSpace(e.Location)
	e.CompanyDescription = strings.TrimSpace(e.CompanyDescription)

	if e.WorkType == "" {
		e.WorkType = DefaultWorkType
	}
	if e.Priority == 0 {
		e.Priority = DefaultPriority
	}
	if e.Duration.EndDate == nil {
		e.Duration.IsCurrent = true
	}

	e.Achievements = trimList(e.Achievements)
	e.Technologies = trimList(e.Technologies)
	e.Highlights = trimList(e.Highlights)
	e.Responsibilities = trimList(e.Responsibilities)
	e.Skills = trimList(e.Skills)

	certs := make([]Certification, 0, len(e.Certifications))
	for _, c := range e.Certifications {
		if c.ExpiryDate != nil {
			c.IsExpired = now.After(*c.ExpiryDate)
		}
		certs = append(certs, c)
	}
	e.Certifications = certs
	if e.References == nil {
		e.References = []Reference{}
	}

	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	return e
}

func trimList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type DurationInput struct {
	StartDate *string `json:"startDate" validate:"omitempty,isodate"`
	EndDate   *string `json:"endDate" validate:"omitempty,isodate"`
	IsCurrent *bool   `json:"isCurrent"`
}

type CertificationInput struct {
	Name       string `json:"name"`
	Issuer     string `json:"issuer"`
	Date       string `json:"date" validate:"omitempty,isodate"`
	ExpiryDate string `json:"expiryDate" validate:"omitempty,isodate"`
}

// Input is the body of create and update requests. Nil fields are left
// untouched on update.
type Input struct {
	Company            *string               `json:"company" validate:"omitempty,max=100"`
	Position           *string               `json:"position" validate:"omitempty,max=100"`
	Duration           *DurationInput        `json:"duration"`
	Location           *string               `json:"location" validate:"omitempty,max=100"`
	WorkType           *string               `json:"workType" validate:"omitempty,oneof=Full-time Part-time Contract Internship Freelance"`
	Achievements       *[]string             `json:"achievements" validate:"omitempty,dive,max=500"`
	Technologies       *[]string             `json:"technologies" validate:"omitempty,dive,max=50"`
	CompanyDescription *string               `json:"companyDescription" validate:"omitempty,max=500"`
	Impact             *Impact               `json:"impact"`
	Highlights         *[]string             `json:"highlights" validate:"omitempty,dive,max=200"`
	Responsibilities   *[]string             `json:"responsibilities" validate:"omitempty,dive,max=300"`
	TeamSize           *int                  `json:"teamSize" validate:"omitempty,min=1"`
	ProjectBudget      *float64              `json:"projectBudget" validate:"omitempty,gte=0"`
	IsPublic           *bool                 `json:"isPublic"`
	Priority           *int                  `json:"priority" validate:"omitempty,min=1,max=10"`
	Skills             *[]string             `json:"skills" validate:"omitempty,dive,max=50"`
	Certifications     *[]CertificationInput `json:"certifications" validate:"omitempty,dive"`
	References         *[]Reference          `json:"references" validate:"omitempty,dive"`
}

func (in Input) MissingRequired() bool {
	return blank(in.Company) || blank(in.Position) || in.Duration == nil || blank(in.Duration.StartDate)
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func parseOptionalDate(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := validation.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return &t, nil
}

// ApplyTo merges the set fields of in onto e. Setting an end date without
// an explicit isCurrent closes the role; an empty end date reopens it.
func (in Input) ApplyTo(e *Experience) error {
	if in.Company != nil {
		e.Company = *in.Company
	}
	if in.Position != nil {
		e.Position = *in.Position
	}
	if d := in.Duration; d != nil {
		if d.StartDate != nil {
			start, err := parseOptionalDate("duration.startDate", *d.StartDate)
			if err != nil {
				return err
			}
			if start == nil {
				e.Duration.StartDate = time.Time{}
			} else {
				e.Duration.StartDate = *start
			}
		}
		if d.EndDate != nil {
			end, err := parseOptionalDate("duration.endDate", *d.EndDate)
			if err != nil {
				return err
			}
			e.Duration.EndDate = end
			if end != nil && d.IsCurrent == nil {
				e.Duration.IsCurrent = false
			}
		}
		if d.IsCurrent != nil {
			e.Duration.IsCurrent = *d.IsCurrent
		}
	}
	if in.Location != nil {
		e.Location = *in.Location
	}
	if in.WorkType != nil {
		e.WorkType = *in.WorkType
	}
	if in.Achievements != nil {
		e.Achievements = *in.Achievements
	}
	if in.Technologies != nil {
		e.Technologies = *in.Technologies
	}
	if in.CompanyDescription != nil {
		e.CompanyDescription = *in.CompanyDescription
	}
	if in.Impact != nil {
		e.Impact = in.Impact
	}
	if in.Highlights != nil {
		e.Highlights = *in.Highlights
	}
	if in.Responsibilities != nil {
		e.Responsibilities = *in.Responsibilities
	}
	if in.TeamSize != nil {
		e.TeamSize = in.TeamSize
	}
	if in.ProjectBudget != nil {
		e.ProjectBudget = in.ProjectBudget
	}
	if in.IsPublic != nil {
		e.IsPublic = *in.IsPublic
	}
	if in.Priority != nil {
		e.Priority = *in.Priority
	}
	if in.Skills != nil {
		e.Skills = *in.Skills
	}
	if in.Certifications != nil {
		certs := make([]Certification, 0, len(*in.Certifications))
		for i, c := range *in.Certifications {
			date, err := parseOptionalDate(fmt.Sprintf("certifications[%d].date", i), c.Date)
			if err != nil {
				return err
			}
			expiry, err := parseOptionalDate(fmt.Sprintf("certifications[%d].expiryDate", i), c.ExpiryDate)
			if err != nil {
				return err
			}
			certs = append(certs, Certification{
				Name:       strings.TrimSpace(c.Name),
				Issuer:     strings.TrimSpace(c.Issuer),
				Date:       date,
				ExpiryDate: expiry,
			})
		}
		e.Certifications = certs
	}
	if in.References != nil {
		e.References = *in.References
	}
	return nil
}

type ListFilter struct {
	Company    string
	Position   string
	Technology string
	Current    bool
}

type Company struct {
	Company          string   `bson:"company" json:"company"`
	Positions        []string `bson:"positions" json:"positions"`
	TotalExperiences int64    `bson:"totalExperiences" json:"totalExperiences"`
}

type Summary struct {
	TotalExperiences  int64 `json:"totalExperiences"`
	CurrentPositions  int64 `json:"currentPositions"`
	TotalTechnologies int64 `json:"totalTechnologies"`
	TotalSkills       int64 `json:"totalSkills"`
	AverageDuration   int64 `json:"averageDuration"`
}
