package projects

import (
	"fmt"
	"math"
	"strings"
	"time"

	"portfolio-backend/internal/validation"
)

const (
	StatusPlanning   = "planning"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusOnHold     = "on-hold"
	StatusArchived   = "archived"
)

const (
	DefaultCategory = "Other"
	DefaultPriority = 5

	shortDescriptionLen = 200
)

var Categories = []string{
	"Web Application",
	"Mobile Application",
	"Desktop Application",
	"API",
	"Library",
	"Tool",
	"Game",
	"Educational Platform",
	"HRMS System",
	"Social Platform",
	"Other",
}

var statusColors = map[string]string{
	StatusPlanning:   "blue",
	StatusInProgress: "yellow",
	StatusCompleted:  "green",
	StatusOnHold:     "orange",
	StatusArchived:   "gray",
}

type Metrics struct {
	UsersReached           *int   `bson:"usersReached,omitempty" json:"usersReached,omitempty" validate:"omitempty,gte=0"`
	PerformanceImprovement string `bson:"performanceImprovement,omitempty" json:"performanceImprovement,omitempty"`
	CostReduction          string `bson:"costReduction,omitempty" json:"costReduction,omitempty"`
	EfficiencyGain         string `bson:"efficiencyGain,omitempty" json:"efficiencyGain,omitempty"`
}

type Project struct {
	ID               string     `bson:"_id,omitempty" json:"_id"`
	Title            string     `bson:"title" json:"title"`
	Description      string     `bson:"description" json:"description"`
	ShortDescription string     `bson:"shortDescription" json:"shortDescription"`
	Image            string     `bson:"image" json:"image"`
	Tags             []string   `bson:"tags" json:"tags"`
	Technologies     []string   `bson:"technologies" json:"technologies"`
	Features         []string   `bson:"features" json:"features"`
	LiveURL          string     `bson:"liveUrl,omitempty" json:"liveUrl,omitempty"`
	GithubURL        string     `bson:"githubUrl,omitempty" json:"githubUrl,omitempty"`
	Status           string     `bson:"status" json:"status"`
	Category         string     `bson:"category" json:"category"`
	Priority         int        `bson:"priority" json:"priority"`
	StartDate        *time.Time `bson:"startDate,omitempty" json:"startDate,omitempty"`
	CompletionDate   *time.Time `bson:"completionDate,omitempty" json:"completionDate,omitempty"`
	EstimatedHours   *float64   `bson:"estimatedHours,omitempty" json:"estimatedHours,omitempty"`
	ActualHours      *float64   `bson:"actualHours,omitempty" json:"actualHours,omitempty"`
	Challenges       []string   `bson:"challenges" json:"challenges"`
	Solutions        []string   `bson:"solutions" json:"solutions"`
	Metrics          *Metrics   `bson:"metrics,omitempty" json:"metrics,omitempty"`
	IsFeatured       bool       `bson:"isFeatured" json:"isFeatured"`
	IsPublic         bool       `bson:"isPublic" json:"isPublic"`
	Views            int64      `bson:"views" json:"views"`
	Likes            int64      `bson:"likes" json:"likes"`
	CreatedAt        time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time  `bson:"updatedAt" json:"updatedAt"`

	// Derived on read, never stored.
	Duration    *int   `bson:"-" json:"duration"`
	StatusColor string `bson:"-" json:"statusColor"`
}

// DurationDays is the whole number of days between start and completion,
// rounded up; nil unless both dates are set.
func (p Project) DurationDays() *int {
	if p.StartDate == nil || p.CompletionDate == nil {
		return nil
	}
	diff := math.Abs(p.CompletionDate.Sub(*p.StartDate).Hours() / 24)
	days := int(math.Ceil(diff))
	return &days
}

func StatusColor(status string) string {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return "gray"
}

func (p *Project) fillDerived() {
	p.Duration = p.DurationDays()
	p.StatusColor = StatusColor(p.Status)
}

func (p Project) missingRequired() bool {
	return strings.TrimSpace(p.Title) == "" ||
		strings.TrimSpace(p.Description) == "" ||
		strings.TrimSpace(p.Image) == ""
}

// ShortDescription cuts description to 200 characters, marking the cut with "...".
func ShortDescription(description string) string {
	runes := []rune(description)
	if len(runes) <= shortDescriptionLen {
		return description
	}
	return string(runes[:shortDescriptionLen]) + "..."
}

// PrepareProject applies the save-time rules: trimming, defaults and the
// derived short description. It does not touch counters.
func PrepareProject(p Project, now time.Time) Project {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.ShortDescription = strings.TrimSpace(p.ShortDescription)
	p.Image = strings.TrimSpace(p.Image)
	p.LiveURL = strings.TrimSpace(p.LiveURL)
	p.GithubURL = strings.TrimSpace(p.GithubURL)

	if p.ShortDescription == "" && p.Description != "" {
		p.ShortDescription = ShortDescription(p.Description)
	}
	if p.Status == "" {
		p.Status = StatusCompleted
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	if p.Priority == 0 {
		p.Priority = DefaultPriority
	}

	p.Tags = trimList(p.Tags)
	p.Technologies = trimList(p.Technologies)
	p.Features = trimList(p.Features)
	p.Challenges = trimList(p.Challenges)
	p.Solutions = trimList(p.Solutions)

	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return p
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

// Input is the body of create and update requests. Nil fields are left
// untouched on update.
type Input struct {
	Title            *string   `json:"title" validate:"omitempty,max=100"`
	Description      *string   `json:"description" validate:"omitempty,max=1000"`
	ShortDescription *string   `json:"shortDescription" validate:"omitempty,max=200"`
	Image            *string   `json:"image"`
	Tags             *[]string `json:"tags" validate:"omitempty,dive,max=30"`
	Technologies     *[]string `json:"technologies" validate:"omitempty,dive,max=50"`
	Features         *[]string `json:"features" validate:"omitempty,dive,max=200"`
	LiveURL          *string   `json:"liveUrl" validate:"omitempty,httpurl"`
	GithubURL        *string   `json:"githubUrl" validate:"omitempty,httpurl"`
	Status           *string   `json:"status" validate:"omitempty,oneof=planning in-progress completed on-hold archived"`
	Category         *string   `json:"category" validate:"omitempty,oneof='Web Application' 'Mobile Application' 'Desktop Application' API Library Tool Game 'Educational Platform' 'HRMS System' 'Social Platform' Other"`
	Priority         *int      `json:"priority" validate:"omitempty,min=1,max=10"`
	StartDate        *string   `json:"startDate" validate:"omitempty,isodate"`
	CompletionDate   *string   `json:"completionDate" validate:"omitempty,isodate"`
	EstimatedHours   *float64  `json:"estimatedHours" validate:"omitempty,gte=0"`
	ActualHours      *float64  `json:"actualHours" validate:"omitempty,gte=0"`
	Challenges       *[]string `json:"challenges" validate:"omitempty,dive,max=300"`
	Solutions        *[]string `json:"solutions" validate:"omitempty,dive,max=300"`
	Metrics          *Metrics  `json:"metrics"`
	IsFeatured       *bool     `json:"isFeatured"`
	IsPublic         *bool     `json:"isPublic"`
}

func (in Input) MissingRequired() bool {
	return blank(in.Title) || blank(in.Description) || blank(in.Image)
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// ApplyTo merges the set fields of in onto p.
func (in Input) ApplyTo(p *Project) error {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.ShortDescription != nil {
		p.ShortDescription = *in.ShortDescription
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.Tags != nil {
		p.Tags = *in.Tags
	}
	if in.Technologies != nil {
		p.Technologies = *in.Technologies
	}
	if in.Features != nil {
		p.Features = *in.Features
	}
	if in.LiveURL != nil {
		p.LiveURL = *in.LiveURL
	}
	if in.GithubURL != nil {
		p.GithubURL = *in.GithubURL
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Priority != nil {
		p.Priority = *in.Priority
	}
	if in.StartDate != nil {
		t, err := validation.ParseDate(*in.StartDate)
		if err != nil {
			return fmt.Errorf("startDate: %w", err)
		}
		p.StartDate = &t
	}
	if in.CompletionDate != nil {
		t, err := validation.ParseDate(*in.CompletionDate)
		if err != nil {
			return fmt.Errorf("completionDate: %w", err)
		}
		p.CompletionDate = &t
	}
	if in.EstimatedHours != nil {
		p.EstimatedHours = in.EstimatedHours
	}
	if in.ActualHours != nil {
		p.ActualHours = in.ActualHours
	}
	if in.Challenges != nil {
		p.Challenges = *in.Challenges
	}
	if in.Solutions != nil {
		p.Solutions = *in.Solutions
	}
	if in.Metrics != nil {
		p.Metrics = in.Metrics
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	if in.IsPublic != nil {
		p.IsPublic = *in.IsPublic
	}
	return nil
}

type ListFilter struct {
	Category   string
	Status     string
	Technology string
	Featured   bool
}

type Stats struct {
	TotalProjects      int64 `bson:"totalProjects" json:"totalProjects"`
	CompletedProjects  int64 `bson:"completedProjects" json:"completedProjects"`
	InProgressProjects int64 `bson:"inProgressProjects" json:"inProgressProjects"`
	FeaturedProjects   int64 `bson:"featuredProjects" json:"featuredProjects"`
	TotalViews         int64 `bson:"totalViews" json:"totalViews"`
	TotalLikes         int64 `bson:"totalLikes" json:"totalLikes"`
}
