package experience

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/validation"
)

func ptr[T any](v T) *T { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFormatDuration(t *testing.T) {
	end := date(2024, time.March, 15)
	cases := []struct {
		name string
		d    Duration
		want string
	}{
		{"current", Duration{StartDate: date(2023, time.January, 1), IsCurrent: true}, "Jan 2023 - Present"},
		{"closed", Duration{StartDate: date(2023, time.January, 1), EndDate: &end}, "Jan 2023 - Mar 2024"},
		{"start only", Duration{StartDate: date(2023, time.January, 1)}, "Jan 2023"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Experience{Duration: tc.d}.FormatDuration())
		})
	}
}

func TestMonths(t *testing.T) {
	now := date(2025, time.June, 10)
	end := date(2024, time.March, 1)
	before := date(2022, time.December, 1)

	current := Experience{Duration: Duration{StartDate: date(2024, time.January, 20), IsCurrent: true}}
	require.NotNil(t, current.Months(now))
	assert.Equal(t, 17, *current.Months(now))

	closed := Experience{Duration: Duration{StartDate: date(2023, time.January, 1), EndDate: &end}}
	assert.Equal(t, 14, *closed.Months(now))

	inverted := Experience{Duration: Duration{StartDate: date(2023, time.January, 1), EndDate: &before}}
	assert.Equal(t, 0, *inverted.Months(now))

	open := Experience{Duration: Duration{StartDate: date(2023, time.January, 1)}}
	assert.Nil(t, open.Months(now))
}

func TestFillDerived(t *testing.T) {
	end := date(2024, time.July, 1)
	e := Experience{
		Duration: Duration{StartDate: date(2023, time.January, 1), EndDate: &end},
		Impact:   &Impact{UserEngagement: "40%", ResponseTime: " ", CloudCosts: "-20%"},
	}
	e.fillDerived(date(2025, time.January, 1))

	assert.Equal(t, "Jan 2023 - Jul 2024", e.FormattedDuration)
	require.NotNil(t, e.DurationMonths)
	assert.Equal(t, 18, *e.DurationMonths)
	require.NotNil(t, e.DurationYears)
	assert.Equal(t, 1.5, *e.DurationYears)
	assert.Equal(t, 2, e.TotalImpact)

	var none Experience
	none.fillDerived(date(2025, time.January, 1))
	assert.Nil(t, none.DurationMonths)
	assert.Nil(t, none.DurationYears)
	assert.Equal(t, 0, none.TotalImpact)
}

func TestPrepareExperience(t *testing.T) {
	now := date(2025, time.January, 1)
	expired := date(2024, time.June, 1)
	valid := date(2026, time.June, 1)

	e := PrepareExperience(Experience{
		Company:      "  Acme ",
		Position:     " Engineer",
		Duration:     Duration{StartDate: date(2023, time.January, 1)},
		Technologies: []string{" Go ", "", "MongoDB"},
		Certifications: []Certification{
			{Name: "old", ExpiryDate: &expired},
			{Name: "new", ExpiryDate: &valid},
			{Name: "forever"},
		},
	}, now)

	assert.Equal(t, "Acme", e.Company)
	assert.Equal(t, "Engineer", e.Position)
	assert.Equal(t, DefaultWorkType, e.WorkType)
	assert.Equal(t, DefaultPriority, e.Priority)
	assert.True(t, e.Duration.IsCurrent, "no end date means current")
	assert.Equal(t, []string{"Go", "MongoDB"}, e.Technologies)
	assert.True(t, e.Certifications[0].IsExpired)
	assert.False(t, e.Certifications[1].IsExpired)
	assert.False(t, e.Certifications[2].IsExpired)
	assert.NotNil(t, e.References)
	assert.Equal(t, now, e.CreatedAt)
	assert.Equal(t, now, e.UpdatedAt)
}

func TestPrepareExperienceRecomputesExpiry(t *testing.T) {
	expiry := date(2025, time.March, 1)
	e := Experience{Certifications: []Certification{{Name: "c", ExpiryDate: &expiry}}}

	e = PrepareExperience(e, date(2025, time.January, 1))
	assert.False(t, e.Certifications[0].IsExpired)

	e = PrepareExperience(e, date(2025, time.April, 1))
	assert.True(t, e.Certifications[0].IsExpired)
}

func TestApplyToEndDate(t *testing.T) {
	e := Experience{Duration: Duration{StartDate: date(2023, time.January, 1), IsCurrent: true}}

	require.NoError(t, Input{Duration: &DurationInput{EndDate: ptr("2024-05-01")}}.ApplyTo(&e))
	require.NotNil(t, e.Duration.EndDate)
	assert.False(t, e.Duration.IsCurrent, "an end date closes the role")

	require.NoError(t, Input{Duration: &DurationInput{EndDate: ptr("")}}.ApplyTo(&e))
	assert.Nil(t, e.Duration.EndDate)
	e = PrepareExperience(e, date(2025, time.January, 1))
	assert.True(t, e.Duration.IsCurrent)

	err := Input{Duration: &DurationInput{StartDate: ptr("not a date")}}.ApplyTo(&e)
	assert.Error(t, err)
}

func TestInputValidation(t *testing.T) {
	v := validation.New()

	ok := Input{
		Company:  ptr("Acme"),
		Position: ptr("Engineer"),
		Duration: &DurationInput{StartDate: ptr("2023-01-01")},
		WorkType: ptr("Contract"),
		TeamSize: ptr(4),
	}
	assert.NoError(t, v.Struct(ok))

	bad := ok
	bad.WorkType = ptr("Gig")
	assert.Error(t, v.Struct(bad))

	bad = ok
	bad.TeamSize = ptr(0)
	assert.Error(t, v.Struct(bad))

	bad = ok
	bad.Priority = ptr(11)
	assert.Error(t, v.Struct(bad))

	bad = ok
	bad.References = &[]Reference{{Name: "R", Email: "nope"}}
	assert.Error(t, v.Struct(bad))
}

func TestMissingRequired(t *testing.T) {
	assert.True(t, Input{}.MissingRequired())
	assert.True(t, Input{Company: ptr("Acme"), Position: ptr("Eng")}.MissingRequired())
	assert.True(t, Input{Company: ptr(" "), Position: ptr("Eng"), Duration: &DurationInput{StartDate: ptr("2023-01-01")}}.MissingRequired())
	assert.False(t, Input{Company: ptr("Acme"), Position: ptr("Eng"), Duration: &DurationInput{StartDate: ptr("2023-01-01")}}.MissingRequired())
}
