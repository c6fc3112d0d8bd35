// Package matcher filters directory candidates for a booking. Eligibility is
// binary and candidates keep directory order, so callers treat the head of
// the list as the best match.
package matcher

import (
	"context"
	"fmt"
	"time"

	"backstage/pkg/model"
	"backstage/pkg/sanitizer"
)

// AgentRelevance is the specialization set that qualifies an agent for
// automatic assignment.
var AgentRelevance = []string{"booking_management", "talent_representation", "event_coordination"}

type Directory interface {
	FindManagedAgents(ctx context.Context) ([]*model.TalentProfile, error)
	FindProfessionals(ctx context.Context, serviceType model.ServiceType) ([]*model.TalentProfile, error)
}

// DateWindow is inclusive on both ends at day granularity.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the calendar day of d falls inside the window.
func (w DateWindow) Contains(d time.Time) bool {
	day := truncateDay(d)
	return !day.Before(truncateDay(w.Start)) && !day.After(truncateDay(w.End))
}

type Criteria struct {
	ServiceType    model.ServiceType
	Specialization string
	// Region is carried for callers and logging; it does not filter.
	Region string
	Window *DateWindow
}

type Matcher struct {
	directory Directory
}

func New(directory Directory) *Matcher {
	return &Matcher{directory: directory}
}

// Rank returns the professionals eligible for c in directory order.
func (m *Matcher) Rank(ctx context.Context, c Criteria) ([]*model.TalentProfile, error) {
	candidates, err := m.directory.FindProfessionals(ctx, c.ServiceType)
	if err != nil {
		return nil, fmt.Errorf("failed to list professionals: %w", err)
	}

	eligible := make([]*model.TalentProfile, 0, len(candidates))
	for _, p := range candidates {
		if Eligible(p, c) {
			eligible = append(eligible, p)
		}
	}
	return eligible, nil
}

// Best returns the head of Rank, or nil when nobody is eligible.
func (m *Matcher) Best(ctx context.Context, c Criteria) (*model.TalentProfile, error) {
	ranked, err := m.Rank(ctx, c)
	if err != nil || len(ranked) == 0 {
		return nil, err
	}
	return ranked[0], nil
}

func Eligible(p *model.TalentProfile, c Criteria) bool {
	if p.ServiceType != c.ServiceType {
		return false
	}
	if c.Specialization != "" && !hasAny(p.Specializations, []string{c.Specialization}) {
		return false
	}
	if c.Window != nil {
		for _, d := range p.BlockedDates {
			if c.Window.Contains(d) {
				return false
			}
		}
	}
	return true
}

// RankAgents returns fully managed, active agents with free capacity whose
// specializations intersect relevance, in directory order.
func (m *Matcher) RankAgents(ctx context.Context, relevance []string) ([]*model.TalentProfile, error) {
	agents, err := m.directory.FindManagedAgents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list managed agents: %w", err)
	}

	eligible := make([]*model.TalentProfile, 0, len(agents))
	for _, a := range agents {
		if !a.Active || !a.IsFullyManaged() || !a.HasCapacity() {
			continue
		}
		if hasAny(a.Specializations, relevance) {
			eligible = append(eligible, a)
		}
	}
	return eligible, nil
}

func hasAny(specializations, wanted []string) bool {
	for _, s := range specializations {
		own := sanitizer.NormalizeSpecialization(s)
		for _, w := range wanted {
			if own == sanitizer.NormalizeSpecialization(w) {
				return true
			}
		}
	}
	return false
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
