package service

import (
	"time"

	"backstage/pkg/model"
)

const day = 24 * time.Hour

type serviceTemplate struct {
	duration     int
	unit         model.DurationUnit
	requirements []string
}

// serviceOrder is the order services are staffed and listed in a plan.
var serviceOrder = []model.ServiceType{
	model.ServicePhotographer,
	model.ServiceVideographer,
	model.ServiceMarketing,
	model.ServiceSocialMedia,
}

var templates = map[model.ServiceType]serviceTemplate{
	model.ServicePhotographer: {4, model.UnitHours, []string{"event_coverage", "promotional_shots"}},
	model.ServiceVideographer: {6, model.UnitHours, []string{"live_performance", "behind_scenes", "promotional_video"}},
	model.ServiceMarketing:    {10, model.UnitDays, []string{"event_promotion", "press_releases", "media_outreach"}},
	model.ServiceSocialMedia:  {7, model.UnitDays, []string{"content_creation", "live_updates", "post_event_content"}},
}

var (
	preProductionTasks = []string{
		"Marketing campaign launch",
		"Social media content planning",
		"Equipment preparation",
		"Location scouting",
	}
	meetingAgenda = []string{
		"Event timeline review",
		"Equipment coordination",
		"Content delivery requirements",
		"Communication protocols",
	}
	checkIns = []string{"setup", "midpoint", "wrap"}
)

type deliverable struct {
	name   string
	window string
	due    time.Duration
}

var deliverables = map[model.ServiceType]deliverable{
	model.ServicePhotographer: {"Edited photo gallery", "24-48 hours", 48 * time.Hour},
	model.ServiceVideographer: {"Edited event video", "3-5 days", 5 * day},
	model.ServiceMarketing:    {"Marketing performance report", "7 days", 7 * day},
	model.ServiceSocialMedia:  {"Social media analytics", "7 days", 7 * day},
}

func requested(req model.ProductionRequirements, s model.ServiceType) bool {
	switch s {
	case model.ServicePhotographer:
		return req.Photography
	case model.ServiceVideographer:
		return req.Videography
	case model.ServiceMarketing:
		return req.Marketing
	case model.ServiceSocialMedia:
		return req.SocialMedia
	}
	return false
}

func templateDetails(s model.ServiceType, specialRequests string) model.ServiceDetails {
	t := templates[s]
	return model.ServiceDetails{
		Duration:        t.duration,
		DurationUnit:    t.unit,
		Requirements:    append([]string(nil), t.requirements...),
		SpecialRequests: specialRequests,
	}
}

func buildTimeline(start, end time.Time) model.Timeline {
	start, end = start.UTC(), end.UTC()
	setup := start.Add(-2 * time.Hour)
	eventDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	return model.Timeline{
		PreProduction: model.PreProduction{
			Start: start.Add(-7 * day),
			End:   setup,
			Tasks: append([]string(nil), preProductionTasks...),
		},
		EventDay: model.EventDay{
			SetupStart:       setup,
			PerformanceStart: start,
			PerformanceEnd:   end,
			BreakdownEnd:     end.Add(2 * time.Hour),
		},
		PostProduction: model.PostProduction{
			ContentProcessingStart: eventDay.AddDate(0, 0, 1),
			DeliveryDeadline:       start.Add(7 * day),
			ReportingDeadline:      start.Add(14 * day),
		},
	}
}

// buildCoordination leads with the marketing assignee when there is one,
// otherwise the first assignee. Deliverables cover staffed services only.
func buildCoordination(assignments []*model.ServiceAssignment, end time.Time, channel string) model.CoordinationPlan {
	plan := model.CoordinationPlan{
		Participants:         make([]string, 0, len(assignments)),
		MeetingAgenda:        append([]string(nil), meetingAgenda...),
		CommunicationChannel: channel,
		CheckIns:             append([]string(nil), checkIns...),
		Deliverables:         []model.DeliverableSLA{},
	}

	for _, a := range assignments {
		plan.Participants = append(plan.Participants, a.ProfessionalID)
		if a.ServiceType == model.ServiceMarketing {
			plan.LeadCoordinator = a.ProfessionalID
		}
		if d, ok := deliverables[a.ServiceType]; ok {
			plan.Deliverables = append(plan.Deliverables, model.DeliverableSLA{
				ServiceType: a.ServiceType,
				Deliverable: d.name,
				Window:      d.window,
				DueAt:       end.UTC().Add(d.due),
			})
		}
	}
	if plan.LeadCoordinator == "" && len(assignments) > 0 {
		plan.LeadCoordinator = assignments[0].ProfessionalID
	}
	return plan
}
