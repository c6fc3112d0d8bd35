package model

import "time"

type ServiceStatus string

const (
	ServiceAssigned  ServiceStatus = "assigned"
	ServiceConfirmed ServiceStatus = "confirmed"
	ServiceCancelled ServiceStatus = "cancelled"
)

type DurationUnit string

const (
	UnitHours DurationUnit = "hours"
	UnitDays  DurationUnit = "days"
)

// ProductionRequirements selects which specialist services to staff.
type ProductionRequirements struct {
	Photography     bool   `json:"photography" bson:"photography"`
	Videography     bool   `json:"videography" bson:"videography"`
	Marketing       bool   `json:"marketing" bson:"marketing"`
	SocialMedia     bool   `json:"social_media" bson:"social_media"`
	SpecialRequests string `json:"special_requests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=2000"`
}

func (r ProductionRequirements) Any() bool {
	return r.Photography || r.Videography || r.Marketing || r.SocialMedia
}

type ServiceDetails struct {
	Duration        int          `json:"duration" bson:"duration" validate:"gt=0"`
	DurationUnit    DurationUnit `json:"duration_unit" bson:"duration_unit" validate:"required,oneof=hours days"`
	Requirements    []string     `json:"requirements" bson:"requirements" validate:"omitempty,max=20,dive,max=100"`
	SpecialRequests string       `json:"special_requests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=2000"`
}

// ServiceAssignment is one member of a booking's production team.
type ServiceAssignment struct {
	ID             string         `json:"id" bson:"_id"`
	BookingID      string         `json:"booking_id" bson:"booking_id"`
	ProfessionalID string         `json:"professional_id" bson:"professional_id"`
	ServiceType    ServiceType    `json:"service_type" bson:"service_type"`
	Status         ServiceStatus  `json:"status" bson:"status"`
	CommissionRate float64        `json:"commission_rate" bson:"commission_rate"`
	Details        ServiceDetails `json:"details" bson:"details"`
	AssignedAt     time.Time      `json:"assigned_at" bson:"assigned_at"`
}

type ProductionPlan struct {
	Assignments  []ServiceAssignment    `json:"assignments" bson:"assignments"`
	Timeline     Timeline               `json:"timeline" bson:"timeline"`
	Coordination CoordinationPlan       `json:"coordination" bson:"coordination"`
	Requirements ProductionRequirements `json:"requirements" bson:"requirements"`
	CreatedAt    time.Time              `json:"created_at" bson:"created_at"`
}

type Timeline struct {
	PreProduction  PreProduction  `json:"pre_production" bson:"pre_production"`
	EventDay       EventDay       `json:"event_day" bson:"event_day"`
	PostProduction PostProduction `json:"post_production" bson:"post_production"`
}

type PreProduction struct {
	Start time.Time `json:"start" bson:"start"`
	End   time.Time `json:"end" bson:"end"`
	Tasks []string  `json:"tasks" bson:"tasks"`
}

type EventDay struct {
	SetupStart       time.Time `json:"setup_start" bson:"setup_start"`
	PerformanceStart time.Time `json:"performance_start" bson:"performance_start"`
	PerformanceEnd   time.Time `json:"performance_end" bson:"performance_end"`
	BreakdownEnd     time.Time `json:"breakdown_end" bson:"breakdown_end"`
}

type PostProduction struct {
	ContentProcessingStart time.Time `json:"content_processing_start" bson:"content_processing_start"`
	DeliveryDeadline       time.Time `json:"delivery_deadline" bson:"delivery_deadline"`
	ReportingDeadline      time.Time `json:"reporting_deadline" bson:"reporting_deadline"`
}

type CoordinationPlan struct {
	LeadCoordinator      string           `json:"lead_coordinator,omitempty" bson:"lead_coordinator,omitempty"`
	Participants         []string         `json:"participants" bson:"participants"`
	MeetingAgenda        []string         `json:"meeting_agenda" bson:"meeting_agenda"`
	CommunicationChannel string           `json:"communication_channel" bson:"communication_channel"`
	CheckIns             []string         `json:"check_ins" bson:"check_ins"`
	Deliverables         []DeliverableSLA `json:"deliverables" bson:"deliverables"`
}

type DeliverableSLA struct {
	ServiceType ServiceType `json:"service_type" bson:"service_type"`
	Deliverable string      `json:"deliverable" bson:"deliverable"`
	Window      string      `json:"window" bson:"window"`
	DueAt       time.Time   `json:"due_at" bson:"due_at"`
}

// TeamMember is a service assignment joined with the professional's profile.
type TeamMember struct {
	ServiceAssignment
	Name            string             `json:"name"`
	Email           string             `json:"email,omitempty"`
	Specializations []string           `json:"specializations"`
	Portfolio       []string           `json:"portfolio,omitempty"`
	Rates           map[string]float64 `json:"rates,omitempty"`
}

// RequirementsFromServices maps service type names onto requirement flags.
// Unknown names are ignored.
func RequirementsFromServices(services []string) ProductionRequirements {
	var r ProductionRequirements
	for _, s := range services {
		switch ServiceType(s) {
		case ServicePhotographer:
			r.Photography = true
		case ServiceVideographer:
			r.Videography = true
		case ServiceMarketing:
			r.Marketing = true
		case ServiceSocialMedia:
			r.SocialMedia = true
		}
	}
	return r
}
