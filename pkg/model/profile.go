package model

import "time"

type ProfileKind string

const (
	KindTalent       ProfileKind = "talent"
	KindAgent        ProfileKind = "agent"
	KindProfessional ProfileKind = "professional"
	KindBooker       ProfileKind = "booker"
)

type ManagementTier string

const (
	TierNone     ManagementTier = "none"
	TierStandard ManagementTier = "standard"
	TierFull     ManagementTier = "full"
)

type ServiceType string

const (
	ServicePhotographer ServiceType = "photographer"
	ServiceVideographer ServiceType = "videographer"
	ServiceMarketing    ServiceType = "marketing"
	ServiceSocialMedia  ServiceType = "social_media"
)

func (s ServiceType) IsValid() bool {
	switch s {
	case ServicePhotographer, ServiceVideographer, ServiceMarketing, ServiceSocialMedia:
		return true
	}
	return false
}

// TalentProfile is a directory record for any party the core coordinates:
// principal talent, agents, specialist professionals and bookers.
type TalentProfile struct {
	ID                       string             `json:"id" bson:"_id"`
	Name                     string             `json:"name" bson:"name"`
	Email                    string             `json:"email,omitempty" bson:"email,omitempty"`
	Kind                     ProfileKind        `json:"kind" bson:"kind"`
	ManagementTier           ManagementTier     `json:"management_tier" bson:"management_tier"`
	Active                   bool               `json:"active" bson:"active"`
	Specializations          []string           `json:"specializations" bson:"specializations"`
	ServiceType              ServiceType        `json:"service_type,omitempty" bson:"service_type,omitempty"`
	Region                   string             `json:"region,omitempty" bson:"region,omitempty"`
	Portfolio                []string           `json:"portfolio,omitempty" bson:"portfolio,omitempty"`
	Rates                    map[string]float64 `json:"rates,omitempty" bson:"rates,omitempty"`
	BlockedDates             []time.Time        `json:"blocked_dates,omitempty" bson:"blocked_dates,omitempty"`
	ServiceCategories        []string           `json:"service_categories,omitempty" bson:"service_categories,omitempty"`
	MaxConcurrentAssignments int                `json:"max_concurrent_assignments,omitempty" bson:"max_concurrent_assignments,omitempty"`
	OpenAssignments          int                `json:"open_assignments" bson:"open_assignments"`
	CreatedAt                time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt                time.Time          `json:"updated_at" bson:"updated_at"`
}

func (p *TalentProfile) IsFullyManaged() bool {
	return p.ManagementTier == TierFull
}

func (p *TalentProfile) HasCapacity() bool {
	return p.OpenAssignments < p.MaxConcurrentAssignments
}

func (p *TalentProfile) HasSpecialization(s string) bool {
	for _, own := range p.Specializations {
		if own == s {
			return true
		}
	}
	return false
}

// ProfessionalService is the payload used to register a professional's
// service offering in the directory.
type ProfessionalService struct {
	Name            string             `json:"name" validate:"required,min=2,max=100"`
	Email           string             `json:"email" validate:"omitempty,email"`
	ServiceType     ServiceType        `json:"service_type" validate:"required,oneof=photographer videographer marketing social_media"`
	Specializations []string           `json:"specializations" validate:"required,min=1,max=20,dive,required,max=50"`
	Region          string             `json:"region" validate:"omitempty,max=100"`
	Portfolio       []string           `json:"portfolio" validate:"omitempty,max=50,dive,url"`
	Rates           map[string]float64 `json:"rates" validate:"omitempty,dive,gte=0"`
	BlockedDates    []time.Time        `json:"blocked_dates"`
}
