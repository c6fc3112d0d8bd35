package model

import "time"

type Stage string

const (
	StageTechnicalReview Stage = "technical_review"
	StageAdminReview     Stage = "admin_review"
	StageFinalApproval   Stage = "final_approval"
	StageApproved        Stage = "approved"
	StageRejected        Stage = "rejected"
)

func (s Stage) IsTerminal() bool {
	return s == StageApproved || s == StageRejected
}

type StepStatus string

const (
	StepPending  StepStatus = "pending"
	StepApproved StepStatus = "approved"
	StepRejected StepStatus = "rejected"
)

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

func (d Decision) IsValid() bool {
	return d == DecisionApproved || d == DecisionRejected
}

type WorkflowState struct {
	CurrentStage      Stage               `json:"current_stage" bson:"current_stage"`
	Steps             []ApprovalStep      `json:"steps" bson:"steps"`
	Deadlines         map[Stage]time.Time `json:"deadlines" bson:"deadlines"`
	RequiredDocuments []string            `json:"required_documents" bson:"required_documents"`
	Expedited         bool                `json:"expedited" bson:"expedited"`
	OpenedAt          time.Time           `json:"opened_at" bson:"opened_at"`
	UpdatedAt         time.Time           `json:"updated_at" bson:"updated_at"`
	Version           int64               `json:"version" bson:"version"`

	// BookingStatus is filled on read and never stored.
	BookingStatus BookingStatus `json:"booking_status,omitempty" bson:"-"`
}

func (w *WorkflowState) IsTerminal() bool {
	return w != nil && w.CurrentStage.IsTerminal()
}

// Step returns the step record for stage, or nil.
func (w *WorkflowState) Step(stage Stage) *ApprovalStep {
	for i := range w.Steps {
		if w.Steps[i].Step == stage {
			return &w.Steps[i]
		}
	}
	return nil
}

type ApprovalStep struct {
	Step       Stage      `json:"step" bson:"step"`
	Status     StepStatus `json:"status" bson:"status"`
	ApprovedBy string     `json:"approved_by,omitempty" bson:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty" bson:"approved_at,omitempty"`
	Notes      string     `json:"notes,omitempty" bson:"notes,omitempty"`
}
