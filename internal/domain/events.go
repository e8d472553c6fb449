package domain

import "time"

const (
	// EventTypeModelTrained is emitted when a new artifact has been published.
	EventTypeModelTrained = "creditrisk.model.trained"

	// EventTypeLabelsGenerated is emitted when proxy labels were derived for
	// a training run.
	EventTypeLabelsGenerated = "creditrisk.labels.generated"
)

// Event is a notification about a completed pipeline step.
type Event interface {
	EventType() string
	// Key groups events of the same run on one partition.
	Key() string
}

// ModelTrained is published after the artifact of a run is in place.
type ModelTrained struct {
	RunID        string             `json:"run_id"`
	ModelKind    string             `json:"model_kind"`
	AUC          float64            `json:"auc"`
	CandidateAUC map[string]float64 `json:"candidate_auc,omitempty"`
	LabelSource  LabelSource        `json:"label_source"`
	ArtifactPath string             `json:"artifact_path"`
	Rows         int                `json:"rows"`
	TrainedAt    time.Time          `json:"trained_at"`
}

func (e ModelTrained) EventType() string { return EventTypeModelTrained }

func (e ModelTrained) Key() string { return e.RunID }

// LabelsGenerated is published when a run used the RFM proxy label. The
// flag it describes is a clustering artifact, not an observed default.
type LabelsGenerated struct {
	RunID         string      `json:"run_id"`
	LabelSource   LabelSource `json:"label_source"`
	Customers     int         `json:"customers"`
	HighRiskCount int         `json:"high_risk_count"`
	Seed          int64       `json:"seed"`
	Snapshot      time.Time   `json:"snapshot"`
}

func (e LabelsGenerated) EventType() string { return EventTypeLabelsGenerated }

func (e LabelsGenerated) Key() string { return e.RunID }
