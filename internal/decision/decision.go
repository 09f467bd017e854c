// Package decision turns a match analysis, and optionally an assessment
// report, into a hiring decision: a status band, a confidence score, an
// interview stage, and the supporting rationale a hiring manager reads.
package decision

// Status is the decision band derived from the overall match score.
type Status string

const (
	StatusProceed Status = "PROCEED"
	StatusHold    Status = "HOLD"
	StatusReject  Status = "REJECT"
)

// Stage is the recommended next interview stage.
type Stage string

const (
	StageSkip      Stage = "SKIP"
	StageScreening Stage = "SCREENING"
	StageTechnical Stage = "TECHNICAL"
	StageFullLoop  Stage = "FULL_LOOP"
)

// Details holds the decision triple itself.
type Details struct {
	Status          Status  `json:"status"`
	ConfidenceScore float64 `json:"confidence_score"`
	InterviewStage  Stage   `json:"interview_stage"`
}

// Rationale explains the decision in hiring-manager terms.
type Rationale struct {
	KeyStrengths []string `json:"key_strengths"`
	Concerns     []string `json:"concerns"`
	RiskFactors  []string `json:"risk_factors"`
}

// Recommendations directs the interviewers.
type Recommendations struct {
	InterviewFocus    []string `json:"interview_focus"`
	SkillVerification []string `json:"skill_verification"`
	DiscussionPoints  []string `json:"discussion_points"`
}

// ManagerNotes carries the softer signals a hiring manager tracks.
type ManagerNotes struct {
	SalaryBandFit          string   `json:"salary_band_fit"`
	GrowthTrajectory       string   `json:"growth_trajectory"`
	TeamFitConsiderations  string   `json:"team_fit_considerations"`
	OnboardingRequirements []string `json:"onboarding_requirements"`
}

// NextSteps lists what happens after the decision is recorded.
type NextSteps struct {
	ImmediateActions       []string `json:"immediate_actions"`
	RequiredApprovals      []string `json:"required_approvals"`
	TimelineRecommendation string   `json:"timeline_recommendation"`
}

// Decision is the full decision artifact.
type Decision struct {
	Details          Details         `json:"decision"`
	Rationale        Rationale       `json:"rationale"`
	Recommendations  Recommendations `json:"recommendations"`
	ManagerNotes     ManagerNotes    `json:"hiring_manager_notes"`
	NextSteps        NextSteps       `json:"next_steps"`
	DataQualityNotes []string        `json:"data_quality_notes,omitempty"`
}

// DefaultDecision is the decision of last resort, used when no usable match
// analysis exists. It holds the candidate at low confidence rather than
// rejecting on absent data.
func DefaultDecision(notes ...string) *Decision {
	return &Decision{
		Details: Details{
			Status:          StatusHold,
			ConfidenceScore: 30,
			InterviewStage:  StageScreening,
		},
		Rationale: Rationale{
			KeyStrengths: []string{"Unable to determine due to processing error"},
			Concerns:     []string{"Unable to process candidate data completely"},
			RiskFactors:  []string{"Decision based on incomplete information"},
		},
		Recommendations: Recommendations{
			InterviewFocus:    []string{"Verify resume contents manually"},
			SkillVerification: []string{"Conduct thorough technical assessment"},
			DiscussionPoints:  []string{"Discuss areas mentioned in resume"},
		},
		ManagerNotes: ManagerNotes{
			SalaryBandFit:          "Unable to determine",
			GrowthTrajectory:       "Unable to determine",
			TeamFitConsiderations:  "Manual assessment required",
			OnboardingRequirements: []string{"Standard onboarding process"},
		},
		NextSteps: NextSteps{
			ImmediateActions:       []string{"Re-run analysis or manually review"},
			RequiredApprovals:      []string{"Hiring manager approval needed"},
			TimelineRecommendation: "Proceed with caution due to data processing issues",
		},
		DataQualityNotes: notes,
	}
}
