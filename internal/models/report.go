package models

import "encoding/json"

// ReportFormat identifies which of the mutually exclusive report shapes
// a payload carries. Renderers switch on this single discriminant
// instead of probing field presence repeatedly.
type ReportFormat int

const (
	// ReportFormatUnknown means none of the known shapes is populated
	ReportFormatUnknown ReportFormat = iota
	// ReportFormatMarkdown is the newest shape: one free-form markdown body
	ReportFormatMarkdown
	// ReportFormatStructured is the legacy shape with a structured
	// recommendation, risk assessment and price targets
	ReportFormatStructured
	// ReportFormatLegacy is the oldest shape built around investment_logic
	ReportFormatLegacy
)

// Report is the server's analysis result payload. Exactly one of the
// three shapes is expected to be populated; Format() resolves the
// priority order when a payload carries more than one.
type Report struct {
	Title       string `json:"title,omitempty"`
	GeneratedAt string `json:"generated_at,omitempty"`

	// Newest format: the full report as one markdown document
	RawMarkdownContent string `json:"raw_markdown_content,omitempty"`

	// Structured legacy format
	InvestmentRecommendation *Recommendation `json:"investment_recommendation,omitempty"`
	ExecutiveSummary         string          `json:"executive_summary,omitempty"`
	RiskAssessment           json.RawMessage `json:"risk_assessment,omitempty"` // object or plain text
	PriceTargets             *PriceTargets   `json:"price_targets,omitempty"`

	// Oldest legacy format
	InvestmentLogic string `json:"investment_logic,omitempty"`
	KeyTakeaways    string `json:"key_takeaways,omitempty"`

	// Batch analysis extras
	VideoCount           int      `json:"video_count,omitempty"`
	IndividualAnalyses   []string `json:"individual_analyses,omitempty"`
	ConsolidatedInsights string   `json:"consolidated_insights,omitempty"`
}

// Recommendation is the structured investment recommendation box
type Recommendation struct {
	Action          string `json:"action"`
	ConfidenceLevel string `json:"confidence_level,omitempty"`
	TimeHorizon     string `json:"time_horizon,omitempty"`
	Reasoning       string `json:"reasoning,omitempty"`
}

// RiskAssessment is the object form of the risk_assessment field
type RiskAssessment struct {
	OverallRiskLevel     string   `json:"overall_risk_level"`
	SpecificRisks        []string `json:"specific_risks,omitempty"`
	MitigationStrategies []string `json:"mitigation_strategies,omitempty"`
}

// PriceTargets is the price target grid
type PriceTargets struct {
	CurrentPrice float64 `json:"current_price"`
	Target12M    float64 `json:"target_12m"`
	StopLoss     float64 `json:"stop_loss"`
	SupportLevel float64 `json:"support_level"`
}

// Format resolves the report shape in strict priority order:
// markdown > structured > legacy > unknown.
func (r *Report) Format() ReportFormat {
	switch {
	case r == nil:
		return ReportFormatUnknown
	case r.RawMarkdownContent != "":
		return ReportFormatMarkdown
	case r.InvestmentRecommendation != nil:
		return ReportFormatStructured
	case r.InvestmentLogic != "":
		return ReportFormatLegacy
	default:
		return ReportFormatUnknown
	}
}

// Risk decodes the risk_assessment field, which historically was either
// a structured object or a plain text blob. Returns the object form when
// present, otherwise the text form.
func (r *Report) Risk() (*RiskAssessment, string) {
	if len(r.RiskAssessment) == 0 {
		return nil, ""
	}

	var obj RiskAssessment
	if err := json.Unmarshal(r.RiskAssessment, &obj); err == nil && obj.OverallRiskLevel != "" {
		return &obj, ""
	}

	var text string
	if err := json.Unmarshal(r.RiskAssessment, &text); err == nil {
		return nil, text
	}
	return nil, ""
}

// SetRisk stores the object form of the risk assessment
func (r *Report) SetRisk(risk *RiskAssessment) {
	if risk == nil {
		r.RiskAssessment = nil
		return
	}
	raw, err := json.Marshal(risk)
	if err == nil {
		r.RiskAssessment = raw
	}
}
