package entities

// EmergencyResponse is the complete outcome of one triage request.
// It is assembled once by the orchestrator and fully derived: no field
// is independently mutated after assembly.
type EmergencyResponse struct {
	Detection                Detection      `json:"detection"`
	Severity                 SeverityResult `json:"severity"`
	Instructions             []Instruction  `json:"instructions"`
	ShouldCallEmergency      bool           `json:"should_call_emergency"`
	NearestHospital          *Hospital      `json:"nearest_hospital,omitempty"`
	EstimatedResponseMinutes *int           `json:"estimated_response_minutes,omitempty"`
}
