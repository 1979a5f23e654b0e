package entities

// Instruction is one first-aid step a layperson should follow.
// Steps are 1-based and strictly sequential within a response.
type Instruction struct {
	ID           string `json:"id"`
	Step         int    `json:"step"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url,omitempty"`
	AnimationURL string `json:"animation_url,omitempty"`
	Duration     *int   `json:"duration,omitempty"`
}
