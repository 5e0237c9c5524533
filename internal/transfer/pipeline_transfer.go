package transfer

type StepCreation struct {
	StepOrder int    `json:"step_order"`
	StepType  string `json:"step_type"`
	Config    string `json:"config"`
}

type PipelineCreation struct {
	Name           string         `json:"name"`
	ContentType    string         `json:"content_type"`
	PromptTemplate string         `json:"prompt_template"`
	GenConfig      string         `json:"gen_config"`
	Schedule       string         `json:"schedule"`
	Status         string         `json:"status"`
	Steps          []StepCreation `json:"steps"`
}

// GenerateStepConfig is the config blob of a generate-content step.
type GenerateStepConfig struct {
	Type    string            `json:"type"`
	Prompt  string            `json:"prompt"`
	Options GenerationOptions `json:"options"`
}

// PostStepConfig is the config blob of a post-to-platform step. When
// UseGenerated is set, the content produced by the preceding
// generate-content step in the same run is posted.
type PostStepConfig struct {
	AccountID    int64      `json:"account_id"`
	Platform     string     `json:"platform"`
	Content      string     `json:"content"`
	ContentURL   string     `json:"content_url"`
	PostConfig   PostConfig `json:"post_config"`
	UseGenerated bool       `json:"use_generated"`
}

// ScheduleStepConfig is the config blob of a schedule-pipeline step.
type ScheduleStepConfig struct {
	PipelineID int64  `json:"pipeline_id"`
	Schedule   string `json:"schedule"`
}
