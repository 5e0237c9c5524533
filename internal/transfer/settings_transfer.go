package transfer

type SettingsUpdate struct {
	Tone     string `json:"tone"`
	Timezone string `json:"timezone"`
}
