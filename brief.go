package pagesmith

import "strings"

// Brief holds the caller's description of the page to produce.
type Brief struct {
	UserInput   string `json:"userInput"`
	CompanyName string `json:"companyName"`
	CTALink     string `json:"ctaLink"`
	Tone        string `json:"tone"`
	Location    string `json:"location"`
	Humanize    bool   `json:"humanize"`
}

// Validate returns an error if the brief contains invalid fields.
func (b *Brief) Validate() error {
	if strings.TrimSpace(b.UserInput) == "" {
		return Errorf(EINVALID, "userInput required")
	}
	return nil
}
