package request

import "fmt"

// ParticipantInput is one entry in a generation request.
type ParticipantInput struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
}

// Generate is the body of POST /generate and POST /admin/generate.
type Generate struct {
	Participants []ParticipantInput `json:"participants" validate:"required,min=1,dive"`
}

// CheckBatchSize enforces the configured batch cap.
func (g *Generate) CheckBatchSize(max int) error {
	if len(g.Participants) > max {
		return fmt.Errorf("batch exceeds maximum of %d participants", max)
	}
	return nil
}

// SendEmails is the body of POST /admin/send-emails.
type SendEmails struct {
	Slugs   []string `json:"slugs" validate:"required,min=1,dive,slug"`
	Subject string   `json:"subject" validate:"max=255"`
}

// AdminLogin is the body of POST /admin/login.
type AdminLogin struct {
	Password string `json:"password" validate:"required"`
}
