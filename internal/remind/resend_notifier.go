package remind

import (
	"fmt"

	"github.com/resend/resend-go/v2"
)

type ResendNotifier struct {
	ApiKey string
	From   string
	Email  string
}

func (r *ResendNotifier) SendReminder(habitName, at string) error {
	client := resend.NewClient(r.ApiKey)
	params := &resend.SendEmailRequest{
		From:    r.From,
		To:      []string{r.Email},
		Subject: fmt.Sprintf("Reminder: %s", habitName),
		Html:    fmt.Sprintf("<p>It's %s, time for <strong>%s</strong>.</p>", at, habitName),
	}
	_, err := client.Emails.Send(params)
	return err
}
