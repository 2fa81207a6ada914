package mailer

import "errors"

const (
	StatusSent   = "sent"
	StatusFailed = "failed"

	// DefaultRetries is the number of additional attempts after the first
	// failed send.
	DefaultRetries = 2
)

var ErrNoRecipients = errors.New("no recipient emails provided")

// Result is the outcome for a single recipient.
type Result struct {
	Email  string `json:"email"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type Summary struct {
	Sent    int
	Failed  int
	Results []Result
}

// Dispatcher sends one message per recipient, best effort. A recipient's
// failure never skips the remaining recipients, and results keep input order.
type Dispatcher struct {
	sender  Sender
	retries int
}

func NewDispatcher(sender Sender, retries int) *Dispatcher {
	if retries < 0 {
		retries = 0
	}
	return &Dispatcher{sender: sender, retries: retries}
}

func (d *Dispatcher) Dispatch(emails []string, subject, message string) (Summary, error) {
	if len(emails) == 0 {
		return Summary{}, ErrNoRecipients
	}

	html := "<p>" + message + "</p>"

	summary := Summary{Results: make([]Result, 0, len(emails))}
	for _, email := range emails {
		if err := d.sendWithRetry(email, subject, message, html); err != nil {
			summary.Failed++
			summary.Results = append(summary.Results, Result{Email: email, Status: StatusFailed, Error: err.Error()})
			continue
		}
		summary.Sent++
		summary.Results = append(summary.Results, Result{Email: email, Status: StatusSent})
	}

	return summary, nil
}

func (d *Dispatcher) sendWithRetry(to, subject, text, html string) error {
	var lastErr error
	for attempt := 0; attempt <= d.retries; attempt++ {
		if err := d.sender.Send(to, subject, text, html); err != nil {
			lastErr = err
			continue
		}
		return nil
	}

	return lastErr
}
