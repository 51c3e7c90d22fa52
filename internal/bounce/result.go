package bounce

// Counter tracks the outcome of one batch run.
type Counter struct {
	// Total is the number of messages the source reported available.
	Total int

	// Fetched is the number actually retrieved, after the max-messages
	// limit is applied.
	Fetched int

	// Processed is the number classified as feedback-loop reports.
	Processed int

	// Moved and Deleted count disposition actions taken on classified
	// messages.
	Moved   int
	Deleted int
}

// Result is the outcome of processing one batch of messages.
type Result struct {
	Mails   []*Mail
	Counter Counter
}

// AddMail appends a classified mail to the result.
func (r *Result) AddMail(m *Mail) {
	r.Mails = append(r.Mails, m)
}
