// Package notify holds the outbound side channels: SMTP email and the
// WhatsApp provider. Every send is fire-and-forget and reports a Result
// instead of an error so a failed notification can never fail the request
// that triggered it.
package notify

// Result reports the outcome of a single send attempt.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func ok() Result {
	return Result{Success: true}
}

func failed(reason string) Result {
	return Result{Success: false, Error: reason}
}
