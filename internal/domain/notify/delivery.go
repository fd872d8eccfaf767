package notify

// DeliveryTarget addresses one message to one recipient.
type DeliveryTarget struct {
	RecipientID string `json:"recipient_id"`
	Content     string `json:"content"`
}

// DeliveryStatus is the terminal state of a delivery attempt sequence.
type DeliveryStatus string

const (
	DeliverySucceeded DeliveryStatus = "SUCCEEDED"
	DeliveryFailed    DeliveryStatus = "FAILED"
)

// DeliveryOutcome reports how a single target fared, including how many
// attempts were spent on it.
type DeliveryOutcome struct {
	RecipientID string         `json:"recipient_id"`
	Status      DeliveryStatus `json:"status"`
	Attempts    int            `json:"attempts"`
	ErrorReason string         `json:"error_reason,omitempty"`
}

// Succeeded reports whether the delivery went through.
func (o DeliveryOutcome) Succeeded() bool {
	return o.Status == DeliverySucceeded
}

// BroadcastJob is an ordered batch of targets sent sequentially.
type BroadcastJob struct {
	Title   string           `json:"title"`
	Targets []DeliveryTarget `json:"targets"`
}

// BroadcastReport tallies a finished broadcast. Outcomes preserve target
// order.
type BroadcastReport struct {
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Outcomes  []DeliveryOutcome `json:"outcomes"`
}

// Add appends an outcome and updates the tallies.
func (r *BroadcastReport) Add(o DeliveryOutcome) {
	r.Outcomes = append(r.Outcomes, o)
	if o.Succeeded() {
		r.Succeeded++
	} else {
		r.Failed++
	}
}
