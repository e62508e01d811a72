package status

import "github.com/Veraticus/idlewatch/pkg/interfaces"

// Reporter feeds native delivery progress from the notification manager
// into an Indicator.
type Reporter struct {
	indicator *Indicator
}

// NewReporter creates a reporter. A nil indicator makes every call a no-op.
func NewReporter(indicator *Indicator) *Reporter {
	return &Reporter{indicator: indicator}
}

// Ensure Reporter implements StatusReporter
var _ interfaces.StatusReporter = (*Reporter)(nil)

// ReportSending marks a native notification as in flight.
func (r *Reporter) ReportSending() { r.set(StatusSending) }

// ReportSuccess marks the last native notification as delivered.
func (r *Reporter) ReportSuccess() { r.set(StatusSuccess) }

// ReportFailure marks the last native notification as failed.
func (r *Reporter) ReportFailure() { r.set(StatusFailed) }

func (r *Reporter) set(s Status) {
	if r.indicator != nil {
		r.indicator.SetStatus(s)
	}
}
