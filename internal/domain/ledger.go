package domain

// DefaultDeferralQuota is the number of deferrals a financing subject may
// use per calendar year.
const DefaultDeferralQuota = 3

// DeferralLedger tracks deferral usage for one subject in one calendar year.
// It is a caller-supplied value, not ambient state: the deferral processor
// reads it, and the caller persists the incremented copy on success.
type DeferralLedger struct {
	SubjectID string `json:"subject_id"`
	Year      int    `json:"year"`
	Used      int    `json:"used"`
	Quota     int    `json:"quota"`
}

// NewDeferralLedger builds a ledger with the default quota.
func NewDeferralLedger(subjectID string, year int, used int) DeferralLedger {
	return DeferralLedger{
		SubjectID: subjectID,
		Year:      year,
		Used:      used,
		Quota:     DefaultDeferralQuota,
	}
}

// Remaining returns how many deferrals are left this year.
func (l DeferralLedger) Remaining() int {
	if l.Quota < l.Used {
		return 0
	}
	return l.Quota - l.Used
}

// Consume returns a copy with one more deferral used.
func (l DeferralLedger) Consume() DeferralLedger {
	l.Used++
	return l
}
