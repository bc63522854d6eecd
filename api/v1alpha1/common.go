package v1alpha1

// JobStatuses lists the accepted status values in display order.
func JobStatuses() []JobStatus {
	return []JobStatus{
		JobStatusWaitingForReferral,
		JobStatusApplied,
		JobStatusAppliedWithReferral,
		JobStatusRejected,
		JobStatusSelected,
	}
}

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusWaitingForReferral,
		JobStatusApplied,
		JobStatusAppliedWithReferral,
		JobStatusRejected,
		JobStatusSelected:
		return true
	default:
		return false
	}
}
