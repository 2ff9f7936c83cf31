package wizard

import "errors"

// Rejections returned by Engine. Hosts usually map these to a disabled
// control or a status line rather than surfacing them as failures.
var (
	ErrStepIncomplete     = errors.New("current step is incomplete")
	ErrReviewStep         = errors.New("review step can only be left by submitting")
	ErrFirstStep          = errors.New("already on the first step")
	ErrNotReview          = errors.New("submit is only allowed from the review step")
	ErrSubmitting         = errors.New("booking is being submitted")
	ErrSubmitted          = errors.New("booking already submitted")
	ErrSelectionPending   = errors.New("a selection is already advancing")
	ErrNotSelectable      = errors.New("field is not chosen from a catalog")
	ErrUnknownOption      = errors.New("unknown option")
	ErrSlotUnavailable    = errors.New("time slot is not available")
	ErrDateInPast         = errors.New("date is in the past")
	ErrSameDay            = errors.New("same-day appointments are not offered, pick tomorrow or later")
	ErrDateOutOfWindow    = errors.New("date is outside the booking window")
	ErrAttachmentTooLarge = errors.New("reference image is too large")
)
