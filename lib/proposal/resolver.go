package proposal

import (
	"encoding/json"

	"boscoin.io/congress/lib/common"
	"boscoin.io/congress/lib/errors"
)

// CurrentStatus computes the status of the record at `block` without
// changing it. Expirations are only evaluated here, so the stored status may
// lag behind.
func CurrentStatus(r Record, block common.BlockInfo) (Status, error) {
	h := r.GetHeader()

	switch s := h.Status.(type) {
	case Open:
		if r.IsPassed(block) {
			if h.Veto == nil {
				return Passed{}, nil
			}

			expiration, err := h.Expiration.Add(h.Veto.TimelockDuration)
			if err != nil {
				return nil, err
			}
			if expiration.IsExpired(block) {
				return Passed{}, nil
			}

			return VetoTimelock{Expiration: expiration}, nil
		}
		if h.IsExpired(block) || r.IsRejected(block) {
			return Rejected{}, nil
		}
	case VetoTimelock:
		if s.Expiration.IsExpired(block) {
			return Passed{}, nil
		}
	case nil:
		return nil, errors.InvalidProposalStatus.Clone().SetData("id", h.ID)
	}

	return h.Status, nil
}

// UpdateStatus stores the current status into the record and returns the
// previous one.
func UpdateStatus(r Record, block common.BlockInfo) (old Status, err error) {
	h := r.GetHeader()
	old = h.Status

	current, err := CurrentStatus(r, block)
	if err != nil {
		return nil, err
	}
	if err = SetStatus(r, current); err != nil {
		return nil, err
	}

	return old, nil
}

// SetStatus moves the record to `next`; moves outside the status graph are
// refused.
func SetStatus(r Record, next Status) error {
	h := r.GetHeader()
	if h.Status == nil || next == nil {
		return errors.InvalidProposalStatus.Clone().SetData("id", h.ID)
	}
	if h.Status == next {
		return nil
	}
	if !h.Status.CanTransitTo(next) {
		return errors.InvalidProposalStatus.Clone().
			SetData("from", h.Status.String()).
			SetData("to", next.String())
	}
	h.Status = next

	return nil
}

// Unmarshal decodes a stored record of either kind.
func Unmarshal(b []byte) (Record, error) {
	var k struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(b, &k); err != nil {
		return nil, err
	}

	var r Record
	switch k.Kind {
	case KindSingle:
		r = &Proposal{}
	case KindMultiple:
		r = &MultipleChoiceProposal{}
	default:
		return nil, errors.StorageCoreError.Clone().SetData("kind", k.Kind)
	}
	if err := json.Unmarshal(b, r); err != nil {
		return nil, err
	}

	return r, nil
}
