package draft

import (
	"sync"

	custom_error "github.com/Alejano1/GestInvLab-proyecto/pkg/errors"
)

// Draft is the ordered, unsaved set of lines of one receipt or issue document.
// It lives only in memory; nothing here is persisted.
type Draft struct {
	mu          sync.Mutex
	kind        Kind
	seq         *Sequence
	lines       []Line
	destination *ServiceRef
}

func New(kind Kind, seq *Sequence) *Draft {
	if seq == nil {
		seq = &Sequence{}
	}
	return &Draft{kind: kind, seq: seq}
}

func (d *Draft) Kind() Kind {
	return d.kind
}

func (d *Draft) AddReceiptLine(form ReceiptLineForm) ([]Line, error) {
	if d.kind != KindReceipt {
		return nil, custom_error.NewValidationError("kind", "receipt lines belong to an entrada draft")
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.lines = append(d.lines, form.line(d.seq.Next()))
	return d.snapshot(), nil
}

func (d *Draft) AddIssueLine(form IssueLineForm) ([]Line, error) {
	if d.kind != KindIssue {
		return nil, custom_error.NewValidationError("kind", "issue lines belong to a salida draft")
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.destination != nil && len(d.lines) > 0 && d.destination.ID != form.Destination.ID {
		return nil, custom_error.NewValidationError("destination", "destination is locked while the draft has lines")
	}
	for _, line := range d.lines {
		if line.Lot != nil && line.Lot.ID == form.Lot.ID {
			return nil, &custom_error.DuplicateLotError{LotID: form.Lot.ID}
		}
	}

	destination := form.Destination
	d.destination = &destination
	d.lines = append(d.lines, form.line(d.seq.Next()))
	return d.snapshot(), nil
}

// SelectDestination binds the issue destination. It may only change while
// the draft is empty; every line of a document shares one destination.
func (d *Draft) SelectDestination(ref ServiceRef) error {
	if d.kind != KindIssue {
		return custom_error.NewValidationError("kind", "only salida drafts have a destination")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.lines) > 0 && (d.destination == nil || d.destination.ID != ref.ID) {
		return custom_error.NewValidationError("destination", "destination is locked while the draft has lines")
	}
	if ref.ID <= 0 {
		d.destination = nil
		return nil
	}
	d.destination = &ref
	return nil
}

func (d *Draft) Destination() (ServiceRef, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.destination == nil {
		return ServiceRef{}, false
	}
	return *d.destination, true
}

// RemoveLine is a no-op for unknown ids.
func (d *Draft) RemoveLine(temporaryID int64) []Line {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, line := range d.lines {
		if line.TemporaryID == temporaryID {
			d.lines = append(d.lines[:i], d.lines[i+1:]...)
			break
		}
	}
	return d.snapshot()
}

func (d *Draft) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lines = nil
	d.destination = nil
}

func (d *Draft) Lines() []Line {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.snapshot()
}

func (d *Draft) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.lines)
}

// Empty gates the submit action.
func (d *Draft) Empty() bool {
	return d.Len() == 0
}

func (d *Draft) snapshot() []Line {
	lines := make([]Line, len(d.lines))
	copy(lines, d.lines)
	return lines
}
