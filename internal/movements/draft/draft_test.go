package draft

import (
	"errors"
	"testing"

	custom_error "github.com/Alejano1/GestInvLab-proyecto/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	gauze   = SupplyRef{ID: 1, Name: "Gasa"}
	saline  = SupplyRef{ID: 2, Name: "Suero"}
	urgency = ServiceRef{ID: 7, Name: "Urgencias"}
	ward    = ServiceRef{ID: 8, Name: "Medicina Hombres"}
)

func receiptForm(lot string, qty int) ReceiptLineForm {
	return ReceiptLineForm{Supply: gauze, LotNumber: lot, Quantity: qty}
}

func issueForm(lotID, available, qty int) IssueLineForm {
	return IssueLineForm{
		Supply:      saline,
		Lot:         LotRef{ID: lotID, Number: "L-" + string(rune('A'+lotID)), Available: available},
		Quantity:    qty,
		Destination: urgency,
	}
}

func assertValidation(t *testing.T, err error, field string) {
	t.Helper()
	var validationErr *custom_error.ValidationError
	require.True(t, errors.As(err, &validationErr), "expected ValidationError, got %v", err)
	assert.Equal(t, field, validationErr.Field)
}

func TestAddReceiptLine(t *testing.T) {
	tests := []struct {
		name    string
		form    ReceiptLineForm
		field   string
		wantErr bool
	}{
		{"valid line", receiptForm("L100", 50), "", false},
		{"valid line with expiry", ReceiptLineForm{Supply: gauze, LotNumber: "L101", ExpiresOn: "2027-01-31", Quantity: 3}, "", false},
		{"unselected supply", ReceiptLineForm{LotNumber: "L100", Quantity: 5}, "supply", true},
		{"empty lot number", receiptForm("   ", 5), "lot_number", true},
		{"zero quantity", receiptForm("L100", 0), "quantity", true},
		{"negative quantity", receiptForm("L100", -2), "quantity", true},
		{"malformed expiry", ReceiptLineForm{Supply: gauze, LotNumber: "L1", ExpiresOn: "31/01/2027", Quantity: 1}, "expires_on", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(KindReceipt, nil)
			lines, err := d.AddReceiptLine(tt.form)
			if tt.wantErr {
				assertValidation(t, err, tt.field)
				assert.Equal(t, 0, d.Len())
				return
			}
			require.NoError(t, err)
			require.Len(t, lines, 1)
			assert.Equal(t, tt.form.Quantity, lines[0].Quantity)
			assert.Nil(t, lines[0].Lot)
		})
	}
}

func TestReceiptLengthTracksSuccessfulAddsAndRemoves(t *testing.T) {
	d := New(KindReceipt, nil)
	expected := 0

	ops := []struct {
		form ReceiptLineForm
		ok   bool
	}{
		{receiptForm("L1", 1), true},
		{receiptForm("", 1), false},
		{receiptForm("L2", 2), true},
		{receiptForm("L3", 0), false},
		{receiptForm("L4", 4), true},
	}
	for _, op := range ops {
		_, err := d.AddReceiptLine(op.form)
		if op.ok {
			require.NoError(t, err)
			expected++
		} else {
			require.Error(t, err)
		}
		assert.Equal(t, expected, d.Len())
	}

	lines := d.Lines()
	d.RemoveLine(lines[1].TemporaryID)
	expected--
	assert.Equal(t, expected, d.Len())

	// unknown id is a no-op
	d.RemoveLine(9999)
	assert.Equal(t, expected, d.Len())

	remaining := d.Lines()
	assert.Equal(t, "L1", remaining[0].LotNumber)
	assert.Equal(t, "L4", remaining[1].LotNumber)
}

func TestTemporaryIDsAreNeverReused(t *testing.T) {
	seq := &Sequence{}
	first := New(KindReceipt, seq)
	lines, err := first.AddReceiptLine(receiptForm("L1", 1))
	require.NoError(t, err)
	firstID := lines[0].TemporaryID

	first.RemoveLine(firstID)
	first.Clear()

	second := New(KindIssue, seq)
	lines, err = second.AddIssueLine(issueForm(1, 10, 1))
	require.NoError(t, err)

	assert.Greater(t, lines[0].TemporaryID, firstID)
}

func TestAddIssueLineValidationOrder(t *testing.T) {
	tests := []struct {
		name  string
		form  IssueLineForm
		field string
	}{
		{
			name:  "destination checked before anything else",
			form:  IssueLineForm{Quantity: 0},
			field: "destination",
		},
		{
			name:  "lot required",
			form:  IssueLineForm{Supply: saline, Quantity: 1, Destination: urgency},
			field: "lot",
		},
		{
			name:  "positive quantity",
			form:  issueForm(1, 10, 0),
			field: "quantity",
		},
		{
			name:  "quantity above captured ceiling",
			form:  issueForm(1, 10, 11),
			field: "quantity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(KindIssue, nil)
			_, err := d.AddIssueLine(tt.form)
			assertValidation(t, err, tt.field)
			assert.True(t, d.Empty())
		})
	}
}

func TestAddIssueLineAtCeiling(t *testing.T) {
	d := New(KindIssue, nil)
	lines, err := d.AddIssueLine(issueForm(1, 10, 10))

	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 10, lines[0].Lot.Available)
	assert.Equal(t, urgency, *lines[0].Destination)
}

func TestAddIssueLineRejectsDuplicateLot(t *testing.T) {
	d := New(KindIssue, nil)
	_, err := d.AddIssueLine(issueForm(3, 10, 2))
	require.NoError(t, err)

	_, err = d.AddIssueLine(issueForm(3, 10, 1))

	var duplicate *custom_error.DuplicateLotError
	require.True(t, errors.As(err, &duplicate))
	assert.Equal(t, 3, duplicate.LotID)
	assert.Equal(t, 1, d.Len())
}

func TestIssueDestinationLock(t *testing.T) {
	d := New(KindIssue, nil)
	require.NoError(t, d.SelectDestination(urgency))
	require.NoError(t, d.SelectDestination(ward))

	form := issueForm(1, 5, 1)
	form.Destination = ward
	_, err := d.AddIssueLine(form)
	require.NoError(t, err)

	assertValidation(t, d.SelectDestination(urgency), "destination")

	other := issueForm(2, 5, 1)
	_, err = d.AddIssueLine(other)
	assertValidation(t, err, "destination")
	assert.Equal(t, 1, d.Len())

	destination, ok := d.Destination()
	assert.True(t, ok)
	assert.Equal(t, ward, destination)

	d.Clear()
	require.NoError(t, d.SelectDestination(urgency))
}

func TestClearEmptiesDraft(t *testing.T) {
	d := New(KindReceipt, nil)
	for _, lot := range []string{"A", "B", "C"} {
		_, err := d.AddReceiptLine(receiptForm(lot, 1))
		require.NoError(t, err)
	}

	d.Clear()

	assert.Empty(t, d.Lines())
	assert.True(t, d.Empty())
}

func TestKindMismatch(t *testing.T) {
	_, err := New(KindIssue, nil).AddReceiptLine(receiptForm("L1", 1))
	assertValidation(t, err, "kind")

	_, err = New(KindReceipt, nil).AddIssueLine(issueForm(1, 1, 1))
	assertValidation(t, err, "kind")
}

func TestLinesReturnsCopy(t *testing.T) {
	d := New(KindReceipt, nil)
	_, err := d.AddReceiptLine(receiptForm("L1", 1))
	require.NoError(t, err)

	lines := d.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, d.Lines()[0].Quantity)
}
