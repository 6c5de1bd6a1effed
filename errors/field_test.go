package errors

import "testing"

func TestFieldErrors(t *testing.T) {
	var err error
	err = AppendField(err, "GasPrice", ErrInput)
	err = AppendField(err, "Network", nil)
	err = AppendField(err, "Batch.MaxMessages", Wrap(ErrInput, "must be positive"))

	if got := FieldErrors(err, "GasPrice"); len(got) != 1 {
		t.Fatalf("want one GasPrice error, got %v", got)
	}
	if got := FieldErrors(err, "Network"); len(got) != 0 {
		t.Fatalf("want no Network error, got %v", got)
	}
	if got := FieldErrors(err, "Batch.MaxMessages"); len(got) != 1 {
		t.Fatalf("want one Batch.MaxMessages error, got %v", got)
	}
	if !ErrInput.Is(err) {
		t.Fatal("field errors must keep the root cause")
	}
}

func TestFieldErrorsNested(t *testing.T) {
	network := AppendField(nil, "ChainID", ErrInput)
	network = AppendField(network, "LCD", ErrEmpty)
	err := Wrap(AppendField(nil, "Networks.local", network), "validate")

	if got := FieldErrors(err, "Networks.local"); len(got) != 1 {
		t.Fatalf("want one Networks.local error, got %v", got)
	}
	if got := FieldErrors(err, "LCD"); len(got) != 1 || !ErrEmpty.Is(got[0]) {
		t.Fatalf("want one empty LCD error, got %v", got)
	}
	if got, want := FieldErrors(err, "ChainID")[0].Error(), `field "ChainID": invalid input`; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}
