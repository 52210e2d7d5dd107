package types

import (
	"reflect"
	"testing"
)

func TestAddressMissingFields(t *testing.T) {
	addr := Address{
		FirstName:  "Ayesha",
		LastName:   "Khan",
		Email:      "ayesha@example.com",
		Phone:      " ",
		Address:    "12 Rose Lane",
		City:       "Lahore",
		PostalCode: "54000",
		Country:    "PK",
	}
	got := addr.MissingFields()
	want := []string{"phone", "state"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MissingFields() = %v, want %v", got, want)
	}

	addr.Phone = "+92 300 0000000"
	addr.State = "Punjab"
	if got := addr.MissingFields(); len(got) != 0 {
		t.Fatalf("expected no missing fields, got %v", got)
	}
}

func TestAddressScanAcceptsStoredDocument(t *testing.T) {
	in := Address{FirstName: "Sara", LastName: "Ali", City: "Karachi"}
	raw, err := in.Value()
	if err != nil {
		t.Fatalf("Value() error: %v", err)
	}

	var out Address
	if err := out.Scan([]byte(raw.(string))); err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if out.FullName() != "Sara Ali" || out.City != "Karachi" {
		t.Fatalf("unexpected address %+v", out)
	}

	if err := out.Scan(42); err == nil {
		t.Fatal("expected unsupported type error")
	}
}
