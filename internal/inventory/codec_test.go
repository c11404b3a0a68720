package inventory_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"phonestore/internal/inventory"
	"phonestore/internal/testutil"
)

func TestEncodePhones(t *testing.T) {
	tests := []struct {
		name   string
		phones []inventory.Phone
		want   string
	}{
		{name: "nil", phones: nil, want: "[]\n"},
		{name: "empty", phones: []inventory.Phone{}, want: "[]\n"},
		{
			name:   "indented",
			phones: []inventory.Phone{{ID: 1, Brand: "Nothing", Model: "Phone 2"}},
			want: `[
  {
    "id": 1,
    "brand": "Nothing",
    "model": "Phone 2",
    "storageCapacity": "",
    "ram": "",
    "salePrice": "",
    "quantity": "",
    "color": ""
  }
]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := inventory.EncodePhones(tt.phones)
			if err != nil {
				t.Fatalf("EncodePhones() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, string(got)); diff != "" {
				t.Errorf("EncodePhones() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodePhones(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		want := testutil.Phones(3)
		data, err := inventory.EncodePhones(want)
		if err != nil {
			t.Fatalf("EncodePhones() error = %v", err)
		}
		got, err := inventory.DecodePhones(data)
		if err != nil {
			t.Fatalf("DecodePhones() error = %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("DecodePhones() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("null is empty", func(t *testing.T) {
		got, err := inventory.DecodePhones([]byte("null"))
		if err != nil {
			t.Fatalf("DecodePhones() error = %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("DecodePhones(null) = %#v, want empty slice", got)
		}
	})

	t.Run("object is rejected", func(t *testing.T) {
		if _, err := inventory.DecodePhones([]byte(`{"id":1}`)); err == nil {
			t.Error("DecodePhones() expected error for a JSON object")
		}
	})
}
