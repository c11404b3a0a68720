package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Phone is a single inventory record for a handset model held in stock.
// All descriptive fields are free text; the server never validates them.
type Phone struct {
	ID              int64       `json:"id"`
	Brand           string      `json:"brand"`
	Model           string      `json:"model"`
	StorageCapacity string      `json:"storageCapacity"`
	RAM             string      `json:"ram"`
	SalePrice       NumericText `json:"salePrice"`
	Quantity        NumericText `json:"quantity"`
	Color           string      `json:"color"`
}

// Patch carries a partial update. Nil fields keep the stored value.
// There is deliberately no ID field: ids are immutable.
type Patch struct {
	Brand           *string      `json:"brand,omitempty"`
	Model           *string      `json:"model,omitempty"`
	StorageCapacity *string      `json:"storageCapacity,omitempty"`
	RAM             *string      `json:"ram,omitempty"`
	SalePrice       *NumericText `json:"salePrice,omitempty"`
	Quantity        *NumericText `json:"quantity,omitempty"`
	Color           *string      `json:"color,omitempty"`
}

// Apply returns p with every non-nil patch field copied over it.
func (pt Patch) Apply(p Phone) Phone {
	if pt.Brand != nil {
		p.Brand = *pt.Brand
	}
	if pt.Model != nil {
		p.Model = *pt.Model
	}
	if pt.StorageCapacity != nil {
		p.StorageCapacity = *pt.StorageCapacity
	}
	if pt.RAM != nil {
		p.RAM = *pt.RAM
	}
	if pt.SalePrice != nil {
		p.SalePrice = *pt.SalePrice
	}
	if pt.Quantity != nil {
		p.Quantity = *pt.Quantity
	}
	if pt.Color != nil {
		p.Color = *pt.Color
	}
	return p
}

// IsEmpty reports whether the patch would leave any phone unchanged.
func (pt Patch) IsEmpty() bool {
	return pt == Patch{}
}

// NumericText is a numeric-looking value kept as text.
// It always encodes as a JSON string but also decodes JSON numbers,
// keeping their literal form ("1299.99" stays "1299.99").
type NumericText string

func (n NumericText) String() string { return string(n) }

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (n *NumericText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericText(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("numeric text must be a string or a number, got %s", data)
	}
	*n = NumericText(num.String())
	return nil
}
