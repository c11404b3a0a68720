package inventory

import "encoding/json"

// EncodePhones renders phones as a two-space indented JSON array followed by
// a newline. The phones file and snapshot payloads share this format.
func EncodePhones(phones []Phone) ([]byte, error) {
	if phones == nil {
		phones = []Phone{}
	}
	data, err := json.MarshalIndent(phones, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// DecodePhones parses a JSON array of phones. A JSON null decodes to an
// empty collection.
func DecodePhones(data []byte) ([]Phone, error) {
	var phones []Phone
	if err := json.Unmarshal(data, &phones); err != nil {
		return nil, err
	}
	if phones == nil {
		phones = []Phone{}
	}
	return phones, nil
}
