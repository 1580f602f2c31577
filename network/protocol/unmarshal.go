/*
 * MIT License
 *
 * Copyright (c) 2026 Contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package protocol

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

func (v *NetworkProtocol) UnmarshalJSON(p []byte) error {
	var s string
	if len(p) == 0 {
		*v = NetworkEmpty
		return nil
	}
	if err := json.Unmarshal(p, &s); err != nil {
		*v = Parse(string(p))
		return nil
	}
	*v = Parse(s)
	return nil
}

func (v *NetworkProtocol) UnmarshalYAML(value *yaml.Node) error {
	*v = Parse(value.Value)
	return nil
}

func (v *NetworkProtocol) UnmarshalTOML(i interface{}) error {
	switch t := i.(type) {
	case []byte:
		*v = Parse(string(t))
		return nil
	case string:
		*v = Parse(t)
		return nil
	default:
		return fmt.Errorf("network protocol: value not in valid format")
	}
}

func (v *NetworkProtocol) UnmarshalText(p []byte) error {
	*v = Parse(string(p))
	return nil
}

// UnmarshalCBOR is the inverse of MarshalCBOR: it treats p as the
// protocol's plain text spelling rather than a CBOR data item.
func (v *NetworkProtocol) UnmarshalCBOR(p []byte) error {
	*v = Parse(string(p))
	return nil
}
