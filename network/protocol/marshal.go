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
)

func (v NetworkProtocol) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

func (v NetworkProtocol) MarshalYAML() (interface{}, error) {
	return v.String(), nil
}

func (v NetworkProtocol) MarshalTOML() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v NetworkProtocol) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// MarshalCBOR returns the protocol's plain text spelling, not a CBOR
// data item; it exists so NetworkProtocol can sit directly in structs
// handled alongside encoding/json and gopkg.in/yaml.v3 without a
// dedicated CBOR codepath.
func (v NetworkProtocol) MarshalCBOR() ([]byte, error) {
	return []byte(v.String()), nil
}
