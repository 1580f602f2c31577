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
	"fmt"
	"reflect"

	libmap "github.com/go-viper/mapstructure/v2"
)

// ViperDecoderHook returns a mapstructure decode hook that converts a
// string or integer config value into a NetworkProtocol field. Wire it
// in with viper.DecoderConfigOption(func(c *mapstructure.DecoderConfig)
// { c.DecodeHook = protocol.ViperDecoderHook() }).
func ViperDecoderHook() libmap.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		var z NetworkProtocol
		if to != reflect.TypeOf(z) {
			return data, nil
		}

		switch from.Kind() {
		case reflect.String:
			s, ok := data.(string)
			if !ok {
				return data, nil
			}
			return Parse(s), nil

		case reflect.Int:
			n, ok := data.(int)
			if !ok {
				return data, nil
			}
			return intToProtocol(int64(n))
		case reflect.Int8:
			n, ok := data.(int8)
			if !ok {
				return data, nil
			}
			return intToProtocol(int64(n))
		case reflect.Int16:
			n, ok := data.(int16)
			if !ok {
				return data, nil
			}
			return intToProtocol(int64(n))
		case reflect.Int32:
			n, ok := data.(int32)
			if !ok {
				return data, nil
			}
			return intToProtocol(int64(n))
		case reflect.Int64:
			n, ok := data.(int64)
			if !ok {
				return data, nil
			}
			return intToProtocol(n)

		case reflect.Uint:
			n, ok := data.(uint)
			if !ok {
				return data, nil
			}
			return intToProtocol(int64(n))
		case reflect.Uint8:
			n, ok := data.(uint8)
			if !ok {
				return data, nil
			}
			return intToProtocol(int64(n))
		case reflect.Uint16:
			n, ok := data.(uint16)
			if !ok {
				return data, nil
			}
			return intToProtocol(int64(n))
		case reflect.Uint32:
			n, ok := data.(uint32)
			if !ok {
				return data, nil
			}
			return intToProtocol(int64(n))
		case reflect.Uint64:
			n, ok := data.(uint64)
			if !ok {
				return data, nil
			}
			return intToProtocol(int64(n))

		default:
			return data, nil
		}
	}
}

func intToProtocol(n int64) (interface{}, error) {
	p := ParseInt64(n)
	if p == NetworkEmpty {
		return nil, fmt.Errorf("network protocol: invalid value %d", n)
	}
	return p, nil
}
