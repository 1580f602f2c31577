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

package grpcproto

import (
	"encoding/json"

	"google.golang.org/protobuf/proto"

	liberr "github.com/netlayer/netlayer/errors"
)

// Codec marshals/unmarshals a single gRPC message's application payload
// (the bytes inside a frame, after any decompression), as a single
// small interface — the usual shape for a pluggable concern.
type Codec interface {
	Name() string
	Marshal(msg any) ([]byte, error)
	Unmarshal(data []byte, msg any) error
}

// ProtoCodec marshals proto.Message values with
// google.golang.org/protobuf, the default gRPC wire codec.
type ProtoCodec struct{}

func (ProtoCodec) Name() string { return "proto" }

func (ProtoCodec) Marshal(msg any) ([]byte, error) {
	pm, ok := msg.(proto.Message)
	if !ok {
		return nil, liberr.CodeParseGRPCFrame.Error(errNotProtoMessage)
	}
	b, err := proto.Marshal(pm)
	if err != nil {
		return nil, liberr.CodeParseGRPCFrame.Error(err)
	}
	return b, nil
}

func (ProtoCodec) Unmarshal(data []byte, msg any) error {
	pm, ok := msg.(proto.Message)
	if !ok {
		return liberr.CodeParseGRPCFrame.Error(errNotProtoMessage)
	}
	if err := proto.Unmarshal(data, pm); err != nil {
		return liberr.CodeParseGRPCFrame.Error(err)
	}
	return nil
}

// JSONCodec marshals arbitrary values with encoding/json, for
// non-protobuf payloads (debug endpoints, grpc-web-text demos).
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, liberr.CodeParseGRPCFrame.Error(err)
	}
	return b, nil
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if err := json.Unmarshal(data, msg); err != nil {
		return liberr.CodeParseGRPCFrame.Error(err)
	}
	return nil
}

var errNotProtoMessage = protoTypeError{}

type protoTypeError struct{}

func (protoTypeError) Error() string { return "value does not implement proto.Message" }
