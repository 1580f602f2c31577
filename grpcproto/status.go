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

// Package grpcproto implements gRPC's length-prefixed message framing,
// compression negotiation, a pluggable Codec, the canonical status-code
// set, and a grpc-web translation shim.
package grpcproto

import "strconv"

// Code is the canonical gRPC status code set (supplemented from
// original_source/'s rama-grpc status table, ported as typed constants
// instead of bare integers).
type Code uint32

const (
	OK                 Code = 0
	Canceled           Code = 1
	Unknown            Code = 2
	InvalidArgument    Code = 3
	DeadlineExceeded   Code = 4
	NotFound           Code = 5
	AlreadyExists      Code = 6
	PermissionDenied   Code = 7
	ResourceExhausted  Code = 8
	FailedPrecondition Code = 9
	Aborted            Code = 10
	OutOfRange         Code = 11
	Unimplemented      Code = 12
	Internal           Code = 13
	Unavailable        Code = 14
	DataLoss           Code = 15
	Unauthenticated    Code = 16
)

func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case Canceled:
		return "CANCELLED"
	case Unknown:
		return "UNKNOWN"
	case InvalidArgument:
		return "INVALID_ARGUMENT"
	case DeadlineExceeded:
		return "DEADLINE_EXCEEDED"
	case NotFound:
		return "NOT_FOUND"
	case AlreadyExists:
		return "ALREADY_EXISTS"
	case PermissionDenied:
		return "PERMISSION_DENIED"
	case ResourceExhausted:
		return "RESOURCE_EXHAUSTED"
	case FailedPrecondition:
		return "FAILED_PRECONDITION"
	case Aborted:
		return "ABORTED"
	case OutOfRange:
		return "OUT_OF_RANGE"
	case Unimplemented:
		return "UNIMPLEMENTED"
	case Internal:
		return "INTERNAL"
	case Unavailable:
		return "UNAVAILABLE"
	case DataLoss:
		return "DATA_LOSS"
	case Unauthenticated:
		return "UNAUTHENTICATED"
	default:
		return "CODE(" + strconv.Itoa(int(c)) + ")"
	}
}

// Status is a gRPC trailer-only outcome: a Code plus a human-readable
// message, written to the grpc-status/grpc-message trailer pair.
type Status struct {
	Code    Code
	Message string
}

// Err wraps s as an error, or returns nil for OK.
func (s Status) Err() error {
	if s.Code == OK {
		return nil
	}
	return &statusError{s}
}

type statusError struct{ s Status }

func (e *statusError) Error() string { return e.s.Code.String() + ": " + e.s.Message }

// AsStatus extracts the Status carried by err, or {Unknown, err.Error()}
// if err did not originate from this package.
func AsStatus(err error) Status {
	if err == nil {
		return Status{Code: OK}
	}
	if se, ok := err.(*statusError); ok {
		return se.s
	}
	return Status{Code: Unknown, Message: err.Error()}
}

// WriteTrailer formats s as the "grpc-status"/"grpc-message" trailer
// pair values.
func (s Status) WriteTrailer() (status string, message string) {
	return strconv.Itoa(int(s.Code)), s.Message
}
