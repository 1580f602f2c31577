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

package errors

// Domain error codes for the network-service framework. Grouped by the
// taxonomy kinds used across the protocol layers, numbered in the 1000s
// so they never collide with the package's built-in HTTP-status-shaped
// codes.
const (
	// Parse errors (1000s): malformed wire data.
	CodeParseHTTPHead      CodeError = 1001
	CodeParseChunk         CodeError = 1002
	CodeParseSocksOpcode   CodeError = 1003
	CodeParseHAProxyHeader CodeError = 1004
	CodeParseGRPCFrame     CodeError = 1005

	// Protocol errors (1100s): well-formed but disallowed or unexpected.
	CodeUnexpectedMessage     CodeError = 1101
	CodeIncompleteMessage     CodeError = 1102
	CodeDisallowedHeaders     CodeError = 1103
	CodeHTTP2StreamError      CodeError = 1104
	CodeSocksBadVersion       CodeError = 1105
	CodeGRPCUnknownEncoding   CodeError = 1106
	CodeHTTP2ConnectionClosed CodeError = 1107

	// Resource errors (1200s): limits exceeded.
	CodeMessageTooLarge         CodeError = 1201
	CodeMaxConcurrentStreams    CodeError = 1202
	CodeBodyWriteAborted        CodeError = 1203
	CodeResourceExhaustedGRPC   CodeError = 1204
	CodeConcurrencyLimitReached CodeError = 1205

	// Transport errors (1300s).
	CodeTransportClosed    CodeError = 1301
	CodeTransportIO        CodeError = 1302
	CodeUnexpectedEOF      CodeError = 1303

	// Timing errors (1400s).
	CodeHeaderReadTimeout CodeError = 1401
	CodeRequestTimeout    CodeError = 1402
	CodeTimedOut          CodeError = 1403

	// User-service and cancellation (1500s).
	CodeUserService CodeError = 1501
	CodeCanceled    CodeError = 1502

	// Configuration errors (1600s).
	CodeConfigLoad CodeError = 1601
)

func init() {
	RegisterIdFctMessage(CodeParseHTTPHead, func(CodeError) string { return "malformed HTTP/1 head" })
	RegisterIdFctMessage(CodeParseChunk, func(CodeError) string { return "malformed chunk size" })
	RegisterIdFctMessage(CodeParseSocksOpcode, func(CodeError) string { return "invalid SOCKS5 opcode" })
	RegisterIdFctMessage(CodeParseHAProxyHeader, func(CodeError) string { return "invalid HAProxy PROXY header" })
	RegisterIdFctMessage(CodeParseGRPCFrame, func(CodeError) string { return "malformed gRPC frame" })

	RegisterIdFctMessage(CodeUnexpectedMessage, func(CodeError) string { return "unexpected message" })
	RegisterIdFctMessage(CodeIncompleteMessage, func(CodeError) string { return "incomplete message" })
	RegisterIdFctMessage(CodeDisallowedHeaders, func(CodeError) string { return "disallowed header combination" })
	RegisterIdFctMessage(CodeHTTP2StreamError, func(CodeError) string { return "http/2 stream error" })
	RegisterIdFctMessage(CodeSocksBadVersion, func(CodeError) string { return "unsupported SOCKS version" })
	RegisterIdFctMessage(CodeGRPCUnknownEncoding, func(CodeError) string { return "unimplemented grpc-encoding" })
	RegisterIdFctMessage(CodeHTTP2ConnectionClosed, func(CodeError) string { return "http/2 connection closed" })

	RegisterIdFctMessage(CodeMessageTooLarge, func(CodeError) string { return "message too large" })
	RegisterIdFctMessage(CodeMaxConcurrentStreams, func(CodeError) string { return "max concurrent streams reached" })
	RegisterIdFctMessage(CodeBodyWriteAborted, func(CodeError) string { return "body write aborted" })
	RegisterIdFctMessage(CodeResourceExhaustedGRPC, func(CodeError) string { return "resource exhausted" })
	RegisterIdFctMessage(CodeConcurrencyLimitReached, func(CodeError) string { return "concurrency limit reached" })

	RegisterIdFctMessage(CodeTransportClosed, func(CodeError) string { return "connection closed unexpectedly" })
	RegisterIdFctMessage(CodeTransportIO, func(CodeError) string { return "transport i/o error" })
	RegisterIdFctMessage(CodeUnexpectedEOF, func(CodeError) string { return "unexpected eof" })

	RegisterIdFctMessage(CodeHeaderReadTimeout, func(CodeError) string { return "header read timeout" })
	RegisterIdFctMessage(CodeRequestTimeout, func(CodeError) string { return "request timeout" })
	RegisterIdFctMessage(CodeTimedOut, func(CodeError) string { return "timed out" })

	RegisterIdFctMessage(CodeUserService, func(CodeError) string { return "internal server error" })
	RegisterIdFctMessage(CodeCanceled, func(CodeError) string { return "canceled" })

	RegisterIdFctMessage(CodeConfigLoad, func(CodeError) string { return "configuration load error" })
}

// IsTimeout reports whether err, or anything in its parent chain, carries
// one of the timing error codes. Policies (retry, trace) use this instead
// of type-asserting a concrete timeout type.
func IsTimeout(err error) bool {
	e, ok := err.(Error)
	if !ok {
		return false
	}
	return e.HasCode(CodeTimedOut) || e.HasCode(CodeHeaderReadTimeout) || e.HasCode(CodeRequestTimeout)
}

// IsCanceled reports whether err, or anything in its parent chain, is a
// cancellation error.
func IsCanceled(err error) bool {
	e, ok := err.(Error)
	if !ok {
		return false
	}
	return e.HasCode(CodeCanceled)
}
