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

// Package runner holds the panic-recovery helper shared by long-lived
// goroutines (the startStop lifecycle runner, file-backed log hooks,
// write aggregators) that cannot let a single panic take the process down.
package runner

import (
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// RecoveryCaller logs a recovered panic along with its stack trace. It is a
// no-op when recovered is nil, so callers can defer it unconditionally:
//
//	defer runner.RecoveryCaller("my/tag", recover())
//
// extra, when given, is attached as additional context (e.g. a file path).
func RecoveryCaller(tag string, recovered any, extra ...string) {
	if recovered == nil {
		return
	}

	entry := logrus.WithFields(logrus.Fields{
		"tag":       tag,
		"recovered": fmt.Sprintf("%v", recovered),
		"stack":     string(debug.Stack()),
	})

	if len(extra) > 0 {
		entry = entry.WithField("info", extra[0])
	}

	entry.Error("recovered from panic")
}
