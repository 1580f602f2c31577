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

package h2_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/netlayer/netlayer/httpproto/h2"
)

var _ = Describe("FlowWindow", func() {
	It("consumes and replenishes", func() {
		w := h2.NewFlowWindow(100)
		Expect(w.Consume(40)).To(Succeed())
		Expect(w.Available()).To(Equal(int64(60)))
		w.Replenish(10)
		Expect(w.Available()).To(Equal(int64(70)))
	})

	It("rejects consuming more than the available window", func() {
		w := h2.NewFlowWindow(10)
		Expect(w.Consume(11)).To(HaveOccurred())
	})

	It("allows Shrink to drive the window negative", func() {
		w := h2.NewFlowWindow(10)
		w.Shrink(-20)
		Expect(w.Available()).To(Equal(int64(-10)))
	})
})

var _ = Describe("BDPEstimator", func() {
	It("never shrinks below its seeded initial window before a sample is taken", func() {
		e := h2.NewBDPEstimator(65535, 1<<20)
		Expect(e.DesiredWindow()).To(Equal(uint32(65535)))
	})

	It("records an RTT sample without panicking", func() {
		e := h2.NewBDPEstimator(65535, 1<<20)
		e.OnRTTSample(20 * time.Millisecond)
		Expect(e.DesiredWindow()).To(Equal(uint32(65535)))
	})

	It("grows the desired window up to max after enough bytes and elapsed time", func() {
		e := h2.NewBDPEstimator(1000, 2000)
		e.OnRTTSample(100 * time.Millisecond)
		for i := 0; i < 5; i++ {
			e.OnBytesReceived(1 << 20)
			time.Sleep(12 * time.Millisecond)
		}
		Expect(e.DesiredWindow()).To(BeNumerically(">=", 1000))
		Expect(e.DesiredWindow()).To(BeNumerically("<=", 2000))
	})
})
