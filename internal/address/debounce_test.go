package address_test

import (
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/PratikDhanave/lodging-intake-service/internal/address"
)

var _ = Describe("Debouncer", func() {
	var d *address.Debouncer

	BeforeEach(func() {
		d = address.NewDebouncer()
	})

	AfterEach(func() {
		d.Stop()
	})

	It("runs only the last of a burst of triggers", func() {
		var mu sync.Mutex
		var got []string

		for _, v := range []string{"1", "10", "101", "1011", "10115"} {
			v := v
			d.Trigger("zipcode", 30*time.Millisecond, func() {
				mu.Lock()
				defer mu.Unlock()
				got = append(got, v)
			})
			time.Sleep(5 * time.Millisecond)
		}

		Eventually(func() []string {
			mu.Lock()
			defer mu.Unlock()
			return append([]string(nil), got...)
		}).Should(Equal([]string{"10115"}))
		Consistently(func() int {
			mu.Lock()
			defer mu.Unlock()
			return len(got)
		}, 100*time.Millisecond).Should(Equal(1))
	})

	It("debounces keys independently", func() {
		var zip, city atomic.Int32
		d.Trigger("zipcode", 10*time.Millisecond, func() { zip.Add(1) })
		d.Trigger("city", 10*time.Millisecond, func() { city.Add(1) })

		Eventually(zip.Load).Should(Equal(int32(1)))
		Eventually(city.Load).Should(Equal(int32(1)))
	})

	It("drops a cancelled call", func() {
		var calls atomic.Int32
		d.Trigger("city", 20*time.Millisecond, func() { calls.Add(1) })
		d.Cancel("city")

		Consistently(calls.Load, 80*time.Millisecond).Should(BeZero())
	})

	It("ignores triggers after Stop", func() {
		var calls atomic.Int32
		d.Trigger("zipcode", 20*time.Millisecond, func() { calls.Add(1) })
		d.Stop()
		d.Trigger("zipcode", time.Millisecond, func() { calls.Add(1) })

		Consistently(calls.Load, 80*time.Millisecond).Should(BeZero())
	})
})
