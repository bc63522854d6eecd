package store_test

import (
	"strconv"
	"time"

	"github.com/kubev2v/job-tracker/internal/store"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("id generator", func() {
	var now time.Time

	BeforeEach(func() {
		now = time.UnixMilli(1_700_000_000_000)
	})

	It("uses the creation millisecond", func() {
		g := store.NewIDGeneratorWithClock(func() time.Time { return now })

		id, createdAt := g.Next()
		Expect(id).To(Equal("1700000000000"))
		Expect(createdAt.Equal(now)).To(BeTrue())
		Expect(createdAt.Location()).To(Equal(time.UTC))
	})

	It("bumps ids created in the same millisecond", func() {
		g := store.NewIDGeneratorWithClock(func() time.Time { return now })

		a, _ := g.Next()
		b, _ := g.Next()
		c, _ := g.Next()
		Expect([]string{a, b, c}).To(Equal([]string{"1700000000000", "1700000000001", "1700000000002"}))
	})

	It("never goes backwards when the clock does", func() {
		g := store.NewIDGeneratorWithClock(func() time.Time { return now })
		a, _ := g.Next()

		now = now.Add(-time.Minute)
		b, _ := g.Next()

		ai, _ := strconv.ParseInt(a, 10, 64)
		bi, _ := strconv.ParseInt(b, 10, 64)
		Expect(bi).To(BeNumerically(">", ai))
	})

	It("skips past observed ids", func() {
		g := store.NewIDGeneratorWithClock(func() time.Time { return now })
		g.Observe("1700000000500")
		g.Observe("not-a-number")

		id, _ := g.Next()
		Expect(id).To(Equal("1700000000501"))
	})
})
