package cost_test

import (
	"encoding/json"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"constructhub/internal/cost"
)

var _ = Describe("Parse", func() {
	DescribeTable("normalizes loose cost values",
		func(in any, expected int64) {
			Expect(cost.Parse(in)).To(Equal(expected))
		},
		Entry("naira with separators", "₦2,500,000", int64(2500000)),
		Entry("plain int", 1500, int64(1500)),
		Entry("nil", nil, int64(0)),
		Entry("empty string", "", int64(0)),
		Entry("float truncates", 1499.99, int64(1499)),
		Entry("negative float truncates toward zero", -12.7, int64(-12)),
		Entry("decimal string keeps integer part", "₦1,250.75", int64(1250)),
		Entry("dollar with spaces", " $ 3 000 ", int64(3000)),
		Entry("negative string", "-₦400", int64(-400)),
		Entry("letters only", "TBD", int64(0)),
		Entry("lone minus", "-", int64(0)),
		Entry("json number", json.Number("77"), int64(77)),
		Entry("NaN", math.NaN(), int64(0)),
		Entry("infinity", math.Inf(1), int64(0)),
		Entry("bool", true, int64(0)),
		Entry("overflowing digits", "99999999999999999999999", int64(0)),
	)

	It("sums mixed values", func() {
		Expect(cost.Sum("₦1,000", 500, nil, "x")).To(Equal(int64(1500)))
	})
})

var _ = Describe("Format", func() {
	It("groups thousands", func() {
		Expect(cost.Format(2500000)).To(Equal("₦2,500,000"))
		Expect(cost.Format(999)).To(Equal("₦999"))
		Expect(cost.Format(0)).To(Equal("₦0"))
		Expect(cost.Format(-1000)).To(Equal("-₦1,000"))
	})
})
