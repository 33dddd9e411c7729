package insights_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/receipt-insights/internal/insights"
	"github.com/zombor/receipt-insights/internal/receipts"
)

var _ = Describe("ItemCount", func() {
	It("marshals as a [description, count] pair", func() {
		data, err := json.Marshal(insights.ItemCount{Description: "AH BANANEN", Count: 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(MatchJSON(`["AH BANANEN", 3]`))
	})

	It("unmarshals a [description, count] pair", func() {
		var ic insights.ItemCount
		Expect(json.Unmarshal([]byte(`["AH BANANEN", 3]`), &ic)).To(Succeed())
		Expect(ic).To(Equal(insights.ItemCount{Description: "AH BANANEN", Count: 3}))
	})

	It("rejects pairs of the wrong length", func() {
		var ic insights.ItemCount
		Expect(json.Unmarshal([]byte(`["AH BANANEN"]`), &ic)).NotTo(Succeed())
	})
})

var _ = Describe("BuildReport", func() {
	var (
		rcpts       []receipts.Receipt
		assignments map[string]string
		report      *insights.Report
		err         error
	)

	BeforeEach(func() {
		assignments = map[string]string{"AH BANANEN": "PRODUCE"}
	})

	JustBeforeEach(func() {
		report, err = insights.BuildReport(rcpts, assignments, 10)
	})

	When("the collection has receipts", func() {
		BeforeEach(func() {
			rcpts = []receipts.Receipt{
				receiptOn("2024-03-20 18:42", 10.00,
					item(qty("1"), "AH BANANEN", 1.99),
					item(qty("BONUS"), "AH BANANEN", -1.50),
				),
				receiptOn("2024-03-21 09:15", 20.00),
			}
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should compose every aggregate", func() {
			Expect(report.TotalSpending).To(BeNumerically("~", 30.00, 1e-9))
			Expect(report.NumTransactions).To(Equal(2))
			Expect(report.AverageTransaction).To(BeNumerically("~", 15.00, 1e-9))
			Expect(report.TotalBonusSavings).To(BeNumerically("~", 1.50, 1e-9))
			Expect(report.MostBoughtItems).To(Equal([]insights.ItemCount{{Description: "AH BANANEN", Count: 1}}))
			Expect(report.SpendingByDay).To(HaveLen(2))
			Expect(report.SpendingByCategory).To(Equal(map[string]float64{"PRODUCE": 1.99}))
		})

		It("should marshal with the report contract's field names", func() {
			data, marshalErr := json.Marshal(report)
			Expect(marshalErr).NotTo(HaveOccurred())

			var fields map[string]json.RawMessage
			Expect(json.Unmarshal(data, &fields)).To(Succeed())
			Expect(fields).To(HaveKey("total_spending"))
			Expect(fields).To(HaveKey("num_transactions"))
			Expect(fields).To(HaveKey("average_transaction"))
			Expect(fields).To(HaveKey("total_bonus_savings"))
			Expect(fields).To(HaveKey("most_bought_items"))
			Expect(fields).To(HaveKey("spending_by_day"))
			Expect(fields).To(HaveKey("spending_by_category"))
		})
	})

	When("the collection is empty", func() {
		BeforeEach(func() {
			rcpts = nil
		})

		It("fails instead of producing a partial report", func() {
			Expect(err).To(MatchError(insights.ErrNoReceipts))
			Expect(report).To(BeNil())
		})
	})
})

var _ = Describe("RenderDashboard", func() {
	It("renders the report's headline figures", func() {
		report := &insights.Report{
			ID:                 "run-1",
			TotalSpending:      30.00,
			NumTransactions:    2,
			AverageTransaction: 15.00,
			TotalBonusSavings:  1.50,
			MostBoughtItems:    []insights.ItemCount{{Description: "AH BANANEN", Count: 2}},
			SpendingByDay:      map[string]float64{"2024-03-20": 30.00},
			SpendingByCategory: map[string]float64{"PRODUCE": 5.97},
		}

		page, err := insights.RenderDashboard(report)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(page)).To(ContainSubstring("€30.00"))
		Expect(string(page)).To(ContainSubstring("AH BANANEN"))
		Expect(string(page)).To(ContainSubstring("PRODUCE"))
		Expect(string(page)).To(ContainSubstring("2024-03-20"))
	})
})
