// Package revenue turns invoices and consultation registrations into the
// monthly, year-to-date and status figures shown on the admin dashboard.
package revenue

import (
	"math"
	"sort"
	"strings"
	"time"

	"constructhub/internal/cost"
	"constructhub/internal/model"
)

// MonthsTracked is the length of the trailing monthly series.
const MonthsTracked = 12

var planPrices = map[string]int64{
	"buildpath consultation": 498,
	"landfit consultation":   299,
}

// PlanPrice is the fixed value of a consultation plan; unknown plans are worth 0.
func PlanPrice(plan string) int64 {
	return planPrices[strings.ToLower(strings.Join(strings.Fields(plan), " "))]
}

type Month struct {
	Year          int        `json:"year"`
	Month         time.Month `json:"month"`
	Label         string     `json:"label"`
	Invoices      int64      `json:"invoices"`
	Consultations int64      `json:"consultations"`
	Total         int64      `json:"total"`
}

type StatusBreakdown struct {
	Paid    int `json:"paid"`
	Pending int `json:"pending"`
	Overdue int `json:"overdue"`
}

func (b StatusBreakdown) Sum() int { return b.Paid + b.Pending + b.Overdue }

type Report struct {
	Monthly             []Month         `json:"monthly"`
	TotalYTD            int64           `json:"totalYtd"`
	ThisMonth           int64           `json:"thisMonth"`
	OutstandingInvoices int             `json:"outstandingInvoices"`
	StatusBreakdown     StatusBreakdown `json:"statusBreakdown"`
	// Undated counts settled records whose date could not be resolved.
	Undated int `json:"undated"`
}

// ResolveDate picks paidAt, then createdAt, then the raw date string, and
// returns it in loc. Dates stored without a zone keep their calendar day.
func ResolveDate(paidAt, createdAt model.Timestamp, raw string, loc *time.Location) (time.Time, bool) {
	if !paidAt.IsZero() {
		return paidAt.In(loc), true
	}
	if !createdAt.IsZero() {
		return createdAt.In(loc), true
	}
	return model.ParseDateIn(raw, loc)
}

type monthKey struct {
	year  int
	month time.Month
}

// Aggregate builds the report as of now. Only settled records carry money;
// the month series always holds MonthsTracked entries, oldest first.
func Aggregate(invoices []model.Invoice, consultations []model.ConsultationRegistration, now time.Time) Report {
	r := Report{Monthly: make([]Month, MonthsTracked)}

	index := make(map[monthKey]int, MonthsTracked)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := 0; i < MonthsTracked; i++ {
		m := first.AddDate(0, i-(MonthsTracked-1), 0)
		r.Monthly[i] = Month{Year: m.Year(), Month: m.Month(), Label: m.Format("Jan 2006")}
		index[monthKey{m.Year(), m.Month()}] = i
	}
	current := monthKey{now.Year(), now.Month()}

	add := func(at time.Time, amount int64, invoice bool) {
		if at.Year() == now.Year() && !at.After(now) {
			r.TotalYTD += amount
		}
		key := monthKey{at.Year(), at.Month()}
		if key == current {
			r.ThisMonth += amount
		}
		i, ok := index[key]
		if !ok {
			return
		}
		if invoice {
			r.Monthly[i].Invoices += amount
		} else {
			r.Monthly[i].Consultations += amount
		}
		r.Monthly[i].Total += amount
	}

	var paid, pending, overdue int
	for _, inv := range invoices {
		switch inv.Status {
		case model.InvoicePaid:
			paid++
		case model.InvoicePending:
			pending++
		case model.InvoiceOverdue:
			overdue++
		}
		if inv.Status.Outstanding() {
			r.OutstandingInvoices++
		}
		if !inv.Status.Settled() {
			continue
		}
		at, ok := ResolveDate(inv.PaidAt, inv.CreatedAt, inv.Date, now.Location())
		if !ok {
			r.Undated++
			continue
		}
		add(at, cost.Parse(inv.Amount), true)
	}

	for _, c := range consultations {
		if !c.Status.Settled() {
			continue
		}
		at, ok := ResolveDate(c.PaidAt, c.CreatedAt, c.Date, now.Location())
		if !ok {
			r.Undated++
			continue
		}
		add(at, PlanPrice(c.Plan), false)
	}

	r.StatusBreakdown = breakdown(len(invoices), paid, pending, overdue)
	return r
}

// breakdown rounds each share and then trims the categories that gained most
// from rounding until the total is at most 100.
func breakdown(total int, counts ...int) StatusBreakdown {
	if total == 0 {
		return StatusBreakdown{}
	}

	type share struct {
		idx     int
		rounded int
		gain    float64
	}
	shares := make([]share, len(counts))
	sum := 0
	for i, c := range counts {
		exact := 100 * float64(c) / float64(total)
		rounded := int(math.Round(exact))
		shares[i] = share{idx: i, rounded: rounded, gain: float64(rounded) - exact}
		sum += rounded
	}

	sort.SliceStable(shares, func(a, b int) bool { return shares[a].gain > shares[b].gain })
	for i := 0; sum > 100 && i < len(shares); i++ {
		if shares[i].rounded > 0 {
			shares[i].rounded--
			sum--
		}
	}

	out := make([]int, len(counts))
	for _, s := range shares {
		out[s.idx] = s.rounded
	}
	return StatusBreakdown{Paid: out[0], Pending: out[1], Overdue: out[2]}
}
