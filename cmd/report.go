package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/staffsim/staffsim/sim"
	"github.com/staffsim/staffsim/sim/optimize"
	"github.com/staffsim/staffsim/sim/sensitivity"
	"github.com/staffsim/staffsim/sim/trace"
)

// money formats a currency amount with two decimals.
func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// percent formats a percentage with two decimals and an explicit sign.
func percent(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}
	return d.StringFixed(2) + "%"
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
}

// printSimulation writes the monthly table and totals of one simulation.
func printSimulation(w io.Writer, schedule sim.Schedule, res *sim.Result, withCLV bool) error {
	fmt.Fprintln(w, "=== Simulation ===")
	tw := newTable(w)
	header := "month\tnew_business\taccount_managers\tsupport\tcustomers\tchurned\tacquired\tmanaged\tsatisfaction\trevenue\t"
	if withCLV {
		header += "clv\t"
	}
	fmt.Fprintln(tw, header)
	for i, m := range res.Months {
		a := schedule[i]
		line := fmt.Sprintf("%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%.1f\t%s\t",
			m.Month+1, a.NewBusiness, a.AccountManagers, a.Support,
			m.Customers, m.Churned, m.Acquired, m.Managed, m.Satisfaction, money(m.Revenue))
		if withCLV {
			line += money(m.CLV) + "\t"
		}
		fmt.Fprintln(tw, line)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Total revenue: %s\n", money(res.CumulativeRevenue))
	if withCLV {
		fmt.Fprintf(w, "Mean CLV: %s\n", money(res.MeanCLV))
	}
	return nil
}

// printImpactReport writes the sensitivity table, ranked by impact.
func printImpactReport(w io.Writer, r *sensitivity.ImpactReport) error {
	fmt.Fprintf(w, "=== Sensitivity (%s, ±%s%%) ===\n", r.Outcome, decimal.NewFromFloat(r.Factor*100).Round(2).String())
	fmt.Fprintf(w, "Baseline: %s\n", money(r.Baseline))
	tw := newTable(w)
	fmt.Fprintln(tw, "constant\toriginal\tincrease\tchange\tdecrease\tchange\timpact\t")
	for _, imp := range r.Ranked() {
		fmt.Fprintf(tw, "%s\t%v\t%s\t%s\t%s\t%s\t%s\t\n",
			imp.Constant, imp.OriginalValue,
			money(imp.Increased.Outcome), percent(imp.Increased.PercentChange),
			money(imp.Decreased.Outcome), percent(imp.Decreased.PercentChange),
			money(imp.Score))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Most impactful constant: %s\n", r.MostImpactful)
	return nil
}

// printTrajectories writes one per-month table per constant.
func printTrajectories(w io.Writer, trs []sensitivity.Trajectory) error {
	for _, tr := range trs {
		fmt.Fprintf(w, "--- %s (%s) ---\n", tr.Constant, tr.Outcome)
		tw := newTable(w)
		fmt.Fprintln(tw, "month\tbaseline\tincrease\tdecrease\t")
		for m := range tr.Baseline {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n", m+1, money(tr.Baseline[m]), money(tr.Increased[m]), money(tr.Decreased[m]))
		}
		b, inc, dec := tr.Totals()
		fmt.Fprintf(tw, "total\t%s\t%s\t%s\t\n", money(b), money(inc), money(dec))
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// printOptimization writes the best schedule and the run summary.
func printOptimization(w io.Writer, res *optimize.Result) error {
	summary := trace.Summarize(res.Trace)
	fmt.Fprintln(w, "=== Optimization ===")
	fmt.Fprintf(w, "Run: %s\n", res.RunID)
	fmt.Fprintf(w, "Generations: %d  Evaluations: %d  Repairs: %d\n",
		summary.Generations, summary.TotalEvaluations, summary.TotalRepairs)
	fmt.Fprintf(w, "Best revenue: %s\n", money(res.BestFitness))
	fmt.Fprintf(w, "Baseline revenue: %s\n", money(res.BaselineFitness))
	fmt.Fprintf(w, "Improvement: %s\n", money(res.Improvement))

	tw := newTable(w)
	fmt.Fprintln(tw, "month\tnew_business\taccount_managers\tsupport\t")
	for i, a := range res.Best {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t\n", i+1, a.NewBusiness, a.AccountManagers, a.Support)
	}
	return tw.Flush()
}
