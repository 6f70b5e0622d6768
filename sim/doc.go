// Package sim provides the monthly revenue model that turns a staffing allocation
// schedule into a customer, churn and revenue trajectory.
//
// # Reading Guide
//
// Start with these files:
//   - config.go: model constants, validation, and copy-on-perturb accessors
//   - allocation.go: AllocationMonth, Schedule, and budget repair
//   - simulator.go: Simulate, the per-month loop for both fidelity levels
//   - cohort.go: per-customer managed tenure and fee state
//
// # Month Step
//
// Each month computes satisfaction from support headcount, derives a churn rate
// from it, evicts churned customers from the front of the cohort, appends newly
// acquired customers, assigns account management to the first customers up to
// capacity, and bills every customer. Simulate is pure: no randomness, no I/O,
// no state carried across calls.
//
// # Sub-packages
//
//   - sim/sensitivity/: perturb each constant and measure the outcome change
//   - sim/optimize/: generational search over budget-feasible schedules
//   - sim/trace/: per-generation record of an optimizer run
package sim
