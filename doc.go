// Package ukcgt computes UK Capital Gains Tax on share disposals using the
// HMRC share identification rules.
//
// The core functionalities include:
//   - Corporate action normalization: splits and consolidations rescale every
//     earlier acquisition and disposal so that matching works on
//     post-adjustment share counts.
//   - Share identification: each disposal is matched first against same-day
//     acquisitions, then against acquisitions in the following 30 days (the
//     "bed and breakfast" rule), and finally against the Section 104 pool.
//   - Section 104 pooling: a per-security, weighted-average-cost holding that
//     absorbs every acquisition not claimed by the two date-based rules.
//   - Tax year aggregation: matched lots grouped by the UK tax year
//     (6 April to 5 April) with cost, proceeds and gain totals.
//
// The engine performs no I/O. Corporate actions and currency conversions are
// materialized by the caller before [Match] is invoked, so the same input
// always yields the same matched lots.
//
// This package serves as the foundational logic for the `cgt` command-line
// tool.
package ukcgt
