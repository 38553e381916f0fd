// Package nash computes a continuous distribution over feasible panels
// maximizing the sum of log selection marginals over covered
// respondents (Nash welfare), via convex column generation.
//
// It maintains an ordered panel list B and a coverage matrix A (covered
// respondents by panels) built incrementally as B grows. Each iteration
// solves the convex program maximize Σ log((Aλ)_i) subject to λ in the
// probability simplex, computes per-respondent reciprocals of the
// resulting marginals, and prices those reciprocals through the shared
// Panel Oracle. If the priced value cannot beat the best derivative
// among existing panels by more than the (deliberately coarse) Nash
// tolerance, the KKT conditions hold and the distribution is returned;
// otherwise the new panel is appended, its λ entry warm-started at 0.
package nash
