// Package metrics computes summary statistics over a distribution's
// selection marginals: minimum, maximum, mean, and dispersion (standard
// deviation). These mirror the descriptive statistics the source
// system's offline analysis script computes over repeated replicate
// runs (mean and standard deviation of loss across RANDOMIZED_REPLICATES
// trials) without reproducing its plotting or file-output concerns,
// which are external-collaborator responsibilities.
package metrics
