package model

import "strings"

// Capability is a statically resolvable property of an estimator. The plot
// gate and the tracking layer check capabilities through this set instead of
// probing methods at call sites.
type Capability uint8

const (
	// SupportsProbability marks estimators implementing ProbabilityEstimator.
	SupportsProbability Capability = 1 << iota

	// SupportsCoefficients marks estimators implementing CoefficientProvider.
	SupportsCoefficients

	// SupportsFeatureImportance marks estimators implementing
	// FeatureImportanceProvider.
	SupportsFeatureImportance

	// SupportsScoring marks estimators implementing Scorer.
	SupportsScoring
)

// CapabilitySet is the set of capabilities an estimator supports, resolved
// once when the model enters the experiment layer.
type CapabilitySet uint8

// Has reports whether every capability in c is present in the set.
func (s CapabilitySet) Has(c Capability) bool {
	return s&CapabilitySet(c) == CapabilitySet(c)
}

// String lists the capabilities in the set.
func (s CapabilitySet) String() string {
	if s == 0 {
		return "none"
	}
	var names []string
	if s.Has(SupportsProbability) {
		names = append(names, "probability")
	}
	if s.Has(SupportsCoefficients) {
		names = append(names, "coefficients")
	}
	if s.Has(SupportsFeatureImportance) {
		names = append(names, "feature_importance")
	}
	if s.Has(SupportsScoring) {
		names = append(names, "scoring")
	}
	return strings.Join(names, "|")
}

// ResolveCapabilities inspects est exactly once and returns its capability
// set. All later checks are set membership tests.
func ResolveCapabilities(est Estimator) CapabilitySet {
	var s CapabilitySet
	if _, ok := est.(ProbabilityEstimator); ok {
		s |= CapabilitySet(SupportsProbability)
	}
	if _, ok := est.(CoefficientProvider); ok {
		s |= CapabilitySet(SupportsCoefficients)
	}
	if _, ok := est.(FeatureImportanceProvider); ok {
		s |= CapabilitySet(SupportsFeatureImportance)
	}
	if _, ok := est.(Scorer); ok {
		s |= CapabilitySet(SupportsScoring)
	}
	return s
}
