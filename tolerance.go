package colgen

import "math"

// Precision is the tolerance for reduced-cost, integrality and positivity tests.
const Precision = 1e-6

// IsFractional reports whether v is further than Precision from an integer.
func IsFractional(v float64) bool { return math.Abs(v-math.Round(v)) > Precision }

// IsIntegral is the negation of IsFractional.
func IsIntegral(v float64) bool { return !IsFractional(v) }

// IsPositive reports v > Precision.
func IsPositive(v float64) bool { return v > Precision }

// CeilTol rounds up, treating values within Precision above an integer as that integer.
func CeilTol(v float64) float64 { return math.Ceil(v - Precision) }

// FloorTol rounds down, treating values within Precision below an integer as that integer.
func FloorTol(v float64) float64 { return math.Floor(v + Precision) }
