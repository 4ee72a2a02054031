package importer

// CounterCeiling caps unbounded integer counters (days parked, element
// counts). The source data occasionally carries corrupt sentinel values in
// the billions that would overflow a bounded integer column; the ceiling
// preserves "large value" ordering without failing the batch.
const CounterCeiling int64 = 1_000_000

// Clamp caps a nullable counter at ceiling. Null passes through unchanged.
func Clamp(v *int64, ceiling int64) *int64 {
	if v == nil {
		return nil
	}
	if *v > ceiling {
		capped := ceiling
		return &capped
	}
	return v
}

// ClampInt is Clamp for int-width counters.
func ClampInt(v *int, ceiling int) *int {
	if v == nil {
		return nil
	}
	if *v > ceiling {
		capped := ceiling
		return &capped
	}
	return v
}
