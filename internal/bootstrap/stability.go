package bootstrap

// optionalWeight is the share of the stability score carried by optional
// systems when any are declared. Required systems carry the rest, so a run
// that reached READY with failed optional systems scores below 1.0 while a
// fully successful run scores exactly 1.0.
const optionalWeight = 0.2

// computeStability derives the 0-1 stability score. A run that is not READY
// scores 0 by convention: a required-system failure already means the run
// never reached a usable state. The score is purely diagnostic; readiness is
// decided by the state machine's failure policy alone, and nothing may
// branch on this value to infer READY.
func computeStability(ready bool, requiredTotal, requiredOK, optionalTotal, optionalOK int) float64 {
	if !ready {
		return 0
	}

	requiredFrac := 1.0
	if requiredTotal > 0 {
		requiredFrac = float64(requiredOK) / float64(requiredTotal)
	}
	if optionalTotal == 0 {
		return clamp01(requiredFrac)
	}

	optionalFrac := float64(optionalOK) / float64(optionalTotal)
	return clamp01(requiredFrac*(1-optionalWeight) + optionalFrac*optionalWeight)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// stabilityLocked computes the score from current state. Callers must hold
// b.mu.
func (b *Bootstrapper) stabilityLocked() float64 {
	var requiredTotal, requiredOK, optionalTotal, optionalOK int
	for _, d := range b.table.All() {
		if d.Required {
			requiredTotal++
			if b.initialized[d.Name] {
				requiredOK++
			}
		} else {
			optionalTotal++
			if b.initialized[d.Name] {
				optionalOK++
			}
		}
	}
	return computeStability(b.stage == StageReady, requiredTotal, requiredOK, optionalTotal, optionalOK)
}
