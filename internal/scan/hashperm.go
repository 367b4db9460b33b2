package scan

// Fixed caveats attached to every hash-permanence summary. These are
// architectural facts about content-addressed history, not findings.
var permanenceCaveats = []string{
	"Git hashes create permanent references to commit data",
	"Distributed nature prevents centralized data erasure",
	"Fork propagation multiplies data retention points",
}

// AnalyzeHashPermanence summarizes the permanence properties of the
// sampled commit identifiers. The entropy figure is the ratio of
// distinct characters to total characters across the sample; it is
// advisory metadata for the report, not a cryptographic measurement.
func AnalyzeHashPermanence(sample []string, totalCommits int) HashPermanence {
	hp := HashPermanence{
		TotalHashes:       totalCommits,
		HashAlgorithm:     "SHA-1",
		ErasureImpossible: true,
	}

	if len(sample) > 0 {
		hp.SampleHashes = append([]string(nil), sample...)

		seen := map[string]struct{}{}
		distinct := map[rune]struct{}{}
		total := 0
		collision := false
		for _, h := range sample {
			if _, dup := seen[h]; dup {
				collision = true
			}
			seen[h] = struct{}{}
			for _, c := range h {
				distinct[c] = struct{}{}
				total++
			}
		}
		if total > 0 {
			hp.HashEntropy = float64(len(distinct)) / float64(total)
		}
		if collision {
			hp.PermanenceIssues = append(hp.PermanenceIssues, "Hash collision detected")
		}
	}

	hp.PermanenceIssues = append(hp.PermanenceIssues, permanenceCaveats...)
	return hp
}
